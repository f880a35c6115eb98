package main

import (
	"context"
	"log"

	"locker/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Drive the periodic sweeps (DNS verification, auto-approve, settlement,
//    plan downgrade) on their configured cadences.
func main() {
	log.Println("locker worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("locker worker stopped with error: %v", err)
	}
}
