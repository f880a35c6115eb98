package config

import "testing"

func TestLoadDefaultsAutoMigrateOn(t *testing.T) {
	t.Setenv("AUTO_MIGRATE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.AutoMigrate {
		t.Fatal("expected auto migrate enabled by default")
	}
}

func TestLoadAutoMigrateCanBeDisabled(t *testing.T) {
	t.Setenv("AUTO_MIGRATE", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AutoMigrate {
		t.Fatal("expected auto migrate disabled")
	}
}
