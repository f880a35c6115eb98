package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainsvc "locker/contexts/enterprise-management/domain-service"
	dnsadapter "locker/contexts/enterprise-management/domain-service/adapters/dns"
	domainpostgres "locker/contexts/enterprise-management/domain-service/adapters/postgres"
	membership "locker/contexts/enterprise-management/membership-service"
	jwtadapter "locker/contexts/enterprise-management/membership-service/adapters/jwt"
	membershippostgres "locker/contexts/enterprise-management/membership-service/adapters/postgres"
	policy "locker/contexts/enterprise-management/policy-service"
	policymemory "locker/contexts/enterprise-management/policy-service/adapters/memory"
	policypostgres "locker/contexts/enterprise-management/policy-service/adapters/postgres"
	policyredis "locker/contexts/enterprise-management/policy-service/adapters/redis"
	policyports "locker/contexts/enterprise-management/policy-service/ports"
	billing "locker/contexts/finance-core/seat-billing-service"
	gatewayadapter "locker/contexts/finance-core/seat-billing-service/adapters/gateway"
	billingpostgres "locker/contexts/finance-core/seat-billing-service/adapters/postgres"
	cipher "locker/contexts/vault-access/cipher-service"
	cipherpostgres "locker/contexts/vault-access/cipher-service/adapters/postgres"
	"locker/internal/platform/config"
	"locker/internal/platform/db"
	"locker/internal/platform/httpserver"
	"locker/internal/platform/taskqueue"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	queue    *taskqueue.Queue
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	queue    *taskqueue.Queue
	jobs     []periodicJob
	logger   *slog.Logger
}

// periodicJob pairs a worker with its own cadence so one loop can drive
// sweeps that run minutes apart next to ones that run hourly.
type periodicJob struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
	nextDue  time.Time
}

// modules bundles every bounded-context module wired against postgres.
type modules struct {
	membership membership.Module
	policy     policy.Module
	domain     domainsvc.Module
	cipher     cipher.Module
	billing    billing.Module
}

func buildModules(cfg config.Config, pg *db.Postgres, queue *taskqueue.Queue, logger *slog.Logger) (modules, error) {
	if strings.TrimSpace(cfg.InvitationTokenSecret) == "" {
		return modules{}, errors.New("INVITATION_TOKEN_SECRET is required")
	}

	audit := queueAuditSink{queue: queue, logger: logger}
	notifier := queueNotifier{queue: queue, logger: logger}

	membershipRepo := membershippostgres.NewRepository(pg.DB, logger)
	policyRepo := policypostgres.NewRepository(pg.DB, logger)
	domainRepo := domainpostgres.NewRepository(pg.DB, logger)
	cipherRepo := cipherpostgres.NewRepository(pg.DB, logger)
	billingRepo := billingpostgres.NewRepository(pg.DB, logger)

	cipherModule := cipher.NewModule(cipher.Dependencies{
		Repository: cipherRepo,
		Logger:     logger,
	})

	gateway := gatewayadapter.NewClient(
		cfg.PaymentGatewayBaseURL,
		cfg.PaymentGatewayAPIKey,
		cfg.PaymentGatewayTimeout,
		logger,
	)
	billingModule := billing.NewModule(billing.Dependencies{
		Repository:  billingRepo,
		Enterprises: enterpriseDirectory{repo: membershipRepo},
		Gateway:     gateway,
		Audit:       audit,
		Notifier:    notifier,
		Clock:       membershippostgres.SystemClock{},
		IDGenerator: membershippostgres.UUIDGenerator{},
		MaxAttempts: cfg.PaymentMaxAttempts,
		Logger:      logger,
	})

	// Membership and domain reference each other's services. The directory
	// adapter is a pointer bound after both modules exist, which breaks the
	// construction cycle without a second wiring pass.
	domains := &domainDirectory{}
	membershipModule := membership.NewModule(membership.Dependencies{
		Repository:     membershipRepo,
		Idempotency:    membershipRepo,
		Groups:         groupDirectory{ciphers: cipherModule.Service},
		Domains:        domains,
		Seats:          seatLedger{billing: billingModule.Service},
		Users:          passthroughUsers{},
		Tokens:         jwtadapter.NewTokens(cfg.InvitationTokenSecret, cfg.InvitationTokenTTL),
		Audit:          audit,
		Notifier:       notifier,
		Clock:          membershippostgres.SystemClock{},
		IDGenerator:    membershippostgres.UUIDGenerator{},
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         logger,
	})

	domainModule := domainsvc.NewModule(domainsvc.Dependencies{
		Repository:  domainRepo,
		Resolver:    dnsadapter.NewResolver(10 * time.Second),
		Members:     memberAdmission{members: membershipModule.Service},
		Seats:       seatRequester{billing: billingModule.Service},
		Audit:       audit,
		Notifier:    notifier,
		Clock:       membershippostgres.SystemClock{},
		IDGenerator: membershippostgres.UUIDGenerator{},
		Logger:      logger,
	})
	domains.domains = domainModule.Service

	policyModule := policy.NewModule(policy.Dependencies{
		Repository:  policyRepo,
		Members:     memberDirectory{repo: membershipRepo},
		Cache:       buildPolicyCache(cfg),
		Clock:       membershippostgres.SystemClock{},
		IDGenerator: membershippostgres.UUIDGenerator{},
		CacheTTL:    cfg.PolicyCacheTTL,
		Logger:      logger,
	})

	return modules{
		membership: membershipModule,
		policy:     policyModule,
		domain:     domainModule,
		cipher:     cipherModule,
		billing:    billingModule,
	}, nil
}

func buildPolicyCache(cfg config.Config) policyports.PolicyCache {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return policymemory.NewStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	return policyredis.NewCache(client)
}

// connectPostgres opens the shared connection and, unless AUTO_MIGRATE is
// off, brings the schema up to date before any module touches it.
func connectPostgres(cfg config.Config, logger *slog.Logger) (*db.Postgres, error) {
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := pg.Migrate(); err != nil {
			_ = pg.Close()
			return nil, err
		}
		logger.Info("schema migrations applied",
			"event", "bootstrap_migrations_applied",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return pg, nil
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := connectPostgres(cfg, logger)
	if err != nil {
		return nil, err
	}

	queue := taskqueue.New(cfg.TaskQueueWorkers, cfg.TaskQueueDepth, logger)
	mods, err := buildModules(cfg, pg, queue, logger)
	if err != nil {
		queue.Close()
		return nil, err
	}

	server := httpserver.New(
		mods.membership,
		mods.policy,
		mods.domain,
		mods.cipher,
		mods.billing,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		queue:    queue,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := connectPostgres(cfg, logger)
	if err != nil {
		return nil, err
	}

	queue := taskqueue.New(cfg.TaskQueueWorkers, cfg.TaskQueueDepth, logger)
	mods, err := buildModules(cfg, pg, queue, logger)
	if err != nil {
		queue.Close()
		return nil, err
	}

	var jobs []periodicJob
	if cfg.EnableDomainVerificationPoller {
		jobs = append(jobs, periodicJob{
			name:     "domain_verification_poll",
			interval: cfg.DomainPollInterval,
			run:      mods.domain.VerificationPoller.RunOnce,
		})
	}
	if cfg.EnableAutoApproveSweeper {
		jobs = append(jobs, periodicJob{
			name:     "auto_approve_sweep",
			interval: cfg.AutoApproveInterval,
			run:      mods.domain.AutoApproveSweeper.RunOnce,
		})
	}
	if cfg.EnableSeatSettlement {
		jobs = append(jobs, periodicJob{
			name:     "seat_settlement",
			interval: cfg.SettlementInterval,
			run:      mods.billing.Settlement.RunOnce,
		})
	}
	if cfg.EnablePlanDowngrade {
		jobs = append(jobs, periodicJob{
			name:     "plan_downgrade_sweep",
			interval: cfg.DowngradeSweepInterval,
			run:      mods.billing.Downgrade.RunOnce,
		})
	}

	return &WorkerApp{
		postgres: pg,
		queue:    queue,
		jobs:     jobs,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.queue != nil {
		a.queue.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"jobs", len(w.jobs),
	)

	for {
		now := time.Now()
		for i := range w.jobs {
			job := &w.jobs[i]
			if now.Before(job.nextDue) {
				continue
			}
			if err := job.run(ctx); err != nil {
				w.logger.Error("periodic job failed",
					"event", "bootstrap_job_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"job", job.name,
					"error", err.Error(),
				)
			}
			job.nextDue = now.Add(job.interval)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.queue != nil {
		w.queue.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

const tickInterval = 15 * time.Second

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
