package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/cache"
	eventadapter "github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/events"
	grpcadapter "github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/grpc"
	httpadapter "github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/http"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/postgres"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	// memory storage is process-local, so the API relays its own outbox.
	embeddedOutbox bool
	closers        []io.Closer
	cleanupFn      func(context.Context)
}

type storage struct {
	customers   ports.CustomerRepository
	vendors     ports.VendorRepository
	projects    ports.ProjectRepository
	audit       ports.AuditRepository
	outbox      ports.OutboxRepository
	idempotency ports.IdempotencyRepository
	meta        ports.MetaRepository
	ping        func(context.Context) error
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	rt := &Runtime{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			rt.close()
		}
	}()

	store, err := rt.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	cacheStore, cachePing, err := rt.openCache(ctx)
	if err != nil {
		return nil, err
	}
	authClient, err := rt.openAuth(ctx)
	if err != nil {
		return nil, err
	}

	rt.service = application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:          cfg.ServiceID,
			RequireContactOnSave: cfg.RequireContactOnSave,
			DraftTTL:             cfg.DraftTTL,
			MaxDraftsPerHour:     cfg.MaxDraftsPerHour,
			IdempotencyTTL:       cfg.IdempotencyTTL,
			DefaultPageSize:      cfg.DefaultPageSize,
			MaxPageSize:          cfg.MaxPageSize,
			DashboardCacheTTL:    cfg.DashboardCacheTTL,
		},
		Logger:      logger,
		Customers:   store.customers,
		Vendors:     store.vendors,
		Projects:    store.projects,
		Audit:       store.audit,
		Outbox:      store.outbox,
		Idempotency: store.idempotency,
		Meta:        store.meta,
		AuthClient:  authClient,
		Cache:       cacheStore,
	})

	ready := func(ctx context.Context) error {
		if err := store.ping(ctx); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		if err := cachePing(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		return nil
	}
	handler := httpadapter.NewHandler(rt.service, ready, logger)
	rt.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	rt.grpcServer = grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(rt.grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcadapter.Register(rt.grpcServer, grpcadapter.NewContactDirectoryServer(rt.service))

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			"erp.entity_changed": cfg.KafkaTopicEntityChanged,
		}, cfg.ServiceID)
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			rt.closers = append(rt.closers, kafkaPublisher)
		}
	}
	rt.outbox = eventadapter.NewOutboxWorker(logger, store.outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize, cfg.OutboxMaxRetries)
	rt.embeddedOutbox = cfg.StorageDriver == StorageMemory

	ok = true
	return rt, nil
}

func Build(ctx context.Context, configPath string) (*Runtime, error) {
	return NewRuntime(ctx, configPath)
}

func (r *Runtime) openStorage(ctx context.Context) (storage, error) {
	if r.cfg.StorageDriver == StorageMemory {
		r.logger.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		repos := memory.NewRepositories()
		return storage{
			customers:   repos.Customers,
			vendors:     repos.Vendors,
			projects:    repos.Projects,
			audit:       repos.Audit,
			outbox:      repos.Outbox,
			idempotency: repos.Idempotency,
			meta:        repos.Meta,
			ping:        func(context.Context) error { return nil },
		}, nil
	}

	db, err := postgres.Connect(ctx, r.cfg.DatabaseURL, r.cfg.MaxDBConns)
	if err != nil {
		return storage{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return storage{}, err
	}
	r.closers = append(r.closers, sqlDB)
	if r.cfg.RunMigrations {
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return storage{}, err
		}
	}
	repos := postgres.NewRepositories(db)
	return storage{
		customers:   repos.Customers,
		vendors:     repos.Vendors,
		projects:    repos.Projects,
		audit:       repos.Audit,
		outbox:      repos.Outbox,
		idempotency: repos.Idempotency,
		meta:        repos.Meta,
		ping:        repos.Ping,
	}, nil
}

func (r *Runtime) openCache(ctx context.Context) (ports.Cache, func(context.Context) error, error) {
	if r.cfg.RedisURL == "" {
		r.logger.WarnContext(ctx, "REDIS_URL not set, drafts and rate limits are process-local")
		return cache.NewMemoryCache(), func(context.Context) error { return nil }, nil
	}
	client, err := cache.Connect(ctx, r.cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	r.closers = append(r.closers, client)
	store := cache.NewRedisCache(client)
	return store, store.Ping, nil
}

func (r *Runtime) openAuth(ctx context.Context) (ports.AuthClient, error) {
	switch r.cfg.AuthMode {
	case AuthModeJWT:
		return security.NewJWTVerifier(r.cfg.JWTSecret, r.cfg.JWTPublicKey, r.cfg.JWTIssuer)
	case AuthModeNone:
		r.logger.WarnContext(ctx, "authentication disabled", "dev_user_id", r.cfg.DevUserID)
		return security.StaticAuthClient{UserID: r.cfg.DevUserID, Role: "admin"}, nil
	default:
		client, err := grpcadapter.NewAuthClient(ctx, r.cfg.AuthGRPCURL)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, client)
		return client, nil
	}
}

func (r *Runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
	r.closers = nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.close()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		return err
	}
	errCh := make(chan error, 3)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	if r.embeddedOutbox {
		go func() {
			if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}
	r.logger.InfoContext(ctx, "api started",
		"http_port", r.cfg.HTTPPort,
		"grpc_port", r.cfg.GRPCPort,
		"storage", r.cfg.StorageDriver,
		"auth_mode", r.cfg.AuthMode,
	)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", runErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	return runErr
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.close()

	if r.embeddedOutbox {
		return errors.New("worker requires STORAGE_DRIVER=postgres; memory storage relays its outbox from the api process")
	}
	r.logger.InfoContext(ctx, "outbox worker started",
		"interval", r.cfg.OutboxPollInterval.String(),
		"batch_size", r.cfg.OutboxBatchSize,
	)
	if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
