package application

import (
	"log/slog"
	"time"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

type Service struct {
	cfg         Config
	logger      *slog.Logger
	customers   ports.CustomerRepository
	vendors     ports.VendorRepository
	projects    ports.ProjectRepository
	audit       ports.AuditRepository
	outbox      ports.OutboxRepository
	idempotency ports.IdempotencyRepository
	meta        ports.MetaRepository
	authClient  ports.AuthClient
	cache       ports.Cache
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Logger      *slog.Logger
	Customers   ports.CustomerRepository
	Vendors     ports.VendorRepository
	Projects    ports.ProjectRepository
	Audit       ports.AuditRepository
	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyRepository
	Meta        ports.MetaRepository
	AuthClient  ports.AuthClient
	Cache       ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "M98-ERP-Master-Service"
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 30 * time.Minute
	}
	if cfg.MaxDraftsPerHour <= 0 {
		cfg.MaxDraftsPerHour = 120
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.DashboardCacheTTL <= 0 {
		cfg.DashboardCacheTTL = 30 * time.Second
	}
	if cfg.RecentActivityLimit <= 0 {
		cfg.RecentActivityLimit = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:         cfg,
		logger:      logger.With("module", "application", "layer", "application"),
		customers:   deps.Customers,
		vendors:     deps.Vendors,
		projects:    deps.Projects,
		audit:       deps.Audit,
		outbox:      deps.Outbox,
		idempotency: deps.Idempotency,
		meta:        deps.Meta,
		authClient:  deps.AuthClient,
		cache:       deps.Cache,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
