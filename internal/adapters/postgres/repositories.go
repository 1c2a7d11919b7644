package postgres

import (
	"context"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Customers   ports.CustomerRepository
	Vendors     ports.VendorRepository
	Projects    ports.ProjectRepository
	Audit       ports.AuditRepository
	Outbox      ports.OutboxRepository
	Idempotency ports.IdempotencyRepository
	Meta        ports.MetaRepository
	db          *gorm.DB
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Customers:   &customerRepository{db: db},
		Vendors:     &vendorRepository{db: db},
		Projects:    &projectRepository{db: db},
		Audit:       &auditRepository{db: db},
		Outbox:      &outboxRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
		Meta:        &metaRepository{db: db},
		db:          db,
	}
}

// Ping backs the readiness probe.
func (r Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
