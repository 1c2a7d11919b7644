package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationLockKey serializes RunMigrations across api and worker replicas.
const migrationLockKey int64 = 980_001

type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (schemaMigration) TableName() string { return "erp_schema_migrations" }

func Connect(ctx context.Context, databaseURL string, maxConns int32) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: databaseURL}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open erp database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("erp database handle: %w", err)
	}
	if maxConns <= 0 {
		maxConns = 10
	}
	sqlDB.SetMaxOpenConns(int(maxConns))
	sqlDB.SetMaxIdleConns(max(1, int(maxConns)/4))
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping erp database: %w", err)
	}
	return db, nil
}

// RunMigrations applies embedded migrations that are not yet recorded in
// erp_schema_migrations. Each file runs in its own transaction.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	versions, err := migrationVersions()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockKey).Error; err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}
		if err := tx.Exec(`CREATE TABLE IF NOT EXISTS erp_schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL
		)`).Error; err != nil {
			return fmt.Errorf("create migrations table: %w", err)
		}
		var applied []string
		if err := tx.Model(&schemaMigration{}).Pluck("version", &applied).Error; err != nil {
			return fmt.Errorf("list applied migrations: %w", err)
		}
		done := make(map[string]bool, len(applied))
		for _, v := range applied {
			done[v] = true
		}
		for _, version := range versions {
			if done[version] {
				continue
			}
			raw, err := migrationFS.ReadFile(path.Join("migrations", version))
			if err != nil {
				return fmt.Errorf("read migration %s: %w", version, err)
			}
			err = tx.Transaction(func(step *gorm.DB) error {
				if err := step.Exec(string(raw)).Error; err != nil {
					return err
				}
				return step.Create(&schemaMigration{Version: version, AppliedAt: time.Now().UTC()}).Error
			})
			if err != nil {
				return fmt.Errorf("apply migration %s: %w", version, err)
			}
		}
		return nil
	})
}

func migrationVersions() ([]string, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, path.Base(name))
	}
	sort.Strings(out)
	return out, nil
}
