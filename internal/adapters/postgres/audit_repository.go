package postgres

import (
	"context"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	rec := auditModel{
		AuditID:    entry.AuditID,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		EntityCode: entry.EntityCode,
		EntityName: entry.EntityName,
		Action:     entry.Action,
		ActorID:    entry.ActorID,
		OccurredAt: entry.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	var rows []auditModel
	if err := r.db.WithContext(ctx).Order("occurred_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAudit(row))
	}
	return out, nil
}
