package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

func (r *projectRepository) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	rec := fromDomainProject(project)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			switch {
			case isUniqueViolation(err):
				return domain.ErrConflict
			case isForeignKeyViolation(err):
				return domain.ErrInvalidInput
			}
			return err
		}
		if err := replaceAttachments(tx, rec.ProjectID, project.Attachments); err != nil {
			return err
		}
		return replaceContacts(tx, domain.EntityProject, rec.ProjectID, project.Contacts)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return r.GetByID(ctx, rec.ProjectID)
}

func (r *projectRepository) Update(ctx context.Context, project domain.Project) (domain.Project, error) {
	rec := fromDomainProject(project)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&projectModel{}).Where("project_id = ?", rec.ProjectID).Updates(map[string]any{
			"project_name":     rec.ProjectName,
			"company":          rec.Company,
			"branch":           rec.Branch,
			"department":       rec.Department,
			"customer_id":      rec.CustomerID,
			"vendor_id":        rec.VendorID,
			"project_place":    rec.ProjectPlace,
			"start_date":       rec.StartDate,
			"end_date":         rec.EndDate,
			"estimated_budget": rec.EstimatedBudget,
			"status":           rec.Status,
			"updated_at":       rec.UpdatedAt,
		})
		if res.Error != nil {
			if isForeignKeyViolation(res.Error) {
				return domain.ErrInvalidInput
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := replaceAttachments(tx, rec.ProjectID, project.Attachments); err != nil {
			return err
		}
		return replaceContacts(tx, domain.EntityProject, rec.ProjectID, project.Contacts)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return r.GetByID(ctx, rec.ProjectID)
}

func (r *projectRepository) GetByID(ctx context.Context, projectID uuid.UUID) (domain.Project, error) {
	db := r.db.WithContext(ctx)
	var rec projectModel
	if err := db.Where("project_id = ?", projectID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, err
	}
	attachments, err := loadAttachments(db, rec.ProjectID)
	if err != nil {
		return domain.Project{}, err
	}
	contacts, err := loadContacts(db, domain.EntityProject, rec.ProjectID)
	if err != nil {
		return domain.Project{}, err
	}
	return toDomainProject(rec, attachments[rec.ProjectID], contacts[rec.ProjectID]), nil
}

func (r *projectRepository) List(ctx context.Context, params ports.ListParams) ([]domain.Project, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&projectModel{})
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		p := likePattern(params.Search)
		q = q.Where("lower(project_name) LIKE ? OR lower(project_code) LIKE ? OR lower(company) LIKE ? OR lower(project_place) LIKE ?", p, p, p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []projectModel
	if err := q.Order("created_at desc, project_code asc").Offset(params.Offset()).Limit(params.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProjectID)
	}
	attachments, err := loadAttachments(db, ids...)
	if err != nil {
		return nil, 0, err
	}
	contacts, err := loadContacts(db, domain.EntityProject, ids...)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainProject(row, attachments[row.ProjectID], contacts[row.ProjectID]))
	}
	return out, total, nil
}

func (r *projectRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&projectModel{}).Count(&n).Error
	return n, err
}

func replaceAttachments(tx *gorm.DB, projectID uuid.UUID, attachments []domain.Attachment) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&attachmentModel{}).Error; err != nil {
		return err
	}
	if len(attachments) == 0 {
		return nil
	}
	rows := make([]attachmentModel, 0, len(attachments))
	for i, a := range attachments {
		rows = append(rows, attachmentModel{
			AttachmentID: uuid.New(),
			ProjectID:    projectID,
			Position:     i,
			OriginalName: a.OriginalName,
			URL:          a.URL,
			ContentType:  a.ContentType,
			SizeBytes:    a.Size,
		})
	}
	return tx.Create(&rows).Error
}

func loadAttachments(db *gorm.DB, projectIDs ...uuid.UUID) (map[uuid.UUID][]attachmentModel, error) {
	out := make(map[uuid.UUID][]attachmentModel, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}
	var rows []attachmentModel
	if err := db.Where("project_id IN ?", projectIDs).Order("project_id asc, position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProjectID] = append(out[row.ProjectID], row)
	}
	return out, nil
}
