package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	rec := fromDomainCustomer(customer)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return replaceContacts(tx, domain.EntityCustomer, rec.CustomerID, customer.Contacts)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return toDomainCustomer(rec, customer.Contacts.Clone()), nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	rec := fromDomainCustomer(customer)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&customerModel{}).Where("customer_id = ?", rec.CustomerID).Updates(map[string]any{
			"customer_name": rec.CustomerName,
			"short_name":    rec.ShortName,
			"city":          rec.City,
			"state":         rec.State,
			"pincode":       rec.Pincode,
			"email":         rec.Email,
			"phone":         rec.Phone,
			"gstin":         rec.GSTIN,
			"updated_at":    rec.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return replaceContacts(tx, domain.EntityCustomer, rec.CustomerID, customer.Contacts)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return r.GetByID(ctx, rec.CustomerID)
}

func (r *customerRepository) GetByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error) {
	db := r.db.WithContext(ctx)
	var rec customerModel
	if err := db.Where("customer_id = ?", customerID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, err
	}
	contacts, err := loadContacts(db, domain.EntityCustomer, rec.CustomerID)
	if err != nil {
		return domain.Customer{}, err
	}
	return toDomainCustomer(rec, contacts[rec.CustomerID]), nil
}

func (r *customerRepository) List(ctx context.Context, params ports.ListParams) ([]domain.Customer, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&customerModel{})
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		p := likePattern(params.Search)
		q = q.Where("lower(customer_name) LIKE ? OR lower(customer_code) LIKE ? OR lower(short_name) LIKE ? OR lower(city) LIKE ? OR lower(email) LIKE ? OR phone LIKE ?", p, p, p, p, p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []customerModel
	if err := q.Order("created_at desc, customer_code asc").Offset(params.Offset()).Limit(params.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CustomerID)
	}
	contacts, err := loadContacts(db, domain.EntityCustomer, ids...)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainCustomer(row, contacts[row.CustomerID]))
	}
	return out, total, nil
}

func (r *customerRepository) UpdateStatus(ctx context.Context, customerID uuid.UUID, status string, at time.Time) (domain.Customer, error) {
	res := r.db.WithContext(ctx).Model(&customerModel{}).Where("customer_id = ?", customerID).Updates(map[string]any{
		"status":     status,
		"updated_at": at,
	})
	if res.Error != nil {
		return domain.Customer{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, customerID)
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customerModel{}).Count(&n).Error
	return n, err
}
