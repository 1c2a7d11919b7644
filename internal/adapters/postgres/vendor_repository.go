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

type vendorRepository struct {
	db *gorm.DB
}

func (r *vendorRepository) Create(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	rec := fromDomainVendor(vendor)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return replaceContacts(tx, domain.EntityVendor, rec.VendorID, vendor.Contacts)
	})
	if err != nil {
		return domain.Vendor{}, err
	}
	return toDomainVendor(rec, vendor.Contacts.Clone()), nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	rec := fromDomainVendor(vendor)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&vendorModel{}).Where("vendor_id = ?", rec.VendorID).Updates(map[string]any{
			"vendor_name": rec.VendorName,
			"short_name":  rec.ShortName,
			"city":        rec.City,
			"state":       rec.State,
			"pincode":     rec.Pincode,
			"email":       rec.Email,
			"phone":       rec.Phone,
			"gstin":       rec.GSTIN,
			"msme":        rec.MSME,
			"updated_at":  rec.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return replaceContacts(tx, domain.EntityVendor, rec.VendorID, vendor.Contacts)
	})
	if err != nil {
		return domain.Vendor{}, err
	}
	return r.GetByID(ctx, rec.VendorID)
}

func (r *vendorRepository) GetByID(ctx context.Context, vendorID uuid.UUID) (domain.Vendor, error) {
	db := r.db.WithContext(ctx)
	var rec vendorModel
	if err := db.Where("vendor_id = ?", vendorID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vendor{}, domain.ErrNotFound
		}
		return domain.Vendor{}, err
	}
	contacts, err := loadContacts(db, domain.EntityVendor, rec.VendorID)
	if err != nil {
		return domain.Vendor{}, err
	}
	return toDomainVendor(rec, contacts[rec.VendorID]), nil
}

func (r *vendorRepository) List(ctx context.Context, params ports.ListParams) ([]domain.Vendor, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&vendorModel{})
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		p := likePattern(params.Search)
		q = q.Where("lower(vendor_name) LIKE ? OR lower(vendor_code) LIKE ? OR lower(short_name) LIKE ? OR lower(city) LIKE ? OR lower(email) LIKE ? OR phone LIKE ?", p, p, p, p, p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []vendorModel
	if err := q.Order("created_at desc, vendor_code asc").Offset(params.Offset()).Limit(params.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.VendorID)
	}
	contacts, err := loadContacts(db, domain.EntityVendor, ids...)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Vendor, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainVendor(row, contacts[row.VendorID]))
	}
	return out, total, nil
}

func (r *vendorRepository) UpdateStatus(ctx context.Context, vendorID uuid.UUID, status string, at time.Time) (domain.Vendor, error) {
	res := r.db.WithContext(ctx).Model(&vendorModel{}).Where("vendor_id = ?", vendorID).Updates(map[string]any{
		"status":     status,
		"updated_at": at,
	})
	if res.Error != nil {
		return domain.Vendor{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, vendorID)
}

func (r *vendorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&vendorModel{}).Count(&n).Error
	return n, err
}
