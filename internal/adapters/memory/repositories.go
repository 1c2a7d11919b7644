package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

// Repositories is the in-process store used by STORAGE_DRIVER=memory and by
// tests. Every read returns a copy so callers never alias stored slices.
type Repositories struct {
	Customers   *CustomerRepository
	Vendors     *VendorRepository
	Projects    *ProjectRepository
	Audit       *AuditRepository
	Outbox      *OutboxRepository
	Idempotency *IdempotencyRepository
	Meta        *MetaRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Customers:   &CustomerRepository{rows: map[uuid.UUID]domain.Customer{}, codes: map[string]uuid.UUID{}},
		Vendors:     &VendorRepository{rows: map[uuid.UUID]domain.Vendor{}, codes: map[string]uuid.UUID{}},
		Projects:    &ProjectRepository{rows: map[uuid.UUID]domain.Project{}, codes: map[string]uuid.UUID{}},
		Audit:       &AuditRepository{},
		Outbox:      &OutboxRepository{rows: map[uuid.UUID]ports.OutboxRecord{}},
		Idempotency: &IdempotencyRepository{rows: map[string]ports.IdempotencyRecord{}},
		Meta:        NewMetaRepository(seedCompanies, seedBranches, seedDepartments),
	}
}

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](rows []T, params ports.ListParams) []T {
	start := params.Offset()
	if start < 0 || start >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if params.Limit > 0 && start+params.Limit < end {
		end = start + params.Limit
	}
	return rows[start:end]
}

func cloneCustomer(c domain.Customer) domain.Customer {
	c.Contacts = c.Contacts.Clone()
	return c
}

type CustomerRepository struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]domain.Customer
	codes map[string]uuid.UUID
}

func (r *CustomerRepository) Create(_ context.Context, row domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.CustomerID]; ok {
		return domain.Customer{}, domain.ErrConflict
	}
	if _, ok := r.codes[row.CustomerCode]; ok {
		return domain.Customer{}, domain.ErrConflict
	}
	r.rows[row.CustomerID] = cloneCustomer(row)
	r.codes[row.CustomerCode] = row.CustomerID
	return cloneCustomer(row), nil
}

func (r *CustomerRepository) Update(_ context.Context, row domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.CustomerID]; !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	r.rows[row.CustomerID] = cloneCustomer(row)
	return cloneCustomer(row), nil
}

func (r *CustomerRepository) GetByID(_ context.Context, customerID uuid.UUID) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return cloneCustomer(row), nil
}

func (r *CustomerRepository) List(_ context.Context, params ports.ListParams) ([]domain.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Customer, 0, len(r.rows))
	for _, row := range r.rows {
		if params.Status != "" && row.Status != params.Status {
			continue
		}
		if !matchesSearch(params.Search, row.CustomerName, row.CustomerCode, row.ShortName, row.Address.City, row.Email, row.Phone) {
			continue
		}
		out = append(out, cloneCustomer(row))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CustomerCode < out[j].CustomerCode
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, params), int64(len(out)), nil
}

func (r *CustomerRepository) UpdateStatus(_ context.Context, customerID uuid.UUID, status string, at time.Time) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.rows[customerID] = row
	return cloneCustomer(row), nil
}

func (r *CustomerRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func cloneVendor(v domain.Vendor) domain.Vendor {
	v.Contacts = v.Contacts.Clone()
	return v
}

type VendorRepository struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]domain.Vendor
	codes map[string]uuid.UUID
}

func (r *VendorRepository) Create(_ context.Context, row domain.Vendor) (domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.VendorID]; ok {
		return domain.Vendor{}, domain.ErrConflict
	}
	if _, ok := r.codes[row.VendorCode]; ok {
		return domain.Vendor{}, domain.ErrConflict
	}
	r.rows[row.VendorID] = cloneVendor(row)
	r.codes[row.VendorCode] = row.VendorID
	return cloneVendor(row), nil
}

func (r *VendorRepository) Update(_ context.Context, row domain.Vendor) (domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.VendorID]; !ok {
		return domain.Vendor{}, domain.ErrNotFound
	}
	r.rows[row.VendorID] = cloneVendor(row)
	return cloneVendor(row), nil
}

func (r *VendorRepository) GetByID(_ context.Context, vendorID uuid.UUID) (domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[vendorID]
	if !ok {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return cloneVendor(row), nil
}

func (r *VendorRepository) List(_ context.Context, params ports.ListParams) ([]domain.Vendor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Vendor, 0, len(r.rows))
	for _, row := range r.rows {
		if params.Status != "" && row.Status != params.Status {
			continue
		}
		if !matchesSearch(params.Search, row.VendorName, row.VendorCode, row.ShortName, row.Address.City, row.Email, row.Phone) {
			continue
		}
		out = append(out, cloneVendor(row))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].VendorCode < out[j].VendorCode
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, params), int64(len(out)), nil
}

func (r *VendorRepository) UpdateStatus(_ context.Context, vendorID uuid.UUID, status string, at time.Time) (domain.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[vendorID]
	if !ok {
		return domain.Vendor{}, domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.rows[vendorID] = row
	return cloneVendor(row), nil
}

func (r *VendorRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func cloneProject(p domain.Project) domain.Project {
	p.Contacts = p.Contacts.Clone()
	p.Attachments = append([]domain.Attachment(nil), p.Attachments...)
	return p
}

type ProjectRepository struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]domain.Project
	codes map[string]uuid.UUID
}

func (r *ProjectRepository) Create(_ context.Context, row domain.Project) (domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ProjectID]; ok {
		return domain.Project{}, domain.ErrConflict
	}
	if _, ok := r.codes[row.ProjectCode]; ok {
		return domain.Project{}, domain.ErrConflict
	}
	r.rows[row.ProjectID] = cloneProject(row)
	r.codes[row.ProjectCode] = row.ProjectID
	return cloneProject(row), nil
}

func (r *ProjectRepository) Update(_ context.Context, row domain.Project) (domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ProjectID]; !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	r.rows[row.ProjectID] = cloneProject(row)
	return cloneProject(row), nil
}

func (r *ProjectRepository) GetByID(_ context.Context, projectID uuid.UUID) (domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[projectID]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return cloneProject(row), nil
}

func (r *ProjectRepository) List(_ context.Context, params ports.ListParams) ([]domain.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Project, 0, len(r.rows))
	for _, row := range r.rows {
		if params.Status != "" && row.Status != params.Status {
			continue
		}
		if !matchesSearch(params.Search, row.ProjectName, row.ProjectCode, row.Company, row.ProjectPlace) {
			continue
		}
		out = append(out, cloneProject(row))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ProjectCode < out[j].ProjectCode
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, params), int64(len(out)), nil
}

func (r *ProjectRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}
