package ports

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

type ListParams struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// Offset saturates at math.MaxInt instead of wrapping negative.
func (p ListParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error)
	List(ctx context.Context, params ListParams) ([]domain.Customer, int64, error)
	UpdateStatus(ctx context.Context, customerID uuid.UUID, status string, at time.Time) (domain.Customer, error)
	Count(ctx context.Context) (int64, error)
}

type VendorRepository interface {
	Create(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
	Update(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
	GetByID(ctx context.Context, vendorID uuid.UUID) (domain.Vendor, error)
	List(ctx context.Context, params ListParams) ([]domain.Vendor, int64, error)
	UpdateStatus(ctx context.Context, vendorID uuid.UUID, status string, at time.Time) (domain.Vendor, error)
	Count(ctx context.Context) (int64, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) (domain.Project, error)
	Update(ctx context.Context, project domain.Project) (domain.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (domain.Project, error)
	List(ctx context.Context, params ListParams) ([]domain.Project, int64, error)
	Count(ctx context.Context) (int64, error)
}

// MetaRepository serves the organisation lookups. Names match
// case-insensitively; results are ordered by name.
type MetaRepository interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	ListBranches(ctx context.Context, company string) ([]domain.Branch, error)
	// ListDepartments filters by company too unless company is empty.
	ListDepartments(ctx context.Context, company, branch string) ([]domain.Department, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
	TraceID          string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
	// Release drops a pending reservation so the key can be retried.
	// Completed keys are left untouched.
	Release(ctx context.Context, key string) error
}
