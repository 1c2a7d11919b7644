package postgres

import (
	"time"

	"github.com/google/uuid"
)

type customerModel struct {
	CustomerID   uuid.UUID `gorm:"column:customer_id;type:uuid;primaryKey"`
	CustomerCode string    `gorm:"column:customer_code"`
	CustomerName string    `gorm:"column:customer_name"`
	ShortName    string    `gorm:"column:short_name"`
	City         string    `gorm:"column:city"`
	State        string    `gorm:"column:state"`
	Pincode      string    `gorm:"column:pincode"`
	Email        string    `gorm:"column:email"`
	Phone        string    `gorm:"column:phone"`
	GSTIN        string    `gorm:"column:gstin"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "erp_customers" }

type vendorModel struct {
	VendorID   uuid.UUID `gorm:"column:vendor_id;type:uuid;primaryKey"`
	VendorCode string    `gorm:"column:vendor_code"`
	VendorName string    `gorm:"column:vendor_name"`
	ShortName  string    `gorm:"column:short_name"`
	City       string    `gorm:"column:city"`
	State      string    `gorm:"column:state"`
	Pincode    string    `gorm:"column:pincode"`
	Email      string    `gorm:"column:email"`
	Phone      string    `gorm:"column:phone"`
	GSTIN      string    `gorm:"column:gstin"`
	MSME       bool      `gorm:"column:msme"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (vendorModel) TableName() string { return "erp_vendors" }

type projectModel struct {
	ProjectID       uuid.UUID  `gorm:"column:project_id;type:uuid;primaryKey"`
	ProjectCode     string     `gorm:"column:project_code"`
	ProjectName     string     `gorm:"column:project_name"`
	Company         string     `gorm:"column:company"`
	Branch          string     `gorm:"column:branch"`
	Department      string     `gorm:"column:department"`
	CustomerID      *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	VendorID        *uuid.UUID `gorm:"column:vendor_id;type:uuid"`
	ProjectPlace    string     `gorm:"column:project_place"`
	StartDate       *time.Time `gorm:"column:start_date"`
	EndDate         *time.Time `gorm:"column:end_date"`
	EstimatedBudget float64    `gorm:"column:estimated_budget"`
	Status          string     `gorm:"column:status"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "erp_projects" }

type attachmentModel struct {
	AttachmentID uuid.UUID `gorm:"column:attachment_id;type:uuid;primaryKey"`
	ProjectID    uuid.UUID `gorm:"column:project_id;type:uuid"`
	Position     int       `gorm:"column:position"`
	OriginalName string    `gorm:"column:original_name"`
	URL          string    `gorm:"column:url"`
	ContentType  string    `gorm:"column:content_type"`
	SizeBytes    int64     `gorm:"column:size_bytes"`
}

func (attachmentModel) TableName() string { return "erp_project_attachments" }

type contactModel struct {
	ContactID   uuid.UUID `gorm:"column:contact_id;type:uuid;primaryKey"`
	OwnerType   string    `gorm:"column:owner_type"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid"`
	Position    int       `gorm:"column:position"`
	Name        string    `gorm:"column:name"`
	Phone       string    `gorm:"column:phone"`
	Email       string    `gorm:"column:email"`
	Designation string    `gorm:"column:designation"`
	IsPrimary   bool      `gorm:"column:is_primary"`
	Level       string    `gorm:"column:level"`
}

func (contactModel) TableName() string { return "erp_entity_contacts" }

type auditModel struct {
	AuditID    uuid.UUID `gorm:"column:audit_id;type:uuid;primaryKey"`
	EntityType string    `gorm:"column:entity_type"`
	EntityID   uuid.UUID `gorm:"column:entity_id;type:uuid"`
	EntityCode string    `gorm:"column:entity_code"`
	EntityName string    `gorm:"column:entity_name"`
	Action     string    `gorm:"column:action"`
	ActorID    string    `gorm:"column:actor_id"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (auditModel) TableName() string { return "erp_audit_log" }

type outboxModel struct {
	OutboxID         uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	TraceID          string     `gorm:"column:trace_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	FirstSeenAt      time.Time  `gorm:"column:first_seen_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
	LeaseUntil       *time.Time `gorm:"column:lease_until"`
}

func (outboxModel) TableName() string { return "erp_outbox" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "erp_idempotency" }

type companyModel struct {
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (companyModel) TableName() string { return "erp_companies" }

type branchModel struct {
	BranchID    uuid.UUID `gorm:"column:branch_id;type:uuid;primaryKey"`
	CompanyName string    `gorm:"column:company_name"`
	Name        string    `gorm:"column:name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (branchModel) TableName() string { return "erp_branches" }

type departmentModel struct {
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;primaryKey"`
	CompanyName  string    `gorm:"column:company_name"`
	BranchName   string    `gorm:"column:branch_name"`
	Name         string    `gorm:"column:name"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (departmentModel) TableName() string { return "erp_departments" }
