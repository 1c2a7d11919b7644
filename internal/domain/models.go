package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityCustomer EntityType = "customer"
	EntityVendor   EntityType = "vendor"
	EntityProject  EntityType = "project"
)

func ParseEntityType(v string) (EntityType, bool) {
	switch EntityType(v) {
	case EntityCustomer, EntityVendor, EntityProject:
		return EntityType(v), true
	default:
		return "", false
	}
}

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

const (
	ProjectStatusNotStarted = "Not Started"
	ProjectStatusOngoing    = "Ongoing"
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusCancelled  = "Cancelled"
)

type Address struct {
	City    string
	State   string
	Pincode string
}

type Customer struct {
	CustomerID   uuid.UUID
	CustomerCode string
	CustomerName string
	ShortName    string
	Address      Address
	Email        string
	Phone        string
	GSTIN        string
	Status       string
	Contacts     ContactList
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Vendor struct {
	VendorID   uuid.UUID
	VendorCode string
	VendorName string
	ShortName  string
	Address    Address
	Email      string
	Phone      string
	GSTIN      string
	MSME       bool
	Status     string
	Contacts   ContactList
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Attachment struct {
	OriginalName string
	URL          string
	ContentType  string
	Size         int64
}

type Project struct {
	ProjectID       uuid.UUID
	ProjectCode     string
	ProjectName     string
	Company         string
	Branch          string
	Department      string
	CustomerID      *uuid.UUID
	VendorID        *uuid.UUID
	ProjectPlace    string
	StartDate       *time.Time
	EndDate         *time.Time
	EstimatedBudget float64
	Status          string
	Attachments     []Attachment
	Contacts        ContactList
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AuditEntry struct {
	AuditID    uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	EntityCode string
	EntityName string
	Action     string
	ActorID    string
	OccurredAt time.Time
}

// ContactDraft is one editing session of a contact list, kept only for the
// lifetime of the enclosing form.
type ContactDraft struct {
	DraftID    uuid.UUID   `json:"draftId"`
	EntityType EntityType  `json:"entityType"`
	EntityID   *uuid.UUID  `json:"entityId,omitempty"`
	Contacts   ContactList `json:"contacts"`
	Editor     EditorState `json:"editor"`
	OwnerID    string      `json:"ownerId"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Company, Branch and Department are the cascading organisation lookups a
// project is filed under. Children reference their parent by name.
type Company struct {
	CompanyID uuid.UUID
	Name      string
}

type Branch struct {
	BranchID    uuid.UUID
	CompanyName string
	Name        string
}

type Department struct {
	DepartmentID uuid.UUID
	CompanyName  string
	BranchName   string
	Name         string
}
