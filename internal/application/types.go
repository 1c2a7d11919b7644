package application

import (
	"time"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

type Config struct {
	ServiceName          string
	RequireContactOnSave bool
	DraftTTL             time.Duration
	MaxDraftsPerHour     int
	IdempotencyTTL       time.Duration
	DefaultPageSize      int
	MaxPageSize          int
	DashboardCacheTTL    time.Duration
	RecentActivityLimit  int
}

type Actor struct {
	SubjectID      string
	Role           string
	IdempotencyKey string
	RequestID      string
}

type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type CustomerInput struct {
	CustomerName string           `json:"customerName"`
	ShortName    string           `json:"shortName"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	Pincode      string           `json:"pincode"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	GSTIN        string           `json:"gstin"`
	Contacts     []domain.Contact `json:"contacts"`
	DraftID      string           `json:"draftId,omitempty"`
}

type VendorInput struct {
	VendorName string           `json:"vendorName"`
	ShortName  string           `json:"shortName"`
	City       string           `json:"city"`
	State      string           `json:"state"`
	Pincode    string           `json:"pincode"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	GSTIN      string           `json:"gstin"`
	MSME       bool             `json:"msme"`
	Contacts   []domain.Contact `json:"contacts"`
	DraftID    string           `json:"draftId,omitempty"`
}

type AttachmentInput struct {
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	ContentType  string `json:"contentType,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

type ProjectInput struct {
	ProjectName     string            `json:"projectName"`
	Company         string            `json:"company"`
	Branch          string            `json:"branch"`
	Department      string            `json:"department"`
	CustomerID      string            `json:"customerId,omitempty"`
	VendorID        string            `json:"vendorId,omitempty"`
	ProjectPlace    string            `json:"projectPlace"`
	StartDate       string            `json:"startDate,omitempty"`
	EndDate         string            `json:"endDate,omitempty"`
	EstimatedBudget float64           `json:"estimatedBudget"`
	Status          string            `json:"status"`
	Attachments     []AttachmentInput `json:"attachments"`
	Contacts        []domain.Contact  `json:"contacts"`
	DraftID         string            `json:"draftId,omitempty"`
}

type StatusInput struct {
	Status string `json:"status"`
}

type CustomerView struct {
	ID           string           `json:"id"`
	CustomerCode string           `json:"customerCode"`
	CustomerName string           `json:"customerName"`
	ShortName    string           `json:"shortName,omitempty"`
	City         string           `json:"city,omitempty"`
	State        string           `json:"state,omitempty"`
	Pincode      string           `json:"pincode,omitempty"`
	Email        string           `json:"email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	GSTIN        string           `json:"gstin,omitempty"`
	Status       string           `json:"status"`
	Contacts     []domain.Contact `json:"contacts"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type VendorView struct {
	ID         string           `json:"id"`
	VendorCode string           `json:"vendorCode"`
	VendorName string           `json:"vendorName"`
	ShortName  string           `json:"shortName,omitempty"`
	City       string           `json:"city,omitempty"`
	State      string           `json:"state,omitempty"`
	Pincode    string           `json:"pincode,omitempty"`
	Email      string           `json:"email,omitempty"`
	Phone      string           `json:"phone,omitempty"`
	GSTIN      string           `json:"gstin,omitempty"`
	MSME       bool             `json:"msme"`
	Status     string           `json:"status"`
	Contacts   []domain.Contact `json:"contacts"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type ProjectView struct {
	ID              string            `json:"id"`
	ProjectCode     string            `json:"projectCode"`
	ProjectName     string            `json:"projectName"`
	Company         string            `json:"company,omitempty"`
	Branch          string            `json:"branch,omitempty"`
	Department      string            `json:"department,omitempty"`
	CustomerID      string            `json:"customerId,omitempty"`
	VendorID        string            `json:"vendorId,omitempty"`
	ProjectPlace    string            `json:"projectPlace,omitempty"`
	StartDate       string            `json:"startDate,omitempty"`
	EndDate         string            `json:"endDate,omitempty"`
	EstimatedBudget float64           `json:"estimatedBudget"`
	Status          string            `json:"status"`
	Attachments     []AttachmentInput `json:"attachments"`
	Contacts        []domain.Contact  `json:"contacts"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type OpenDraftInput struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId,omitempty"`
}

type ContactDraftView struct {
	DraftID         string              `json:"draftId"`
	EntityType      string              `json:"entityType"`
	EntityID        string              `json:"entityId,omitempty"`
	Contacts        []domain.Contact    `json:"contacts"`
	Rows            []domain.ContactRow `json:"rows"`
	Empty           bool                `json:"empty"`
	Form            string              `json:"form"`
	EditingPosition *int                `json:"editingPosition,omitempty"`
	Record          *domain.Contact     `json:"record,omitempty"`
	Cancelled       bool                `json:"cancelled,omitempty"`
	Notifications   []Notification      `json:"notifications,omitempty"`
	ExpiresAt       time.Time           `json:"expiresAt"`
}

type AuditView struct {
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	EntityCode string    `json:"entityCode,omitempty"`
	EntityName string    `json:"entityName"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type DashboardSummary struct {
	TotalCustomers int64       `json:"totalCustomers"`
	TotalVendors   int64       `json:"totalVendors"`
	TotalProjects  int64       `json:"totalProjects"`
	Recent         []AuditView `json:"recent"`
}

type PrimaryContactView struct {
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Contact    domain.Contact `json:"contact"`
}

// MetaOption is one entry of a company, branch or department dropdown.
type MetaOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
