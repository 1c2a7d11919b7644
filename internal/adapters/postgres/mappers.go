package postgres

import (
	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func toDomainCustomer(rec customerModel, contacts domain.ContactList) domain.Customer {
	return domain.Customer{
		CustomerID:   rec.CustomerID,
		CustomerCode: rec.CustomerCode,
		CustomerName: rec.CustomerName,
		ShortName:    rec.ShortName,
		Address:      domain.Address{City: rec.City, State: rec.State, Pincode: rec.Pincode},
		Email:        rec.Email,
		Phone:        rec.Phone,
		GSTIN:        rec.GSTIN,
		Status:       rec.Status,
		Contacts:     contacts,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func fromDomainCustomer(c domain.Customer) customerModel {
	return customerModel{
		CustomerID:   c.CustomerID,
		CustomerCode: c.CustomerCode,
		CustomerName: c.CustomerName,
		ShortName:    c.ShortName,
		City:         c.Address.City,
		State:        c.Address.State,
		Pincode:      c.Address.Pincode,
		Email:        c.Email,
		Phone:        c.Phone,
		GSTIN:        c.GSTIN,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toDomainVendor(rec vendorModel, contacts domain.ContactList) domain.Vendor {
	return domain.Vendor{
		VendorID:   rec.VendorID,
		VendorCode: rec.VendorCode,
		VendorName: rec.VendorName,
		ShortName:  rec.ShortName,
		Address:    domain.Address{City: rec.City, State: rec.State, Pincode: rec.Pincode},
		Email:      rec.Email,
		Phone:      rec.Phone,
		GSTIN:      rec.GSTIN,
		MSME:       rec.MSME,
		Status:     rec.Status,
		Contacts:   contacts,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func fromDomainVendor(v domain.Vendor) vendorModel {
	return vendorModel{
		VendorID:   v.VendorID,
		VendorCode: v.VendorCode,
		VendorName: v.VendorName,
		ShortName:  v.ShortName,
		City:       v.Address.City,
		State:      v.Address.State,
		Pincode:    v.Address.Pincode,
		Email:      v.Email,
		Phone:      v.Phone,
		GSTIN:      v.GSTIN,
		MSME:       v.MSME,
		Status:     v.Status,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func toDomainProject(rec projectModel, attachments []attachmentModel, contacts domain.ContactList) domain.Project {
	out := domain.Project{
		ProjectID:       rec.ProjectID,
		ProjectCode:     rec.ProjectCode,
		ProjectName:     rec.ProjectName,
		Company:         rec.Company,
		Branch:          rec.Branch,
		Department:      rec.Department,
		CustomerID:      rec.CustomerID,
		VendorID:        rec.VendorID,
		ProjectPlace:    rec.ProjectPlace,
		StartDate:       rec.StartDate,
		EndDate:         rec.EndDate,
		EstimatedBudget: rec.EstimatedBudget,
		Status:          rec.Status,
		Attachments:     make([]domain.Attachment, 0, len(attachments)),
		Contacts:        contacts,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	for _, a := range attachments {
		out.Attachments = append(out.Attachments, domain.Attachment{
			OriginalName: a.OriginalName,
			URL:          a.URL,
			ContentType:  a.ContentType,
			Size:         a.SizeBytes,
		})
	}
	return out
}

func fromDomainProject(p domain.Project) projectModel {
	return projectModel{
		ProjectID:       p.ProjectID,
		ProjectCode:     p.ProjectCode,
		ProjectName:     p.ProjectName,
		Company:         p.Company,
		Branch:          p.Branch,
		Department:      p.Department,
		CustomerID:      p.CustomerID,
		VendorID:        p.VendorID,
		ProjectPlace:    p.ProjectPlace,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		EstimatedBudget: p.EstimatedBudget,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toContactModels(ownerType domain.EntityType, ownerID uuid.UUID, contacts domain.ContactList) []contactModel {
	out := make([]contactModel, 0, len(contacts))
	for i, c := range contacts {
		out = append(out, contactModel{
			ContactID:   uuid.New(),
			OwnerType:   string(ownerType),
			OwnerID:     ownerID,
			Position:    i,
			Name:        c.Name,
			Phone:       c.Phone,
			Email:       c.Email,
			Designation: c.Designation,
			IsPrimary:   c.IsPrimary,
			Level:       string(c.Level),
		})
	}
	return out
}

func toDomainContact(rec contactModel) domain.Contact {
	return domain.Contact{
		Name:        rec.Name,
		Phone:       rec.Phone,
		Email:       rec.Email,
		Designation: rec.Designation,
		IsPrimary:   rec.IsPrimary,
		Level:       domain.ContactLevel(rec.Level),
	}
}

func toDomainAudit(rec auditModel) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:    rec.AuditID,
		EntityType: domain.EntityType(rec.EntityType),
		EntityID:   rec.EntityID,
		EntityCode: rec.EntityCode,
		EntityName: rec.EntityName,
		Action:     rec.Action,
		ActorID:    rec.ActorID,
		OccurredAt: rec.OccurredAt,
	}
}

func toOutboxRecord(row outboxModel) ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID:     row.OutboxID,
		EventType:    row.EventType,
		PartitionKey: row.PartitionKey,
		Payload:      []byte(row.Payload),
		RetryCount:   row.RetryCount,
		PublishedAt:  row.PublishedAt,
		LastError:    row.LastError,
		LastErrorAt:  row.LastErrorAt,
		FirstSeenAt:  row.FirstSeenAt,
	}
}

func toIdempotencyRecord(rec idempotencyModel) ports.IdempotencyRecord {
	out := ports.IdempotencyRecord{
		Key:          rec.IdempotencyKey,
		RequestHash:  rec.RequestHash,
		Status:       rec.Status,
		ResponseCode: rec.ResponseCode,
		ExpiresAt:    rec.ExpiresAt,
	}
	if rec.ResponseBody != nil {
		out.ResponseBody = []byte(*rec.ResponseBody)
	}
	return out
}
