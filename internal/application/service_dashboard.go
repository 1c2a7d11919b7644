package application

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func (s *Service) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	if raw, err := s.cache.Get(ctx, dashboardSummaryKey); err == nil {
		var cached DashboardSummary
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return cached, nil
		}
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "dashboard cache read failed", "operation", "dashboard_summary", "outcome", "degraded", "error", err)
	}

	customers, err := s.customers.Count(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	vendors, err := s.vendors.Count(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	projects, err := s.projects.Count(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	recent, err := s.RecentActivity(ctx, s.cfg.RecentActivityLimit)
	if err != nil {
		return DashboardSummary{}, err
	}
	summary := DashboardSummary{
		TotalCustomers: customers,
		TotalVendors:   vendors,
		TotalProjects:  projects,
		Recent:         recent,
	}
	if raw, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, dashboardSummaryKey, string(raw), s.cfg.DashboardCacheTTL)
	}
	return summary, nil
}

func (s *Service) RecentActivity(ctx context.Context, limit int) ([]AuditView, error) {
	if limit <= 0 {
		limit = s.cfg.RecentActivityLimit
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	entries, err := s.audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]AuditView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditView{
			EntityType: string(e.EntityType),
			EntityID:   e.EntityID.String(),
			EntityCode: e.EntityCode,
			EntityName: e.EntityName,
			Action:     e.Action,
			ActorID:    e.ActorID,
			OccurredAt: e.OccurredAt,
		})
	}
	return out, nil
}

// GetPrimaryContact returns the primary contact of a saved entity.
func (s *Service) GetPrimaryContact(ctx context.Context, entityType, entityID string) (PrimaryContactView, error) {
	contacts, et, id, err := s.lookupContacts(ctx, entityType, entityID)
	if err != nil {
		return PrimaryContactView{}, err
	}
	idx := contacts.PrimaryIndex()
	if idx < 0 {
		return PrimaryContactView{}, domain.ErrNotFound
	}
	return PrimaryContactView{EntityType: string(et), EntityID: id, Contact: contacts[idx]}, nil
}

func (s *Service) ListContacts(ctx context.Context, entityType, entityID string) ([]domain.Contact, error) {
	contacts, _, _, err := s.lookupContacts(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	return contactsOrEmpty(contacts), nil
}

func (s *Service) lookupContacts(ctx context.Context, entityType, entityID string) (domain.ContactList, domain.EntityType, string, error) {
	et, ok := domain.ParseEntityType(entityType)
	if !ok {
		return nil, "", "", &domain.ValidationError{Field: "entityType", Message: "entityType must be customer, vendor or project"}
	}
	id, err := parseID("entity id", entityID)
	if err != nil {
		return nil, "", "", err
	}
	contacts, err := s.entityContacts(ctx, et, id)
	if err != nil {
		return nil, "", "", err
	}
	return contacts, et, id.String(), nil
}
