package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

const (
	eventEntityChanged   = "erp.entity_changed"
	dashboardSummaryKey  = "erp:dashboard:summary"
	entityChangedKeyPath = "data.entity_id"
	eventSchemaVersion   = "1.0"
)

type entityChangedEventData struct {
	EntityType   string `json:"entity_type"`
	EntityID     string `json:"entity_id"`
	EntityCode   string `json:"entity_code"`
	Action       string `json:"action"`
	ContactCount int    `json:"contact_count"`
	PrimaryName  string `json:"primary_contact_name,omitempty"`
	PrimaryEmail string `json:"primary_contact_email,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

func (s *Service) enqueueEntityChanged(ctx context.Context, actor Actor, entityType domain.EntityType, entityID uuid.UUID, code, action string, contacts domain.ContactList) error {
	occurredAt := s.nowFn()
	data := entityChangedEventData{
		EntityType:   string(entityType),
		EntityID:     entityID.String(),
		EntityCode:   code,
		Action:       action,
		ContactCount: len(contacts),
		UpdatedAt:    occurredAt.Format(time.RFC3339),
	}
	if idx := contacts.PrimaryIndex(); idx >= 0 {
		data.PrimaryName = contacts[idx].Name
		data.PrimaryEmail = contacts[idx].Email
	}
	eventID := uuid.New()
	payloadEnvelope := map[string]any{
		"event_id":           eventID.String(),
		"event_type":         eventEntityChanged,
		"occurred_at":        occurredAt.Format(time.RFC3339),
		"source_service":     s.cfg.ServiceName,
		"trace_id":           actor.RequestID,
		"schema_version":     eventSchemaVersion,
		"partition_key_path": entityChangedKeyPath,
		"partition_key":      entityID.String(),
		"data":               data,
	}
	payload, err := json.Marshal(payloadEnvelope)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:          eventID,
		EventType:        eventEntityChanged,
		PartitionKey:     entityID.String(),
		PartitionKeyPath: entityChangedKeyPath,
		Payload:          payload,
		OccurredAt:       occurredAt,
		SchemaVersion:    eventSchemaVersion,
		TraceID:          actor.RequestID,
	})
}

// recordChange writes the audit entry and outbox event for a mutation and
// drops the cached dashboard. Failures are logged, not returned: the entity
// is already stored.
func (s *Service) recordChange(ctx context.Context, actor Actor, entityType domain.EntityType, entityID uuid.UUID, code, name, action string, contacts domain.ContactList) {
	entry := domain.AuditEntry{
		AuditID:    uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		EntityCode: code,
		EntityName: name,
		Action:     action,
		ActorID:    actor.SubjectID,
		OccurredAt: s.nowFn(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit append failed",
			"operation", "record_change", "outcome", "failure", "entity_type", entityType, "error", err)
	}
	if err := s.enqueueEntityChanged(ctx, actor, entityType, entityID, code, action, contacts); err != nil {
		s.logger.WarnContext(ctx, "outbox enqueue failed",
			"operation", "record_change", "outcome", "failure", "entity_type", entityType, "error", err)
	}
	_ = s.cache.Delete(ctx, dashboardSummaryKey)
}

func hashRequest(v any) string {
	raw, _ := json.Marshal(v)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// replayIdempotent returns the stored response for a completed key with the
// same request hash.
func (s *Service) replayIdempotent(ctx context.Context, key string, request any, out any) (bool, error) {
	if key == "" {
		return false, nil
	}
	rec, err := s.idempotency.Get(ctx, key)
	if err != nil || rec == nil {
		return false, err
	}
	if rec.RequestHash != hashRequest(request) {
		return false, domain.ErrIdempotencyConflict
	}
	if rec.Status != "completed" || len(rec.ResponseBody) == 0 {
		return false, domain.ErrIdempotencyConflict
	}
	if err := json.Unmarshal(rec.ResponseBody, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) reserveIdempotency(ctx context.Context, key string, request any) error {
	if key == "" {
		return nil
	}
	err := s.idempotency.Reserve(ctx, key, hashRequest(request), s.nowFn().Add(s.cfg.IdempotencyTTL))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIdempotencyConflict, err)
	}
	return nil
}

func (s *Service) releaseIdempotency(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "idempotency release failed", "operation", "release_idempotency", "outcome", "failure", "error", err)
	}
}

func (s *Service) completeIdempotency(ctx context.Context, key string, code int, response any) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	_ = s.idempotency.Complete(ctx, key, code, raw, s.nowFn())
}

func newEntityCode(prefix string, id uuid.UUID) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

func (s *Service) listParams(q ListQuery) ports.ListParams {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	if limit > 0 && page > math.MaxInt32/limit {
		page = math.MaxInt32 / limit
	}
	return ports.ListParams{Page: page, Limit: limit, Status: strings.TrimSpace(q.Status), Search: strings.TrimSpace(q.Search)}
}

func normalizeContacts(in []domain.Contact) domain.ContactList {
	out := make(domain.ContactList, 0, len(in))
	for _, c := range in {
		out = append(out, domain.NormalizeContact(c))
	}
	return out
}

// resolveContacts picks the list to save: the referenced draft when draftID
// is set, the inline list otherwise. The returned draft id is discarded by
// the caller once the save succeeds.
func (s *Service) resolveContacts(ctx context.Context, actor Actor, entityType domain.EntityType, entityID *uuid.UUID, draftID string, inline []domain.Contact) (domain.ContactList, *uuid.UUID, error) {
	if strings.TrimSpace(draftID) == "" {
		contacts := normalizeContacts(inline)
		if err := domain.ValidateContactList(contacts, s.cfg.RequireContactOnSave); err != nil {
			return nil, nil, err
		}
		return contacts, nil, nil
	}
	draft, err := s.loadDraft(ctx, actor, draftID)
	if err != nil {
		return nil, nil, err
	}
	if draft.EntityType != entityType {
		return nil, nil, fmt.Errorf("%w: draft belongs to a %s", domain.ErrInvalidInput, draft.EntityType)
	}
	if draft.EntityID != nil && (entityID == nil || *draft.EntityID != *entityID) {
		return nil, nil, fmt.Errorf("%w: draft belongs to another record", domain.ErrInvalidInput)
	}
	contacts := draft.Contacts.Clone()
	if err := domain.ValidateContactList(contacts, s.cfg.RequireContactOnSave); err != nil {
		return nil, nil, err
	}
	return contacts, &draft.DraftID, nil
}

func (s *Service) discardDraftAfterSave(ctx context.Context, draftID *uuid.UUID) {
	if draftID == nil {
		return
	}
	_ = s.cache.Delete(ctx, draftKey(*draftID))
}

func contactsOrEmpty(l domain.ContactList) []domain.Contact {
	if l == nil {
		return []domain.Contact{}
	}
	return l
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", domain.ErrInvalidInput, field)
	}
	return id, nil
}
