package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func draftKey(id uuid.UUID) string {
	return "erp:draft:" + id.String()
}

func draftRateKey(ownerID string) string {
	return "erp:draft:rate:" + ownerID
}

// collectingNotifier buffers editor notifications so they can be returned
// with the draft view.
type collectingNotifier struct {
	logger *slog.Logger
	ctx    context.Context
	items  []Notification
}

func (n *collectingNotifier) Success(message string) {
	n.items = append(n.items, Notification{Level: "success", Message: message})
}

func (n *collectingNotifier) Error(message string) {
	n.items = append(n.items, Notification{Level: "error", Message: message})
	n.logger.DebugContext(n.ctx, "contact editor rejected change", "operation", "contact_draft", "outcome", "rejected", "message", message)
}

func (s *Service) OpenContactDraft(ctx context.Context, actor Actor, input OpenDraftInput) (ContactDraftView, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return ContactDraftView{}, domain.ErrUnauthorized
	}
	entityType, ok := domain.ParseEntityType(strings.TrimSpace(input.EntityType))
	if !ok {
		return ContactDraftView{}, &domain.ValidationError{Field: "entityType", Message: "entityType must be customer, vendor or project"}
	}
	count, err := s.cache.IncrWithTTL(ctx, draftRateKey(actor.SubjectID), time.Hour)
	if err != nil {
		return ContactDraftView{}, fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	if count > int64(s.cfg.MaxDraftsPerHour) {
		return ContactDraftView{}, domain.ErrRateLimitExceeded
	}

	now := s.nowFn()
	draft := domain.ContactDraft{
		DraftID:    uuid.New(),
		EntityType: entityType,
		Contacts:   domain.ContactList{},
		Editor:     domain.ClosedEditorState(),
		OwnerID:    actor.SubjectID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if raw := strings.TrimSpace(input.EntityID); raw != "" {
		id, err := parseID("entity id", raw)
		if err != nil {
			return ContactDraftView{}, err
		}
		contacts, err := s.entityContacts(ctx, entityType, id)
		if err != nil {
			return ContactDraftView{}, err
		}
		draft.EntityID = &id
		draft.Contacts = contacts.Clone()
	}
	if err := s.saveDraft(ctx, draft); err != nil {
		return ContactDraftView{}, err
	}
	s.logger.InfoContext(ctx, "contact draft opened",
		"operation", "open_contact_draft", "outcome", "success", "entity_type", entityType, "draft_id", draft.DraftID.String())
	return s.toDraftView(draft, nil, false), nil
}

func (s *Service) GetContactDraft(ctx context.Context, actor Actor, draftID string) (ContactDraftView, error) {
	draft, err := s.loadDraft(ctx, actor, draftID)
	if err != nil {
		return ContactDraftView{}, err
	}
	return s.toDraftView(draft, nil, false), nil
}

func (s *Service) BeginAddContact(ctx context.Context, actor Actor, draftID string) (ContactDraftView, error) {
	return s.withDraftEditor(ctx, actor, draftID, nil, func(e *domain.ContactListEditor) error {
		e.BeginAdd()
		return nil
	})
}

func (s *Service) BeginEditContact(ctx context.Context, actor Actor, draftID string, position int) (ContactDraftView, error) {
	return s.withDraftEditor(ctx, actor, draftID, nil, func(e *domain.ContactListEditor) error {
		return e.BeginEdit(position)
	})
}

func (s *Service) CancelContactForm(ctx context.Context, actor Actor, draftID string) (ContactDraftView, error) {
	return s.withDraftEditor(ctx, actor, draftID, nil, func(e *domain.ContactListEditor) error {
		e.Cancel()
		return nil
	})
}

func (s *Service) SubmitContact(ctx context.Context, actor Actor, draftID string, record domain.Contact) (ContactDraftView, error) {
	return s.withDraftEditor(ctx, actor, draftID, nil, func(e *domain.ContactListEditor) error {
		if e.State().Form == domain.FormClosed {
			e.BeginAdd()
		}
		return e.Submit(record)
	})
}

// RemoveContact deletes the row at position. confirmed carries the user's
// answer to the removal prompt.
func (s *Service) RemoveContact(ctx context.Context, actor Actor, draftID string, position int, confirmed bool) (ContactDraftView, error) {
	confirmer := domain.ConfirmFunc(func(string) bool { return confirmed })
	return s.withDraftEditor(ctx, actor, draftID, confirmer, func(e *domain.ContactListEditor) error {
		return e.Remove(position)
	})
}

func (s *Service) DiscardContactDraft(ctx context.Context, actor Actor, draftID string) error {
	draft, err := s.loadDraft(ctx, actor, draftID)
	if err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, draftKey(draft.DraftID)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	return nil
}

// withDraftEditor loads a draft, replays its editor state, applies op and
// stores the result. A declined confirmation is reported through the view,
// not as an error.
func (s *Service) withDraftEditor(ctx context.Context, actor Actor, draftID string, confirmer domain.Confirmer, op func(*domain.ContactListEditor) error) (ContactDraftView, error) {
	draft, err := s.loadDraft(ctx, actor, draftID)
	if err != nil {
		return ContactDraftView{}, err
	}
	notifier := &collectingNotifier{logger: s.logger, ctx: ctx}
	editor := domain.NewContactListEditor(
		func() domain.ContactList { return draft.Contacts },
		func(l domain.ContactList) { draft.Contacts = l },
		notifier,
		confirmer,
	)
	editor.Resume(draft.Editor)

	if err := op(editor); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return s.toDraftView(draft, notifier.items, true), nil
		}
		return ContactDraftView{}, err
	}
	draft.Editor = editor.State()
	draft.UpdatedAt = s.nowFn()
	if err := s.saveDraft(ctx, draft); err != nil {
		return ContactDraftView{}, err
	}
	return s.toDraftView(draft, notifier.items, false), nil
}

func (s *Service) loadDraft(ctx context.Context, actor Actor, draftID string) (domain.ContactDraft, error) {
	id, err := parseID("draft id", draftID)
	if err != nil {
		return domain.ContactDraft{}, err
	}
	raw, err := s.cache.Get(ctx, draftKey(id))
	if err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return domain.ContactDraft{}, domain.ErrDraftExpired
		}
		return domain.ContactDraft{}, fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	var draft domain.ContactDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return domain.ContactDraft{}, fmt.Errorf("%w: corrupt contact draft", domain.ErrDraftExpired)
	}
	if draft.OwnerID != actor.SubjectID {
		return domain.ContactDraft{}, domain.ErrNotFound
	}
	if draft.Contacts == nil {
		draft.Contacts = domain.ContactList{}
	}
	return draft, nil
}

func (s *Service) saveDraft(ctx context.Context, draft domain.ContactDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, draftKey(draft.DraftID), string(raw), s.cfg.DraftTTL); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	return nil
}

func (s *Service) entityContacts(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.ContactList, error) {
	switch entityType {
	case domain.EntityCustomer:
		c, err := s.customers.GetByID(ctx, id)
		return c.Contacts, err
	case domain.EntityVendor:
		v, err := s.vendors.GetByID(ctx, id)
		return v.Contacts, err
	case domain.EntityProject:
		p, err := s.projects.GetByID(ctx, id)
		return p.Contacts, err
	default:
		return nil, domain.ErrInvalidInput
	}
}

func (s *Service) toDraftView(draft domain.ContactDraft, notes []Notification, cancelled bool) ContactDraftView {
	editor := domain.NewContactListEditor(func() domain.ContactList { return draft.Contacts }, func(domain.ContactList) {}, nil, nil)
	editor.Resume(draft.Editor)
	state := editor.State()

	view := ContactDraftView{
		DraftID:       draft.DraftID.String(),
		EntityType:    string(draft.EntityType),
		Contacts:      contactsOrEmpty(draft.Contacts),
		Rows:          editor.Rows(),
		Empty:         editor.Empty(),
		Form:          string(state.Form),
		Cancelled:     cancelled,
		Notifications: notes,
		ExpiresAt:     draft.UpdatedAt.Add(s.cfg.DraftTTL),
	}
	if draft.EntityID != nil {
		view.EntityID = draft.EntityID.String()
	}
	if state.Form != domain.FormClosed {
		record := state.Record
		view.Record = &record
		if state.Form == domain.FormOpenPrefilled {
			pos := state.EditingPosition
			view.EditingPosition = &pos
		}
	}
	return view
}
