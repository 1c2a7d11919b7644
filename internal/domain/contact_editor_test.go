package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

type holder struct {
	list   ContactList
	writes int
}

func (h *holder) get() ContactList { return h.list }
func (h *holder) set(l ContactList) {
	h.list = l
	h.writes++
}

func newEditor(list ContactList, confirm bool) (*ContactListEditor, *holder, *recordingNotifier) {
	h := &holder{list: list}
	n := &recordingNotifier{}
	e := NewContactListEditor(h.get, h.set, n, ConfirmFunc(func(string) bool { return confirm }))
	return e, h, n
}

func contact(name string, primary bool) Contact {
	return Contact{Name: name, Phone: "1", IsPrimary: primary, Level: DefaultContactLevel}
}

func TestSubmit_FirstContactBecomesPrimary(t *testing.T) {
	e, h, n := newEditor(ContactList{}, true)
	e.BeginAdd()
	if err := e.Submit(Contact{Name: "A", Phone: "1"}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	want := ContactList{{Name: "A", Phone: "1", IsPrimary: true, Level: DefaultContactLevel}}
	if diff := cmp.Diff(want, h.list); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
	if e.State().Form != FormClosed {
		t.Fatalf("expected sub-form closed, got %s", e.State().Form)
	}
	if diff := cmp.Diff([]string{MessageContactAdded}, n.successes); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}
}

func TestSubmit_EditMovesPrimary(t *testing.T) {
	e, h, n := newEditor(ContactList{contact("A", true), contact("B", false)}, true)
	if err := e.BeginEdit(1); err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	record := e.State().Record
	record.IsPrimary = true
	if err := e.Submit(record); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	want := ContactList{contact("A", false), contact("B", true)}
	if diff := cmp.Diff(want, h.list); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{MessageContactUpdated}, n.successes); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}
}

func TestSubmit_StaleEditingPositionNotifies(t *testing.T) {
	e, h, n := newEditor(ContactList{contact("A", true), contact("B", false)}, true)
	if err := e.BeginEdit(1); err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	h.list = ContactList{contact("A", true)}

	err := e.Submit(Contact{Name: "B2", Phone: "2"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(n.errors) != 1 || n.errors[0] != MessageContactMissing {
		t.Fatalf("expected one error notification, got %v", n.errors)
	}
	if len(n.successes) != 0 || h.writes != 0 {
		t.Fatalf("expected no writes or successes, got %v writes=%d", n.successes, h.writes)
	}
}

func TestSubmit_UncheckingOnlyPrimaryFallsBackToFirst(t *testing.T) {
	e, h, _ := newEditor(ContactList{contact("A", false), contact("B", true)}, true)
	if err := e.BeginEdit(1); err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	record := e.State().Record
	record.IsPrimary = false
	if err := e.Submit(record); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	want := ContactList{contact("A", true), contact("B", false)}
	if diff := cmp.Diff(want, h.list); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
}

func TestSubmit_DoesNotMutateCallerSlice(t *testing.T) {
	original := ContactList{contact("A", true)}
	e, h, _ := newEditor(original, true)
	e.BeginAdd()
	if err := e.Submit(Contact{Name: "B", Phone: "2", IsPrimary: true}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !original[0].IsPrimary {
		t.Fatalf("expected previous list value untouched")
	}
	if h.list[0].IsPrimary || !h.list[1].IsPrimary {
		t.Fatalf("unexpected primary flags: %+v", h.list)
	}
}

func TestSubmit_ValidationGate(t *testing.T) {
	cases := []struct {
		name   string
		record Contact
		field  string
	}{
		{name: "empty name", record: Contact{Phone: "1"}, field: "name"},
		{name: "blank name", record: Contact{Name: "   ", Phone: "1"}, field: "name"},
		{name: "empty phone", record: Contact{Name: "A"}, field: "phone"},
		{name: "malformed email", record: Contact{Name: "A", Phone: "1", Email: "bob@"}, field: "email"},
		{name: "email without domain dot", record: Contact{Name: "A", Phone: "1", Email: "bob@example"}, field: "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, h, n := newEditor(ContactList{contact("A", true)}, true)
			e.BeginAdd()
			err := e.Submit(tc.record)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, vErr.Field)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput wrap")
			}
			if h.writes != 0 {
				t.Fatalf("expected no list mutation, got %d writes", h.writes)
			}
			if len(n.errors) != 1 {
				t.Fatalf("expected one error notification, got %v", n.errors)
			}
			if e.State().Form != FormOpenBlank {
				t.Fatalf("expected sub-form to stay open, got %s", e.State().Form)
			}
		})
	}
}

func TestSubmit_AcceptsWellFormedEmail(t *testing.T) {
	e, h, _ := newEditor(ContactList{}, true)
	e.BeginAdd()
	if err := e.Submit(Contact{Name: "Bob", Phone: "1", Email: "bob@example.com"}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if len(h.list) != 1 || h.list[0].Email != "bob@example.com" {
		t.Fatalf("unexpected list: %+v", h.list)
	}
}

func TestRemove_FallsBackToFirstPrimary(t *testing.T) {
	e, h, n := newEditor(ContactList{contact("A", true), contact("B", false)}, true)
	if err := e.Remove(0); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	want := ContactList{contact("B", true)}
	if diff := cmp.Diff(want, h.list); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{MessageContactRemoved}, n.successes); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}
}

func TestRemove_MinimumCount(t *testing.T) {
	e, h, n := newEditor(ContactList{contact("A", true)}, true)
	err := e.Remove(0)
	if !errors.Is(err, ErrMinimumContacts) {
		t.Fatalf("expected ErrMinimumContacts, got %v", err)
	}
	if h.writes != 0 || len(h.list) != 1 {
		t.Fatalf("expected list unchanged, got %+v", h.list)
	}
	if diff := cmp.Diff([]string{MessageMinimumContacts}, n.errors); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}
}

func TestRemove_DeclinedIsSilent(t *testing.T) {
	e, h, n := newEditor(ContactList{contact("A", true), contact("B", false)}, false)
	if err := e.Remove(1); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if h.writes != 0 {
		t.Fatalf("expected no mutation")
	}
	if len(n.successes)+len(n.errors) != 0 {
		t.Fatalf("expected no notifications, got %v %v", n.successes, n.errors)
	}
}

func TestRemove_ShiftsEditingPosition(t *testing.T) {
	e, _, _ := newEditor(ContactList{contact("A", true), contact("B", false), contact("C", false)}, true)
	if err := e.BeginEdit(2); err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	if err := e.Remove(0); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if got := e.State().EditingPosition; got != 1 {
		t.Fatalf("expected editing position 1, got %d", got)
	}
	if err := e.Remove(1); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if e.State().Form != FormClosed {
		t.Fatalf("expected sub-form closed after its row was removed")
	}
}

func TestEditorStateMachine(t *testing.T) {
	e, h, _ := newEditor(ContactList{contact("A", true)}, true)
	if e.State().Form != FormClosed {
		t.Fatalf("expected initial closed state")
	}
	if err := e.BeginEdit(5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad position, got %v", err)
	}
	if err := e.BeginEdit(0); err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	if e.State().Form != FormOpenPrefilled || e.State().Record.Name != "A" {
		t.Fatalf("unexpected state: %+v", e.State())
	}
	e.Cancel()
	if e.State().Form != FormClosed || h.writes != 0 {
		t.Fatalf("expected cancel to close without mutation")
	}
	e.BeginAdd()
	if e.State().Form != FormOpenBlank || e.State().EditingPosition != -1 {
		t.Fatalf("unexpected state: %+v", e.State())
	}
}

func TestRows(t *testing.T) {
	e, _, _ := newEditor(ContactList{
		{Name: "A", Phone: "1", Email: "a@example.com", Designation: "CFO", IsPrimary: true},
		{Name: "B", Phone: "2", Level: ContactLevelBilling},
	}, true)
	want := []ContactRow{
		{Position: 0, Name: "A", Designation: "CFO", Phone: "1", Email: "a@example.com", Level: DefaultContactLevel, Primary: "Yes"},
		{Position: 1, Name: "B", Phone: "2", Level: ContactLevelBilling, Primary: "No"},
	}
	if diff := cmp.Diff(want, e.Rows()); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
	if e.Empty() {
		t.Fatalf("expected non-empty list")
	}
	empty, _, _ := newEditor(nil, true)
	if !empty.Empty() || len(empty.Rows()) != 0 {
		t.Fatalf("expected empty call-to-action state")
	}
}

func TestPrimaryInvariantHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e, h, _ := newEditor(ContactList{}, true)
	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(h.list) == 0:
			e.BeginAdd()
			_ = e.Submit(Contact{Name: "N", Phone: "P", IsPrimary: rng.Intn(2) == 0})
		case op == 1:
			_ = e.BeginEdit(rng.Intn(len(h.list)))
			record := e.State().Record
			record.IsPrimary = rng.Intn(2) == 0
			_ = e.Submit(record)
		case op == 2:
			before := len(h.list)
			err := e.Remove(rng.Intn(before))
			if before == 1 && !errors.Is(err, ErrMinimumContacts) {
				t.Fatalf("step %d: expected ErrMinimumContacts on single-element list, got %v", step, err)
			}
		default:
			e.BeginAdd()
			_ = e.Submit(Contact{Phone: "P"})
		}
		if n := h.list.PrimaryCount(); len(h.list) > 0 && n != 1 {
			t.Fatalf("step %d: expected exactly one primary, got %d in %+v", step, n, h.list)
		}
	}
}
