package domain

import "fmt"

// Notifier receives user-facing outcomes of editor operations.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Confirmer asks the user a yes/no question before a destructive change.
type Confirmer interface {
	Confirm(message string) bool
}

type FormState string

const (
	FormClosed        FormState = "closed"
	FormOpenBlank     FormState = "open_blank"
	FormOpenPrefilled FormState = "open_prefilled"
)

const (
	MessageContactAdded    = "Contact added"
	MessageContactUpdated  = "Contact updated"
	MessageContactRemoved  = "Contact removed"
	MessageConfirmRemoval  = "Delete this contact?"
	MessageMinimumContacts = "At least one contact required"
	MessageContactMissing  = "Contact no longer exists"
)

// EditorState is the part of the editor that lives between requests: which
// sub-form is open and which row it is bound to.
type EditorState struct {
	Form            FormState `json:"form"`
	EditingPosition int       `json:"editingPosition"`
	Record          Contact   `json:"record"`
}

func ClosedEditorState() EditorState {
	return EditorState{Form: FormClosed, EditingPosition: -1}
}

// ContactRow is one rendered line of the contact table.
type ContactRow struct {
	Position    int          `json:"position"`
	Name        string       `json:"name"`
	Designation string       `json:"designation"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	Level       ContactLevel `json:"level"`
	Primary     string       `json:"primary"`
}

// ContactListEditor edits a contact list owned by its caller. The list is
// always read through get and written through set; the editor never holds a
// copy that can drift from the caller's.
type ContactListEditor struct {
	get       func() ContactList
	set       func(ContactList)
	notifier  Notifier
	confirmer Confirmer
	state     EditorState
}

func NewContactListEditor(get func() ContactList, set func(ContactList), notifier Notifier, confirmer Confirmer) *ContactListEditor {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if confirmer == nil {
		confirmer = ConfirmFunc(func(string) bool { return false })
	}
	return &ContactListEditor{
		get:       get,
		set:       set,
		notifier:  notifier,
		confirmer: confirmer,
		state:     ClosedEditorState(),
	}
}

// Resume restores sub-form state saved by a previous request.
func (e *ContactListEditor) Resume(state EditorState) {
	if state.Form == "" {
		state = ClosedEditorState()
	}
	if state.Form == FormClosed {
		state.EditingPosition = -1
		state.Record = Contact{}
	}
	e.state = state
}

func (e *ContactListEditor) State() EditorState { return e.state }

func (e *ContactListEditor) BeginAdd() {
	e.state = EditorState{Form: FormOpenBlank, EditingPosition: -1, Record: Contact{Level: DefaultContactLevel}}
}

func (e *ContactListEditor) BeginEdit(position int) error {
	list := e.get()
	if position < 0 || position >= len(list) {
		return fmt.Errorf("%w: contact position %d out of range", ErrInvalidInput, position)
	}
	e.state = EditorState{Form: FormOpenPrefilled, EditingPosition: position, Record: list[position]}
	return nil
}

func (e *ContactListEditor) Cancel() {
	e.state = ClosedEditorState()
}

// Submit merges record into the list at the editing position, or appends it
// when no row is being edited.
func (e *ContactListEditor) Submit(record Contact) error {
	if err := ValidateContact(record); err != nil {
		e.notifier.Error(validationMessage(err))
		return err
	}
	record = NormalizeContact(record)

	current := e.get()
	editing := -1
	if e.state.Form == FormOpenPrefilled {
		editing = e.state.EditingPosition
		if editing < 0 || editing >= len(current) {
			e.notifier.Error(MessageContactMissing)
			return fmt.Errorf("%w: contact position %d out of range", ErrInvalidInput, editing)
		}
	}

	updated := current.Clone()
	if record.IsPrimary {
		for i := range updated {
			updated[i].IsPrimary = false
		}
	}
	if editing >= 0 {
		updated[editing] = record
	} else {
		updated = append(updated, record)
	}
	updated.ensurePrimary()

	e.set(updated)
	e.state = ClosedEditorState()
	if editing >= 0 {
		e.notifier.Success(MessageContactUpdated)
	} else {
		e.notifier.Success(MessageContactAdded)
	}
	return nil
}

// Remove deletes the row at position after the user confirms. Declining
// returns ErrCancelled without notifying anyone.
func (e *ContactListEditor) Remove(position int) error {
	current := e.get()
	if len(current) <= 1 {
		e.notifier.Error(MessageMinimumContacts)
		return ErrMinimumContacts
	}
	if position < 0 || position >= len(current) {
		return fmt.Errorf("%w: contact position %d out of range", ErrInvalidInput, position)
	}
	if !e.confirmer.Confirm(MessageConfirmRemoval) {
		return ErrCancelled
	}

	updated := make(ContactList, 0, len(current)-1)
	updated = append(updated, current[:position]...)
	updated = append(updated, current[position+1:]...)
	updated.ensurePrimary()
	e.set(updated)

	if e.state.Form == FormOpenPrefilled {
		switch {
		case e.state.EditingPosition == position:
			e.state = ClosedEditorState()
		case e.state.EditingPosition > position:
			e.state.EditingPosition--
		}
	}
	e.notifier.Success(MessageContactRemoved)
	return nil
}

func (e *ContactListEditor) Empty() bool { return len(e.get()) == 0 }

func (e *ContactListEditor) Rows() []ContactRow {
	list := e.get()
	rows := make([]ContactRow, 0, len(list))
	for i, c := range list {
		level := c.Level
		if level == "" {
			level = DefaultContactLevel
		}
		primary := "No"
		if c.IsPrimary {
			primary = "Yes"
		}
		rows = append(rows, ContactRow{
			Position:    i,
			Name:        c.Name,
			Designation: c.Designation,
			Phone:       c.Phone,
			Email:       c.Email,
			Level:       level,
			Primary:     primary,
		})
	}
	return rows
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Error(string)   {}

func validationMessage(err error) string {
	if vErr, ok := err.(*ValidationError); ok {
		return vErr.Message
	}
	return err.Error()
}
