package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type ContactLevel string

const (
	ContactLevelStandard  ContactLevel = "standard"
	ContactLevelExecutive ContactLevel = "executive"
	ContactLevelTechnical ContactLevel = "technical"
	ContactLevelBilling   ContactLevel = "billing"

	DefaultContactLevel = ContactLevelStandard
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact is a value record owned by a customer, vendor or project. It has no
// identity outside its parent's list.
type Contact struct {
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email,omitempty"`
	Designation string       `json:"designation,omitempty"`
	IsPrimary   bool         `json:"isPrimary"`
	Level       ContactLevel `json:"level,omitempty"`
}

// ContactList is ordered; position is the only row address.
type ContactList []Contact

func IsValidContactLevel(level ContactLevel) bool {
	switch level {
	case ContactLevelStandard, ContactLevelExecutive, ContactLevelTechnical, ContactLevelBilling:
		return true
	default:
		return false
	}
}

func IsValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// NormalizeContact trims text fields and fills in the default level.
// Unknown levels are kept as-is.
func NormalizeContact(c Contact) Contact {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Designation = strings.TrimSpace(c.Designation)
	if strings.TrimSpace(string(c.Level)) == "" {
		c.Level = DefaultContactLevel
	}
	return c
}

func ValidateContact(c Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(c.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "phone is required"}
	}
	if email := strings.TrimSpace(c.Email); email != "" && !IsValidEmail(email) {
		return &ValidationError{Field: "email", Message: "email is not a valid address"}
	}
	return nil
}

func (l ContactList) Clone() ContactList {
	if l == nil {
		return nil
	}
	out := make(ContactList, len(l))
	copy(out, l)
	return out
}

func (l ContactList) PrimaryCount() int {
	n := 0
	for _, c := range l {
		if c.IsPrimary {
			n++
		}
	}
	return n
}

// PrimaryIndex returns the position of the first primary contact, or -1.
func (l ContactList) PrimaryIndex() int {
	for i, c := range l {
		if c.IsPrimary {
			return i
		}
	}
	return -1
}

// ensurePrimary marks position 0 primary when a non-empty list has none.
func (l ContactList) ensurePrimary() {
	if len(l) > 0 && l.PrimaryIndex() < 0 {
		l[0].IsPrimary = true
	}
}

// ValidateContactList checks a list handed to an entity save. Lists are
// rejected rather than corrected.
func ValidateContactList(l ContactList, requireOne bool) error {
	if len(l) == 0 {
		if requireOne {
			return ErrMinimumContacts
		}
		return nil
	}
	for i, c := range l {
		if err := ValidateContact(c); err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				return &ValidationError{
					Field:   fmt.Sprintf("contacts[%d].%s", i, vErr.Field),
					Message: fmt.Sprintf("contact %d: %s", i+1, vErr.Message),
				}
			}
			return err
		}
	}
	if n := l.PrimaryCount(); n != 1 {
		return &ValidationError{Field: "contacts", Message: "exactly one primary contact is required"}
	}
	return nil
}
