package domain

import (
	"errors"
	"testing"
)

func TestValidateContactList(t *testing.T) {
	t.Parallel()

	if err := ValidateContactList(nil, true); !errors.Is(err, ErrMinimumContacts) {
		t.Fatalf("expected ErrMinimumContacts, got %v", err)
	}
	if err := ValidateContactList(nil, false); err != nil {
		t.Fatalf("expected empty list to pass when not required, got %v", err)
	}
	valid := ContactList{{Name: "A", Phone: "1", IsPrimary: true}, {Name: "B", Phone: "2"}}
	if err := ValidateContactList(valid, true); err != nil {
		t.Fatalf("expected valid list, got %v", err)
	}
	twoPrimaries := ContactList{{Name: "A", Phone: "1", IsPrimary: true}, {Name: "B", Phone: "2", IsPrimary: true}}
	if err := ValidateContactList(twoPrimaries, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for two primaries, got %v", err)
	}
	noPrimary := ContactList{{Name: "A", Phone: "1"}}
	if err := ValidateContactList(noPrimary, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing primary, got %v", err)
	}

	badSecond := ContactList{{Name: "A", Phone: "1", IsPrimary: true}, {Name: "B"}}
	err := ValidateContactList(badSecond, true)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "contacts[1].phone" {
		t.Fatalf("expected contacts[1].phone validation error, got %v", err)
	}
}

func TestNormalizeContact(t *testing.T) {
	t.Parallel()

	got := NormalizeContact(Contact{Name: "  Jane ", Phone: " 99 ", Email: " j@example.com "})
	if got.Name != "Jane" || got.Phone != "99" || got.Email != "j@example.com" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
	if got.Level != DefaultContactLevel {
		t.Fatalf("expected default level, got %q", got.Level)
	}
	kept := NormalizeContact(Contact{Name: "A", Phone: "1", Level: "vip"})
	if kept.Level != "vip" {
		t.Fatalf("expected unknown level passed through, got %q", kept.Level)
	}
}

func TestValidateProjectSchedule(t *testing.T) {
	t.Parallel()

	if err := ValidateProjectSchedule(Project{Status: ProjectStatusOngoing}); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
	if err := ValidateProjectSchedule(Project{Status: "Unknown"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	if err := ValidateProjectSchedule(Project{Status: ProjectStatusOngoing, EstimatedBudget: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid budget error, got %v", err)
	}
}
