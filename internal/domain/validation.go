package domain

import (
	"fmt"
	"strings"
)

func IsValidStatus(v string) bool {
	return v == StatusActive || v == StatusInactive
}

func IsValidProjectStatus(v string) bool {
	switch v {
	case ProjectStatusNotStarted, ProjectStatusOngoing, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

func ValidatePartyName(field, v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if len(trimmed) > 200 {
		return &ValidationError{Field: field, Message: field + " must be <= 200 chars"}
	}
	return nil
}

func ValidateOptionalEmail(field, v string) error {
	if v = strings.TrimSpace(v); v != "" && !IsValidEmail(v) {
		return &ValidationError{Field: field, Message: field + " is not a valid address"}
	}
	return nil
}

func ValidateProjectSchedule(p Project) error {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return &ValidationError{Field: "endDate", Message: "endDate must not be before startDate"}
	}
	if p.EstimatedBudget < 0 {
		return &ValidationError{Field: "estimatedBudget", Message: "estimatedBudget must be >= 0"}
	}
	if !IsValidProjectStatus(p.Status) {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unsupported project status %q", p.Status)}
	}
	return nil
}
