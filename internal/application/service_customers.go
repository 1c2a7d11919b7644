package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

func (s *Service) CreateCustomer(ctx context.Context, actor Actor, input CustomerInput) (CustomerView, error) {
	input = trimCustomerInput(input)
	if err := validateCustomerInput(input); err != nil {
		return CustomerView{}, err
	}
	var cached CustomerView
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, input, &cached); err != nil {
		return CustomerView{}, err
	} else if ok {
		return cached, nil
	}
	contacts, draftID, err := s.resolveContacts(ctx, actor, domain.EntityCustomer, nil, input.DraftID, input.Contacts)
	if err != nil {
		return CustomerView{}, err
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, input); err != nil {
		return CustomerView{}, err
	}

	now := s.nowFn()
	id := uuid.New()
	created, err := s.customers.Create(ctx, domain.Customer{
		CustomerID:   id,
		CustomerCode: newEntityCode("CUS", id),
		CustomerName: input.CustomerName,
		ShortName:    input.ShortName,
		Address:      domain.Address{City: input.City, State: input.State, Pincode: input.Pincode},
		Email:        input.Email,
		Phone:        input.Phone,
		GSTIN:        strings.ToUpper(input.GSTIN),
		Status:       domain.StatusActive,
		Contacts:     contacts,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return CustomerView{}, err
	}
	s.discardDraftAfterSave(ctx, draftID)
	s.recordChange(ctx, actor, domain.EntityCustomer, created.CustomerID, created.CustomerCode, created.CustomerName, "created", created.Contacts)
	view := toCustomerView(created)
	s.completeIdempotency(ctx, actor.IdempotencyKey, http.StatusCreated, view)
	return view, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, actor Actor, customerID string, input CustomerInput) (CustomerView, error) {
	id, err := parseID("customer id", customerID)
	if err != nil {
		return CustomerView{}, err
	}
	input = trimCustomerInput(input)
	if err := validateCustomerInput(input); err != nil {
		return CustomerView{}, err
	}
	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return CustomerView{}, err
	}
	contacts, draftID, err := s.resolveContacts(ctx, actor, domain.EntityCustomer, &id, input.DraftID, input.Contacts)
	if err != nil {
		return CustomerView{}, err
	}

	existing.CustomerName = input.CustomerName
	existing.ShortName = input.ShortName
	existing.Address = domain.Address{City: input.City, State: input.State, Pincode: input.Pincode}
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.GSTIN = strings.ToUpper(input.GSTIN)
	existing.Contacts = contacts
	existing.UpdatedAt = s.nowFn()
	updated, err := s.customers.Update(ctx, existing)
	if err != nil {
		return CustomerView{}, err
	}
	s.discardDraftAfterSave(ctx, draftID)
	s.recordChange(ctx, actor, domain.EntityCustomer, updated.CustomerID, updated.CustomerCode, updated.CustomerName, "updated", updated.Contacts)
	return toCustomerView(updated), nil
}

func (s *Service) GetCustomer(ctx context.Context, customerID string) (CustomerView, error) {
	id, err := parseID("customer id", customerID)
	if err != nil {
		return CustomerView{}, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return CustomerView{}, err
	}
	return toCustomerView(customer), nil
}

func (s *Service) ListCustomers(ctx context.Context, query ListQuery) (ListResponse[CustomerView], error) {
	params := s.listParams(query)
	if params.Status != "" && !domain.IsValidStatus(params.Status) {
		return ListResponse[CustomerView]{}, fmt.Errorf("%w: unsupported status filter", domain.ErrInvalidInput)
	}
	rows, total, err := s.customers.List(ctx, params)
	if err != nil {
		return ListResponse[CustomerView]{}, err
	}
	items := make([]CustomerView, 0, len(rows))
	for _, row := range rows {
		items = append(items, toCustomerView(row))
	}
	return ListResponse[CustomerView]{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *Service) SetCustomerStatus(ctx context.Context, actor Actor, customerID string, input StatusInput) (CustomerView, error) {
	id, err := parseID("customer id", customerID)
	if err != nil {
		return CustomerView{}, err
	}
	status := strings.TrimSpace(input.Status)
	if !domain.IsValidStatus(status) {
		return CustomerView{}, &domain.ValidationError{Field: "status", Message: "status must be Active or Inactive"}
	}
	updated, err := s.customers.UpdateStatus(ctx, id, status, s.nowFn())
	if err != nil {
		return CustomerView{}, err
	}
	s.recordChange(ctx, actor, domain.EntityCustomer, updated.CustomerID, updated.CustomerCode, updated.CustomerName, statusAction(status), updated.Contacts)
	return toCustomerView(updated), nil
}

func trimCustomerInput(in CustomerInput) CustomerInput {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.ShortName = strings.TrimSpace(in.ShortName)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.GSTIN = strings.TrimSpace(in.GSTIN)
	return in
}

func validateCustomerInput(in CustomerInput) error {
	return errors.Join(
		domain.ValidatePartyName("customerName", in.CustomerName),
		domain.ValidateOptionalEmail("email", in.Email),
	)
}

func statusAction(status string) string {
	if status == domain.StatusActive {
		return "activated"
	}
	return "deactivated"
}

func toCustomerView(c domain.Customer) CustomerView {
	return CustomerView{
		ID:           c.CustomerID.String(),
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
		Contacts:     contactsOrEmpty(c.Contacts),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
