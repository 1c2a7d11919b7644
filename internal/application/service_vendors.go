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

func (s *Service) CreateVendor(ctx context.Context, actor Actor, input VendorInput) (VendorView, error) {
	input = trimVendorInput(input)
	if err := validateVendorInput(input); err != nil {
		return VendorView{}, err
	}
	var cached VendorView
	if ok, err := s.replayIdempotent(ctx, actor.IdempotencyKey, input, &cached); err != nil {
		return VendorView{}, err
	} else if ok {
		return cached, nil
	}
	contacts, draftID, err := s.resolveContacts(ctx, actor, domain.EntityVendor, nil, input.DraftID, input.Contacts)
	if err != nil {
		return VendorView{}, err
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, input); err != nil {
		return VendorView{}, err
	}

	now := s.nowFn()
	id := uuid.New()
	created, err := s.vendors.Create(ctx, domain.Vendor{
		VendorID:   id,
		VendorCode: newEntityCode("VEN", id),
		VendorName: input.VendorName,
		ShortName:  input.ShortName,
		Address:    domain.Address{City: input.City, State: input.State, Pincode: input.Pincode},
		Email:      input.Email,
		Phone:      input.Phone,
		GSTIN:      strings.ToUpper(input.GSTIN),
		MSME:       input.MSME,
		Status:     domain.StatusActive,
		Contacts:   contacts,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		s.releaseIdempotency(ctx, actor.IdempotencyKey)
		return VendorView{}, err
	}
	s.discardDraftAfterSave(ctx, draftID)
	s.recordChange(ctx, actor, domain.EntityVendor, created.VendorID, created.VendorCode, created.VendorName, "created", created.Contacts)
	view := toVendorView(created)
	s.completeIdempotency(ctx, actor.IdempotencyKey, http.StatusCreated, view)
	return view, nil
}

func (s *Service) UpdateVendor(ctx context.Context, actor Actor, vendorID string, input VendorInput) (VendorView, error) {
	id, err := parseID("vendor id", vendorID)
	if err != nil {
		return VendorView{}, err
	}
	input = trimVendorInput(input)
	if err := validateVendorInput(input); err != nil {
		return VendorView{}, err
	}
	existing, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return VendorView{}, err
	}
	contacts, draftID, err := s.resolveContacts(ctx, actor, domain.EntityVendor, &id, input.DraftID, input.Contacts)
	if err != nil {
		return VendorView{}, err
	}

	existing.VendorName = input.VendorName
	existing.ShortName = input.ShortName
	existing.Address = domain.Address{City: input.City, State: input.State, Pincode: input.Pincode}
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.GSTIN = strings.ToUpper(input.GSTIN)
	existing.MSME = input.MSME
	existing.Contacts = contacts
	existing.UpdatedAt = s.nowFn()
	updated, err := s.vendors.Update(ctx, existing)
	if err != nil {
		return VendorView{}, err
	}
	s.discardDraftAfterSave(ctx, draftID)
	s.recordChange(ctx, actor, domain.EntityVendor, updated.VendorID, updated.VendorCode, updated.VendorName, "updated", updated.Contacts)
	return toVendorView(updated), nil
}

func (s *Service) GetVendor(ctx context.Context, vendorID string) (VendorView, error) {
	id, err := parseID("vendor id", vendorID)
	if err != nil {
		return VendorView{}, err
	}
	vendor, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return VendorView{}, err
	}
	return toVendorView(vendor), nil
}

func (s *Service) ListVendors(ctx context.Context, query ListQuery) (ListResponse[VendorView], error) {
	params := s.listParams(query)
	if params.Status != "" && !domain.IsValidStatus(params.Status) {
		return ListResponse[VendorView]{}, fmt.Errorf("%w: unsupported status filter", domain.ErrInvalidInput)
	}
	rows, total, err := s.vendors.List(ctx, params)
	if err != nil {
		return ListResponse[VendorView]{}, err
	}
	items := make([]VendorView, 0, len(rows))
	for _, row := range rows {
		items = append(items, toVendorView(row))
	}
	return ListResponse[VendorView]{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *Service) SetVendorStatus(ctx context.Context, actor Actor, vendorID string, input StatusInput) (VendorView, error) {
	id, err := parseID("vendor id", vendorID)
	if err != nil {
		return VendorView{}, err
	}
	status := strings.TrimSpace(input.Status)
	if !domain.IsValidStatus(status) {
		return VendorView{}, &domain.ValidationError{Field: "status", Message: "status must be Active or Inactive"}
	}
	updated, err := s.vendors.UpdateStatus(ctx, id, status, s.nowFn())
	if err != nil {
		return VendorView{}, err
	}
	s.recordChange(ctx, actor, domain.EntityVendor, updated.VendorID, updated.VendorCode, updated.VendorName, statusAction(status), updated.Contacts)
	return toVendorView(updated), nil
}

func trimVendorInput(in VendorInput) VendorInput {
	in.VendorName = strings.TrimSpace(in.VendorName)
	in.ShortName = strings.TrimSpace(in.ShortName)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.GSTIN = strings.TrimSpace(in.GSTIN)
	return in
}

func validateVendorInput(in VendorInput) error {
	return errors.Join(
		domain.ValidatePartyName("vendorName", in.VendorName),
		domain.ValidateOptionalEmail("email", in.Email),
	)
}

func toVendorView(v domain.Vendor) VendorView {
	return VendorView{
		ID:         v.VendorID.String(),
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
		Contacts:   contactsOrEmpty(v.Contacts),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}
