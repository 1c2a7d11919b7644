package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListCustomers(r.Context(), listQueryFromRequest(r))
	if err != nil {
		writeMappedError(r.Context(), w, "list_customers", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req application.CustomerInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "create_customer", err)
		return
	}
	resp, err := h.service.CreateCustomer(r.Context(), actorFromRequest(r), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_customer", err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_customer", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req application.CustomerInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "update_customer", err)
		return
	}
	resp, err := h.service.UpdateCustomer(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_customer", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) setCustomerStatus(w http.ResponseWriter, r *http.Request) {
	var req application.StatusInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "set_customer_status", err)
		return
	}
	resp, err := h.service.SetCustomerStatus(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "set_customer_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListVendors(r.Context(), listQueryFromRequest(r))
	if err != nil {
		writeMappedError(r.Context(), w, "list_vendors", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req application.VendorInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "create_vendor", err)
		return
	}
	resp, err := h.service.CreateVendor(r.Context(), actorFromRequest(r), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_vendor", err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetVendor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_vendor", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	var req application.VendorInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "update_vendor", err)
		return
	}
	resp, err := h.service.UpdateVendor(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_vendor", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) setVendorStatus(w http.ResponseWriter, r *http.Request) {
	var req application.StatusInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "set_vendor_status", err)
		return
	}
	resp, err := h.service.SetVendorStatus(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "set_vendor_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
