package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
)

func positionParam(r *http.Request) (int, error) {
	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		return 0, fmt.Errorf("%w: position must be an integer", domain.ErrInvalidInput)
	}
	return pos, nil
}

func (h *Handler) openContactDraft(w http.ResponseWriter, r *http.Request) {
	var req application.OpenDraftInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "open_contact_draft", err)
		return
	}
	resp, err := h.service.OpenContactDraft(r.Context(), actorFromRequest(r), req)
	if err != nil {
		writeMappedError(r.Context(), w, "open_contact_draft", err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getContactDraft(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetContactDraft(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_contact_draft", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) discardContactDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DiscardContactDraft(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id")); err != nil {
		writeMappedError(r.Context(), w, "discard_contact_draft", err)
		return
	}
	writeMessage(w, http.StatusOK, "draft discarded")
}

func (h *Handler) beginAddContact(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.BeginAddContact(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "begin_add_contact", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) beginEditContact(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "begin_edit_contact", err)
		return
	}
	resp, err := h.service.BeginEditContact(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id"), pos)
	if err != nil {
		writeMappedError(r.Context(), w, "begin_edit_contact", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) cancelContactForm(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CancelContactForm(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "cancel_contact_form", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	var req domain.Contact
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "submit_contact", err)
		return
	}
	resp, err := h.service.SubmitContact(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_contact", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// removeContact expects ?confirm=true once the user has accepted the
// removal prompt; anything else is treated as declined.
func (h *Handler) removeContact(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "remove_contact", err)
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	resp, err := h.service.RemoveContact(r.Context(), actorFromRequest(r), chi.URLParam(r, "draft_id"), pos, confirmed)
	if err != nil {
		writeMappedError(r.Context(), w, "remove_contact", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
