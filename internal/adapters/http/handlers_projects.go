package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/application"
)

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListProjects(r.Context(), listQueryFromRequest(r))
	if err != nil {
		writeMappedError(r.Context(), w, "list_projects", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req application.ProjectInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "create_project", err)
		return
	}
	resp, err := h.service.CreateProject(r.Context(), actorFromRequest(r), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_project", err)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_project", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	var req application.ProjectInput
	if err := decodeBody(r, &req); err != nil {
		writeInvalidBody(r.Context(), w, "update_project", err)
		return
	}
	resp, err := h.service.UpdateProject(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_project", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DashboardSummary(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "dashboard_summary", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RecentActivity(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeMappedError(r.Context(), w, "recent_activity", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) primaryContact(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetPrimaryContact(r.Context(), chi.URLParam(r, "entity_type"), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "primary_contact", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
