package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListCompanies(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_companies", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListBranches(r.Context(), pathName(r, "company"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_branches", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListDepartments(r.Context(), r.URL.Query().Get("company"), pathName(r, "branch"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_departments", err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// pathName decodes a lookup name segment. chi hands back the escaped form
// when the name contains a reserved character.
func pathName(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
