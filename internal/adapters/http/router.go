package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(loggerMiddleware(handler.logger))
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", handler.readiness)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})
	r.Get("/swagger/", handler.swaggerUI)
	r.Get("/swagger/openapi.yaml", handler.swaggerSpec)

	r.Route("/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", handler.listCustomers)
			r.Post("/", handler.createCustomer)
			r.Get("/{id}", handler.getCustomer)
			r.Put("/{id}", handler.updateCustomer)
			r.Patch("/{id}/status", handler.setCustomerStatus)
		})
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", handler.listVendors)
			r.Post("/", handler.createVendor)
			r.Get("/{id}", handler.getVendor)
			r.Put("/{id}", handler.updateVendor)
			r.Patch("/{id}/status", handler.setVendorStatus)
		})
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handler.listProjects)
			r.Post("/", handler.createProject)
			r.Get("/{id}", handler.getProject)
			r.Put("/{id}", handler.updateProject)
		})
		r.Get("/contacts/{entity_type}/{id}/primary", handler.primaryContact)

		r.Route("/contact-drafts", func(r chi.Router) {
			r.Post("/", handler.openContactDraft)
			r.Route("/{draft_id}", func(r chi.Router) {
				r.Get("/", handler.getContactDraft)
				r.Delete("/", handler.discardContactDraft)
				r.Post("/add", handler.beginAddContact)
				r.Post("/edit/{position}", handler.beginEditContact)
				r.Post("/cancel", handler.cancelContactForm)
				r.Post("/submit", handler.submitContact)
				r.Delete("/contacts/{position}", handler.removeContact)
			})
		})

		r.Route("/meta", func(r chi.Router) {
			r.Get("/companies", handler.listCompanies)
			r.Get("/branches/{company}", handler.listBranches)
			r.Get("/departments/{branch}", handler.listDepartments)
		})

		r.Get("/dashboard", handler.dashboard)
		r.Get("/audit", handler.recentActivity)
	})
	return r
}
