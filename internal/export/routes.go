package export

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the export endpoints. The request endpoint hangs
// off the document resource; status and download hang off the export.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/documents/{id}/exports", func(r chi.Router) {
		r.Post("/", h.Request)
		r.Get("/", h.ListForDocument)
	})
	r.Route("/exports", func(r chi.Router) {
		r.Get("/{id}", h.Get)
		r.Get("/{id}/download", h.Download)
	})
}
