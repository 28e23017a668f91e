package template

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)

			r.Post("/sections", h.AddSection)
			r.Route("/sections/{sectionID}", func(r chi.Router) {
				r.Put("/", h.UpdateSection)
				r.Delete("/", h.RemoveSection)
				r.Post("/move", h.MoveSection)
			})

			r.Post("/columns", h.AddColumn)
			r.Route("/columns/{columnID}", func(r chi.Router) {
				r.Put("/", h.UpdateColumn)
				r.Delete("/", h.RemoveColumn)
				r.Post("/move", h.MoveColumn)
			})
		})
	})
}
