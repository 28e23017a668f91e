package render

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/platform/httpx"
	"github.com/billmitra/billmitra/internal/template"
)

const previewWidth = 595.0

// TemplateSource fetches templates for preview rendering.
type TemplateSource interface {
	Get(ctx context.Context, id string) (template.InvoiceTemplate, error)
}

// DocumentSource fetches documents for preview rendering.
type DocumentSource interface {
	Get(ctx context.Context, id string) (*billing.InvoiceDocument, error)
}

// Handler serves template previews: the resolved visual tree as JSON for
// structured consumers, or an SVG document for direct display. Without a
// document_id parameter it previews against the sample fixture, which is
// what the template editor shows while no real document exists yet.
type Handler struct {
	logger    *slog.Logger
	templates TemplateSource
	documents DocumentSource
}

func NewHandler(logger *slog.Logger, templates TemplateSource, documents DocumentSource) *Handler {
	return &Handler{logger: logger, templates: templates, documents: documents}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/templates/{id}/preview", h.Preview)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tpl, err := h.templates.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "load template", err)
		return
	}

	doc := SampleDocument()
	if documentID := r.URL.Query().Get("document_id"); documentID != "" {
		loaded, err := h.documents.Get(ctx, documentID)
		if err != nil {
			h.respondError(w, "load document", err)
			return
		}
		doc = *loaded
	}

	tree := Render(tpl, doc)
	if r.URL.Query().Get("format") == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(RenderSVG(tree, previewWidth)))
		return
	}
	httpx.JSON(w, http.StatusOK, tree)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, template.ErrTemplateNotFound), errors.Is(err, billing.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
