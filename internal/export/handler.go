package export

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/platform/httpx"
	"github.com/billmitra/billmitra/internal/template"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// Request accepts an export request for a document. The template may be
// supplied in the body; when omitted the caller's default template id must
// be resolved upstream.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string `json:"template_id" validate:"required,uuid4|uuid"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	exp, err := h.service.Request(r.Context(), chi.URLParam(r, "id"), req.TemplateID)
	if err != nil {
		h.respondError(w, "request export", err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, exp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	exp, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get export", err)
		return
	}
	httpx.JSON(w, http.StatusOK, exp)
}

func (h *Handler) ListForDocument(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	exports, err := h.service.ListForDocument(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.respondError(w, "list exports", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"exports": exports})
}

// Download streams the finished PDF. Anything but a ready export is a 404:
// the artefact does not exist yet (or never will).
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	exp, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "download export", err)
		return
	}
	if exp.Status != StatusReady || exp.FilePath == "" {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "export is not ready")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exp.ID+`.pdf"`)
	http.ServeFile(w, r, exp.FilePath)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrExportNotFound), errors.Is(err, billing.ErrNotFound), errors.Is(err, template.ErrTemplateNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrExportFailed):
		httpx.Problem(w, http.StatusBadGateway, "Export Failed", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
