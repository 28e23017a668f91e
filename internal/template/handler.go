package template

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/billmitra/billmitra/internal/platform/httpx"
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.List(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		h.respondError(w, "list templates", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tpl, err := h.service.Create(r.Context(), req.Name, req.OwnerID)
	if err != nil {
		h.respondError(w, "create template", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get template", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTemplateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tpl, err := h.service.UpdateMeta(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, "update template", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.AddSection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "add section", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var patch SectionPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	tpl, err := h.service.UpdateSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), patch)
	if err != nil {
		h.respondError(w, "update section", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.RemoveSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"))
	if err != nil {
		h.respondError(w, "remove section", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) MoveSection(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tpl, err := h.service.MoveSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionID"), req.Direction)
	if err != nil {
		h.respondError(w, "move section", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) AddColumn(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.AddColumn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "add column", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	var patch ColumnPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tpl, err := h.service.UpdateColumn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "columnID"), patch)
	if err != nil {
		h.respondError(w, "update column", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) RemoveColumn(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.RemoveColumn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "columnID"))
	if err != nil {
		h.respondError(w, "remove column", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) MoveColumn(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	tpl, err := h.service.MoveColumn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "columnID"), req.Direction)
	if err != nil {
		h.respondError(w, "move column", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tpl)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrSectionNotFound), errors.Is(err, ErrColumnNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidTemplate), errors.Is(err, ErrNoLineItemsSection):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrDefaultTemplate):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
