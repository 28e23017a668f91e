package template

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrDefaultTemplate guards the seeded layout: it can be cloned and read
// but never edited or deleted.
var ErrDefaultTemplate = errors.New("default template is read-only")

// Store is the persistence surface the service depends on.
type Store interface {
	Get(ctx context.Context, id string) (InvoiceTemplate, error)
	List(ctx context.Context, ownerID string) ([]InvoiceTemplate, error)
	Insert(ctx context.Context, tpl InvoiceTemplate) error
	Update(ctx context.Context, tpl InvoiceTemplate) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error
}

// Service owns template lifecycle and editing. Edits go through the pure
// operations: load the current value, apply, validate, store the result.
// Reads are cached in Redis; every write invalidates.
type Service struct {
	store    Store
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
	loads    singleflight.Group
}

func NewService(store Store, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		cacheTTL: 10 * time.Minute,
		logger:   logger,
	}
}

func cacheKey(id string) string {
	return "template:" + id
}

// Get returns a template, serving from cache when possible. The built-in
// default is synthesized when the seed row is missing so rendering always
// has a layout to fall back on.
func (s *Service) Get(ctx context.Context, id string) (InvoiceTemplate, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey(id)).Bytes(); err == nil {
			var tpl InvoiceTemplate
			if err := json.Unmarshal(data, &tpl); err == nil {
				return tpl, nil
			}
		}
	}

	// Collapse concurrent cache misses for the same template into one
	// store read.
	result, err, _ := s.loads.Do(id, func() (any, error) {
		tpl, err := s.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrTemplateNotFound) && id == DefaultTemplate().ID {
				return DefaultTemplate(), nil
			}
			return nil, err
		}
		s.cacheSet(ctx, tpl)
		return tpl, nil
	})
	if err != nil {
		return InvoiceTemplate{}, err
	}
	return result.(InvoiceTemplate), nil
}

// List returns public templates plus the owner's own.
func (s *Service) List(ctx context.Context, ownerID string) ([]InvoiceTemplate, error) {
	return s.store.List(ctx, ownerID)
}

// Create clones the default layout into a new user-owned template.
func (s *Service) Create(ctx context.Context, name, ownerID string) (InvoiceTemplate, error) {
	tpl := NewUserTemplate(name, ownerID)
	if err := Validate(tpl); err != nil {
		return InvoiceTemplate{}, err
	}
	if err := s.store.Insert(ctx, tpl); err != nil {
		return InvoiceTemplate{}, err
	}
	return tpl, nil
}

// UpdateMeta changes the template's name, description, visibility, or
// style without touching sections.
func (s *Service) UpdateMeta(ctx context.Context, id string, req UpdateTemplateRequest) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		out := t.Clone()
		if req.Name != nil {
			out.Name = *req.Name
		}
		if req.Description != nil {
			out.Description = *req.Description
		}
		if req.IsPublic != nil {
			out.IsPublic = *req.IsPublic
		}
		if req.Style != nil {
			out.Style = *req.Style
		}
		return out, nil
	})
}

// Delete removes a user template.
func (s *Service) Delete(ctx context.Context, id string) error {
	tpl, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if tpl.IsDefault {
		return ErrDefaultTemplate
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cacheDel(ctx, id)
	return nil
}

// RecordUsage bumps the usage counter; exports call this once per request.
func (s *Service) RecordUsage(ctx context.Context, id string) error {
	if err := s.store.IncrementUsage(ctx, id); err != nil {
		return err
	}
	s.cacheDel(ctx, id)
	return nil
}

// AddSection appends a fresh section to the end of the layout.
func (s *Service) AddSection(ctx context.Context, id string) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return AddSection(t), nil
	})
}

// UpdateSection merges a patch into one section.
func (s *Service) UpdateSection(ctx context.Context, id, sectionID string, patch SectionPatch) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return UpdateSection(t, sectionID, patch)
	})
}

// RemoveSection deletes a section and renormalizes positions.
func (s *Service) RemoveSection(ctx context.Context, id, sectionID string) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return RemoveSection(t, sectionID)
	})
}

// MoveSection swaps a section with its neighbour.
func (s *Service) MoveSection(ctx context.Context, id, sectionID string, dir Direction) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return MoveSection(t, sectionID, dir)
	})
}

// AddColumn appends a column to the line items table.
func (s *Service) AddColumn(ctx context.Context, id string) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return AddColumn(t)
	})
}

// UpdateColumn merges a patch into one column.
func (s *Service) UpdateColumn(ctx context.Context, id, columnID string, patch ColumnPatch) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return UpdateColumn(t, columnID, patch)
	})
}

// RemoveColumn deletes a column from the line items table.
func (s *Service) RemoveColumn(ctx context.Context, id, columnID string) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return RemoveColumn(t, columnID)
	})
}

// MoveColumn swaps a column with its neighbour.
func (s *Service) MoveColumn(ctx context.Context, id, columnID string, dir Direction) (InvoiceTemplate, error) {
	return s.mutate(ctx, id, func(t InvoiceTemplate) (InvoiceTemplate, error) {
		return MoveColumn(t, columnID, dir)
	})
}

// mutate loads the current value, applies a pure operation, validates the
// result, and stores it. The cache entry is dropped on success.
func (s *Service) mutate(ctx context.Context, id string, op func(InvoiceTemplate) (InvoiceTemplate, error)) (InvoiceTemplate, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return InvoiceTemplate{}, err
	}
	if current.IsDefault {
		return InvoiceTemplate{}, ErrDefaultTemplate
	}

	next, err := op(current)
	if err != nil {
		return InvoiceTemplate{}, err
	}
	if err := Validate(next); err != nil {
		return InvoiceTemplate{}, err
	}
	if err := s.store.Update(ctx, next); err != nil {
		return InvoiceTemplate{}, err
	}
	s.cacheDel(ctx, id)
	return next, nil
}

func (s *Service) cacheSet(ctx context.Context, tpl InvoiceTemplate) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(tpl)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(tpl.ID), data, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("template cache set", slog.Any("error", err))
	}
}

func (s *Service) cacheDel(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("template cache invalidate", slog.Any("error", err))
	}
}
