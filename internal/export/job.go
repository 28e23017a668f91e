package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/billmitra/billmitra/internal/jobs"
	"github.com/billmitra/billmitra/internal/render"
	"github.com/billmitra/billmitra/jobs"
)

const (
	// renderWidth is the logical paint width; it matches the A4 point
	// width so an exactly-one-page document embeds at 1:1 scale.
	renderWidth = 595.0
	// supersample sharpens text in the rasterized page.
	supersample = 2.0
)

// JobConfig wires dependencies required by the worker job.
type JobConfig struct {
	Store      Store
	Documents  DocumentSource
	Templates  TemplateSource
	StorageDir string
	Page       PageSize
	Timeout    time.Duration
	Metrics    *jobmetrics.Metrics
	Logger     *slog.Logger
}

// Job processes document export requests coming from the queue.
type Job struct {
	store      Store
	documents  DocumentSource
	templates  TemplateSource
	storageDir string
	page       PageSize
	timeout    time.Duration
	metrics    *jobmetrics.Metrics
	logger     *slog.Logger
}

// NewJob constructs a Job handler.
func NewJob(cfg JobConfig) *Job {
	page := cfg.Page
	if page.Width <= 0 || page.Height <= 0 {
		page = PageA4
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Job{
		store:      cfg.Store,
		documents:  cfg.Documents,
		templates:  cfg.Templates,
		storageDir: cfg.StorageDir,
		page:       page,
		timeout:    timeout,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *Job) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.store == nil || j.documents == nil || j.templates == nil {
		return fmt.Errorf("export job not configured")
	}
	tracker := j.metrics.Track(jobs.TaskTypeDocumentExport)

	var payload jobs.DocumentExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	if payload.ExportID == "" {
		return tracker.End(asynq.SkipRetry)
	}

	exp, err := j.store.Get(ctx, payload.ExportID)
	if err != nil {
		if errors.Is(err, ErrExportNotFound) {
			return tracker.End(asynq.SkipRetry)
		}
		return tracker.End(err)
	}
	if exp.Status == StatusReady {
		return tracker.End(nil)
	}
	if err := j.store.MarkInProgress(ctx, exp.ID); err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			current, loadErr := j.store.Get(ctx, exp.ID)
			if loadErr == nil && (current.Status == StatusInProgress || current.Status == StatusReady) {
				return tracker.End(nil)
			}
		}
		return tracker.End(err)
	}

	pdf, err := j.generate(ctx, exp)
	if err != nil {
		_ = j.store.MarkFailed(ctx, exp.ID, err.Error())
		return tracker.End(err)
	}
	path, err := j.save(exp.ID, pdf)
	if err != nil {
		_ = j.store.MarkFailed(ctx, exp.ID, err.Error())
		return tracker.End(err)
	}
	if err := j.store.MarkReady(ctx, exp.ID, path, int64(len(pdf)), time.Now().UTC()); err != nil {
		return tracker.End(err)
	}
	if j.logger != nil {
		j.logger.Info("export ready",
			slog.String("export_id", exp.ID),
			slog.String("document_id", exp.DocumentID),
			slog.String("file", path))
	}
	return tracker.End(nil)
}

// generate runs the render, rasterize, and compose stages under one
// deadline. A timeout anywhere aborts the whole export with no artefact.
func (j *Job) generate(ctx context.Context, exp Export) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	doc, err := j.documents.Get(ctx, exp.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("%w: load document: %v", ErrExportFailed, err)
	}
	tpl, err := j.templates.Get(ctx, exp.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%w: load template: %v", ErrExportFailed, err)
	}

	tree := render.Render(tpl, *doc)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	img := render.Rasterize(tree, renderWidth, supersample)
	return ComposePDF(ctx, img, j.page)
}

func (j *Job) save(id string, pdf []byte) (string, error) {
	dir := j.storageDir
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "billmitra-exports")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("export-%s.pdf", id))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
