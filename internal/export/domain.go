// Package export turns a rendered document into a downloadable single-page
// PDF. Requests run through the queue: an export row tracks the lifecycle
// (pending, in progress, ready, failed) and the worker writes the artefact
// to disk only when composition fully succeeds.
package export

import (
	"errors"
	"time"
)

// Status is the export lifecycle state machine.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusFailed     Status = "FAILED"
)

var (
	ErrExportNotFound = errors.New("export not found")
	ErrInvalidStatus  = errors.New("export status transition not allowed")
	// ErrExportFailed wraps rasterization, composition, and timeout
	// failures. The export row carries the message; no partial file is
	// ever left behind.
	ErrExportFailed = errors.New("export failed")
)

// Export is one PDF generation request for a document+template pair.
type Export struct {
	ID           string     `json:"id"`
	DocumentID   string     `json:"document_id"`
	TemplateID   string     `json:"template_id"`
	Status       Status     `json:"status"`
	FilePath     string     `json:"file_path,omitempty"`
	FileSize     *int64     `json:"file_size,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	GeneratedAt  *time.Time `json:"generated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
