// Package jobs defines the queue task contracts shared by the API process
// (which enqueues) and the worker process (which handles).
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDocumentExport is the task type for PDF export generation.
	TaskTypeDocumentExport = "export:document"
)

// DocumentExportPayload identifies the export row the worker should fulfil.
type DocumentExportPayload struct {
	ExportID string `json:"export_id"`
}

// NewDocumentExportTask constructs an Asynq task for one export request.
func NewDocumentExportTask(payload DocumentExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDocumentExport, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueDocumentExport enqueues a document export task.
func (c *Client) EnqueueDocumentExport(ctx context.Context, exportID string) error {
	task, err := NewDocumentExportTask(DocumentExportPayload{ExportID: exportID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
