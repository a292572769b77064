package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/biafin/bia/internal/extract"
	"github.com/biafin/bia/internal/profile"
	"github.com/biafin/bia/internal/storage"
	"github.com/biafin/bia/internal/validate"
)

// JobType is the queue type for import jobs.
const JobType = "import_extract"

// JobStore abstracts the job queue operations.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
}

// Stager receives the validated field set for user confirmation. Imported
// data is never written to the profile directly; it goes through the same
// confirmation gate as conversational input.
type Stager interface {
	StageFields(fields profile.FieldSet) string
}

// Payload describes one import source. Exactly one of Path, URL or Text is
// set, selected by Kind.
type Payload struct {
	Kind string `json:"kind"` // "pdf", "url" or "text"
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// NewJob builds a queued import job for the given payload.
func NewJob(p Payload) (storage.Job, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return storage.Job{}, fmt.Errorf("encoding payload: %w", err)
	}
	return storage.Job{
		ID:          uuid.NewString(),
		Type:        JobType,
		PayloadJSON: string(data),
	}, nil
}

// Worker processes import jobs from the SQLite job queue: extract the
// source text, detect profile fields, validate them, and stage them for
// confirmation.
type Worker struct {
	store      JobStore
	stager     Stager
	extractor  *extract.Extractor
	validator  *validate.Validator
	httpClient *http.Client
	poll       time.Duration
	logger     *slog.Logger
}

// NewWorker creates a Worker. If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store JobStore, stager Stager, limits validate.Limits, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:      store,
		stager:     stager,
		extractor:  extract.NewExtractor(),
		validator:  validate.New(limits),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		poll:       pollInterval,
		logger:     slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single import job. Returns true if a job
// was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("import job failed", "job_id", job.ID, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) error {
	var payload Payload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	text, err := w.sourceText(ctx, payload)
	if err != nil {
		return err
	}

	fields := w.extractor.Detect(text)
	if fields.Empty() {
		w.logger.Info("import found no profile fields", "job_id", job.ID, "kind", payload.Kind)
		return nil
	}

	if err := w.validator.Check(fields, text); err != nil {
		return fmt.Errorf("validating imported fields: %w", err)
	}

	w.stager.StageFields(fields)
	w.logger.Info("import staged fields for confirmation", "job_id", job.ID, "kind", payload.Kind)
	return nil
}

func (w *Worker) sourceText(ctx context.Context, p Payload) (string, error) {
	switch p.Kind {
	case "pdf":
		return TextFromPDF(p.Path)
	case "url":
		return fetchURLText(ctx, w.httpClient, p.URL)
	case "text":
		return p.Text, nil
	default:
		return "", fmt.Errorf("unknown import kind %q", p.Kind)
	}
}
