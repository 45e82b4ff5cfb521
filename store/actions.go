package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/service"
	"github.com/Saatvik07/legallens/transport"
)

// ErrDocumentNotFound is returned by actions that reference a document id
// the store does not know.
var ErrDocumentNotFound = errors.New("document not found")

// UploadFile is one candidate file for a batch upload.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadResult reports the outcome of a batch upload. Skipped files never
// reached the network.
type UploadResult struct {
	Accepted []models.Document `json:"accepted"`
	Skipped  []string          `json:"skipped,omitempty"`
}

// Orchestrator runs the console's user-facing actions. Every action follows
// the same three phases: begin (loading on, prior error cleared), the
// adapter call, then commit on success or a recorded failure message on
// error, with loading cleared either way. A failed action leaves all entity
// state exactly as it was.
type Orchestrator struct {
	store  *Store
	svc    service.AnalysisService
	logger logger.Logger

	pollInterval    time.Duration
	pollMaxAttempts int

	mu       sync.Mutex
	watchers map[string]*Poller
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPollInterval overrides the delay between status poll fetches.
func WithPollInterval(interval time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = interval
	}
}

// WithPollMaxAttempts overrides the status poll attempt budget.
func WithPollMaxAttempts(attempts int) Option {
	return func(o *Orchestrator) {
		o.pollMaxAttempts = attempts
	}
}

// NewOrchestrator wires the store to an analysis service adapter.
func NewOrchestrator(store *Store, svc service.AnalysisService, log logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:           store,
		svc:             svc,
		logger:          log.Named("actions"),
		pollInterval:    DefaultPollInterval,
		pollMaxAttempts: DefaultPollMaxAttempts,
		watchers:        make(map[string]*Poller),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store exposes the underlying state container.
func (o *Orchestrator) Store() *Store {
	return o.store
}

// CheckHealth probes the analysis service.
func (o *Orchestrator) CheckHealth(ctx context.Context) (*service.HealthStatus, error) {
	return o.svc.CheckHealth(ctx)
}

// Upload filters the batch against the acceptance rules, uploads the
// accepted files concurrently, and commits each created document. Files
// with an unsupported type or over the size cap are skipped locally and
// reported back, without failing the batch.
func (o *Orchestrator) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	o.store.Begin()

	result := &UploadResult{}
	accepted := make([]UploadFile, 0, len(files))
	for _, f := range files {
		if !models.AcceptableUpload(f.ContentType, f.Size) {
			o.logger.Warn("skipping unacceptable upload",
				logger.String("filename", f.Filename),
				logger.String("content_type", f.ContentType),
				logger.Int64("size", f.Size),
			)
			result.Skipped = append(result.Skipped, f.Filename)
			continue
		}
		accepted = append(accepted, f)
	}

	if len(accepted) == 0 {
		message := "No files were accepted for upload"
		if len(result.Skipped) == 0 {
			message = "No files provided"
		}
		o.store.Fail(message)
		return result, errors.New(message)
	}

	var mu sync.Mutex
	group, gctx := errgroup.WithContext(ctx)
	for _, f := range accepted {
		f := f
		group.Go(func() error {
			doc, err := o.svc.UploadDocument(gctx, f.Filename, f.Size, f.Content)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Accepted = append(result.Accepted, *doc)
			mu.Unlock()
			return nil
		})
	}
	err := group.Wait()

	for i := range result.Accepted {
		o.store.UpsertDocument(&result.Accepted[i])
	}
	if err != nil {
		o.store.Fail(deriveMessage(err, "Upload failed"))
		return result, err
	}

	o.store.Succeed(fmt.Sprintf("Uploaded %d document(s)", len(result.Accepted)))
	return result, nil
}

// Refresh re-fetches the document list and upserts every entry.
func (o *Orchestrator) Refresh(ctx context.Context, limit int) ([]models.Document, error) {
	o.store.Begin()

	docs, err := o.svc.ListDocuments(ctx, limit)
	if err != nil {
		o.store.Fail(deriveMessage(err, "Failed to load documents"))
		return nil, err
	}

	for _, doc := range docs {
		o.store.UpsertDocument(doc)
	}
	o.store.Succeed(fmt.Sprintf("Loaded %d document(s)", len(docs)))
	return o.store.Documents(), nil
}

// Select makes a document the current one and stops status watchers that
// belong to other documents, so a stale poll can never race the new
// selection's state.
func (o *Orchestrator) Select(id string) error {
	if !o.store.SetCurrent(id) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	o.mu.Lock()
	for watchedID, poller := range o.watchers {
		if watchedID != id {
			poller.Stop()
			delete(o.watchers, watchedID)
		}
	}
	o.mu.Unlock()
	return nil
}

// WatchStatus starts a background status poll for a document. At most one
// watcher runs per document; a second call returns the existing handle.
// Each tick commits the status to the store, and on completion the full
// document record is re-fetched to pick up the fields processing filled in.
func (o *Orchestrator) WatchStatus(ctx context.Context, id string) (*Poller, error) {
	if !o.store.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.watchers[id]; ok {
		return existing, nil
	}

	poller := newPoller(id, o.svc.GetDocumentStatus, o.pollInterval, o.pollMaxAttempts, func(status *service.DocumentStatus) {
		o.store.SetStatus(id, status.Status, status.ErrorMessage)
	})
	o.watchers[id] = poller
	poller.start(ctx)

	go func() {
		_, err := poller.Wait()
		o.mu.Lock()
		if o.watchers[id] == poller {
			delete(o.watchers, id)
		}
		o.mu.Unlock()

		switch {
		case err == nil:
			o.logger.Info("document processing completed", logger.String("document_id", id))
			if doc, derr := o.svc.GetDocument(context.Background(), id); derr == nil {
				doc.Status = models.StatusCompleted
				o.store.UpsertDocument(doc)
			}
		case errors.Is(err, context.Canceled):
			o.logger.Debug("status poll cancelled", logger.String("document_id", id))
		default:
			o.logger.Warn("status poll ended without completion",
				logger.String("document_id", id),
				logger.Error(err),
			)
		}
	}()

	return poller, nil
}

// StopWatch cancels the status watcher for a document, if one is running.
func (o *Orchestrator) StopWatch(id string) {
	o.mu.Lock()
	poller, ok := o.watchers[id]
	if ok {
		delete(o.watchers, id)
	}
	o.mu.Unlock()
	if ok {
		poller.Stop()
	}
}

// Summarize fetches a plain-language summary and commits it against the
// document it belongs to.
func (o *Orchestrator) Summarize(ctx context.Context, req service.SummarizeRequest) (*service.SummarizeResult, error) {
	if !o.store.Has(req.DocumentID) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, req.DocumentID)
	}
	o.store.Begin()

	result, err := o.svc.SummarizeDocument(ctx, req)
	if err != nil {
		o.store.Fail(deriveMessage(err, "Failed to summarize document"))
		return nil, err
	}

	o.store.SetSummary(req.DocumentID, result)
	o.store.Succeed("Summary generated")
	return result, nil
}

// ExtractClauses fetches the clause breakdown and replaces the document's
// stored clause set with it.
func (o *Orchestrator) ExtractClauses(ctx context.Context, req service.ClausesRequest) (*service.ClausesResult, error) {
	if !o.store.Has(req.DocumentID) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, req.DocumentID)
	}
	o.store.Begin()

	result, err := o.svc.ExtractClauses(ctx, req)
	if err != nil {
		o.store.Fail(deriveMessage(err, "Failed to extract clauses"))
		return nil, err
	}

	o.store.ReplaceClauses(req.DocumentID, result.Clauses)
	o.store.Succeed(fmt.Sprintf("Extracted %d clause(s)", len(result.Clauses)))
	return result, nil
}

// AskQuestion sends a question and appends the exchange to the Q&A history.
func (o *Orchestrator) AskQuestion(ctx context.Context, req service.AskRequest) (*service.AskResult, error) {
	if !o.store.Has(req.DocumentID) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, req.DocumentID)
	}
	o.store.Begin()

	result, err := o.svc.AskQuestion(ctx, req)
	if err != nil {
		o.store.Fail(deriveMessage(err, "Failed to get an answer"))
		return nil, err
	}

	now := time.Now().UTC()
	o.store.AppendQA(models.QAEntry{
		ID:         fmt.Sprintf("qa_%d", now.UnixNano()),
		DocumentID: req.DocumentID,
		Question:   result.Question,
		Answer:     result.Answer,
		Timestamp:  now,
	})
	o.store.Succeed("Answer received")
	return result, nil
}

// FetchAlerts fetches risk alerts and replaces the document's stored alert
// set with them.
func (o *Orchestrator) FetchAlerts(ctx context.Context, req service.AlertsRequest) (*service.AlertsResult, error) {
	if !o.store.Has(req.DocumentID) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, req.DocumentID)
	}
	o.store.Begin()

	result, err := o.svc.GetAlerts(ctx, req)
	if err != nil {
		o.store.Fail(deriveMessage(err, "Failed to fetch risk alerts"))
		return nil, err
	}

	o.store.ReplaceAlerts(req.DocumentID, result.Alerts, result.RiskSummary)
	o.store.Succeed(fmt.Sprintf("Found %d risk alert(s)", len(result.Alerts)))
	return result, nil
}

// Delete removes a document remotely and locally, stopping its watcher
// first.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	if !o.store.Has(id) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	o.StopWatch(id)
	o.store.Begin()

	if err := o.svc.DeleteDocument(ctx, id); err != nil {
		o.store.Fail(deriveMessage(err, "Failed to delete document"))
		return err
	}

	o.store.RemoveDocument(id)
	o.store.Succeed("Document deleted")
	return nil
}

// deriveMessage picks the most specific user-facing message available:
// the server's detail text, then the category's canned message, then the
// per-action fallback.
func deriveMessage(err error, fallback string) string {
	if terr, ok := transport.AsError(err); ok {
		if terr.Detail != "" {
			return terr.Detail
		}
		return terr.UserMessage()
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
