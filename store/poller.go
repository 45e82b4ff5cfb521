package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/service"
)

const (
	// DefaultPollInterval is the delay between status fetches.
	DefaultPollInterval = 2 * time.Second
	// DefaultPollMaxAttempts bounds how many status fetches a poll makes
	// before giving up.
	DefaultPollMaxAttempts = 60
)

// ProcessingFailedError reports that the backend marked a document failed.
type ProcessingFailedError struct {
	DocumentID string
	Message    string
}

func (e *ProcessingFailedError) Error() string {
	return fmt.Sprintf("document %s processing failed: %s", e.DocumentID, e.Message)
}

// PollTimeoutError reports that polling exhausted its attempt budget
// without the document reaching a terminal state. It is deliberately a
// distinct type from ProcessingFailedError so callers can tell "gave up
// waiting" apart from "the backend failed".
type PollTimeoutError struct {
	DocumentID string
	Attempts   int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("status polling for document %s timed out after %d attempts", e.DocumentID, e.Attempts)
}

// statusFetcher is the slice of AnalysisService the poller needs.
type statusFetcher func(ctx context.Context, id string) (*service.DocumentStatus, error)

// PollCallback is invoked after every successful status fetch, terminal
// ticks included.
type PollCallback func(status *service.DocumentStatus)

// Poller drives the status of one document to a terminal state. Each run
// fetches the status, reports it through the callback, and reschedules
// itself until the document completes, fails, the attempt budget runs out,
// or Stop is called. A fetch error consumes an attempt but does not abort
// the poll; transient backend hiccups mid-processing are expected.
type Poller struct {
	documentID  string
	fetch       statusFetcher
	interval    time.Duration
	maxAttempts int
	callback    PollCallback

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result *service.DocumentStatus
	err    error
}

func newPoller(documentID string, fetch statusFetcher, interval time.Duration, maxAttempts int, callback PollCallback) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	return &Poller{
		documentID:  documentID,
		fetch:       fetch,
		interval:    interval,
		maxAttempts: maxAttempts,
		callback:    callback,
		done:        make(chan struct{}),
	}
}

func (p *Poller) start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	attempts := 0
	for {
		status, err := p.fetch(ctx, p.documentID)
		attempts++

		if err != nil {
			if ctx.Err() != nil {
				p.finish(nil, ctx.Err())
				return
			}
		} else {
			if p.callback != nil {
				p.callback(status)
			}
			switch status.Status {
			case models.StatusCompleted:
				p.finish(status, nil)
				return
			case models.StatusFailed:
				message := status.ErrorMessage
				if message == "" {
					message = "Document processing failed"
				}
				p.finish(status, &ProcessingFailedError{DocumentID: p.documentID, Message: message})
				return
			}
		}

		if attempts >= p.maxAttempts {
			p.finish(nil, &PollTimeoutError{DocumentID: p.documentID, Attempts: attempts})
			return
		}

		select {
		case <-ctx.Done():
			p.finish(nil, ctx.Err())
			return
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) finish(status *service.DocumentStatus, err error) {
	p.mu.Lock()
	p.result = status
	p.err = err
	p.mu.Unlock()
}

// DocumentID returns the document this poller watches.
func (p *Poller) DocumentID() string {
	return p.documentID
}

// Stop cancels the poll. Safe to call more than once and after the poll
// has already finished.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

// Wait blocks until the poll finishes and returns its outcome. A nil error
// means the document completed; the error is a *ProcessingFailedError,
// *PollTimeoutError, or context error otherwise.
func (p *Poller) Wait() (*service.DocumentStatus, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.err
}

// Done returns a channel closed when the poll finishes.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
