package store

import (
	"sync"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/service"
)

// AnalysisState holds the latest analysis artifacts for one document.
// Clauses and alerts are replaced wholesale on each fetch, never merged.
type AnalysisState struct {
	Summary     *service.SummarizeResult `json:"summary,omitempty"`
	Clauses     []models.Clause          `json:"clauses,omitempty"`
	Alerts      []models.Alert           `json:"alerts,omitempty"`
	RiskSummary map[string]int           `json:"risk_summary,omitempty"`
}

// Store is the single source of truth for UI-observable state. Analysis
// artifacts are keyed by document id, so a late-completing fetch for one
// document can never overwrite another's slices. All mutation goes through
// typed methods; callers get snapshots, never live references.
type Store struct {
	mu             sync.RWMutex
	documents      []*models.Document
	index          map[string]*models.Document
	currentID      string
	analyses       map[string]*AnalysisState
	qaHistory      []models.QAEntry
	isLoading      bool
	errorMessage   string
	successMessage string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		index:    make(map[string]*models.Document),
		analyses: make(map[string]*AnalysisState),
	}
}

// Begin marks the start of an orchestration action: loading on, previous
// error cleared.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = true
	s.errorMessage = ""
}

// Fail records a failed action outcome. Prior entity state is untouched.
func (s *Store) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorMessage = message
	s.isLoading = false
}

// Succeed records a successful action outcome.
func (s *Store) Succeed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successMessage = message
	s.isLoading = false
}

// UpsertDocument appends a new document or updates an existing one in
// place. Insertion order is preserved for listing.
func (s *Store) UpsertDocument(doc *models.Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.index[doc.ID]; ok {
		*existing = *doc
		return
	}
	stored := *doc
	s.documents = append(s.documents, &stored)
	s.index[doc.ID] = &stored
}

// RemoveDocument deletes a document and its analysis state. If it was the
// current selection, the selection is cleared.
func (s *Store) RemoveDocument(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	delete(s.analyses, id)
	for i, doc := range s.documents {
		if doc.ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			break
		}
	}
	if s.currentID == id {
		s.currentID = ""
	}
	return true
}

// Documents returns a snapshot of all documents in insertion order.
func (s *Store) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]models.Document, len(s.documents))
	for i, doc := range s.documents {
		docs[i] = *doc
	}
	return docs
}

// Document returns a snapshot of one document.
func (s *Store) Document(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.index[id]
	if !ok {
		return models.Document{}, false
	}
	return *doc, true
}

// Has reports whether a document id is known to the store.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// SetCurrent selects a document. Returns false if the id is unknown.
func (s *Store) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return false
	}
	s.currentID = id
	return true
}

// CurrentID returns the currently selected document id, if any.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// SetStatus applies a polled status update. Terminal states are final:
// once a document is completed or failed, further ticks are ignored.
func (s *Store) SetStatus(id string, status models.ProcessingStatus, errorMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.index[id]
	if !ok || doc.Status.Terminal() {
		return
	}
	doc.Status = status
	if errorMessage != "" {
		doc.ErrorMessage = errorMessage
	}
}

// SetSummary commits a summarize result for a document, and mirrors the
// summary text onto the document itself.
func (s *Store) SetSummary(id string, result *service.SummarizeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.analysisLocked(id)
	state.Summary = result
	if doc, ok := s.index[id]; ok && result != nil {
		doc.Summary = result.Summary
	}
}

// ReplaceClauses commits a clause extraction result, superseding any prior
// clause set for the document.
func (s *Store) ReplaceClauses(id string, clauses []models.Clause) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.analysisLocked(id)
	state.Clauses = append([]models.Clause(nil), clauses...)
	if doc, ok := s.index[id]; ok {
		doc.TotalClauses = len(clauses)
	}
}

// ReplaceAlerts commits an alert fetch result, superseding any prior alert
// set for the document.
func (s *Store) ReplaceAlerts(id string, alerts []models.Alert, riskSummary map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.analysisLocked(id)
	state.Alerts = append([]models.Alert(nil), alerts...)
	state.RiskSummary = riskSummary
}

// AppendQA appends one entry to the Q&A history.
func (s *Store) AppendQA(entry models.QAEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qaHistory = append(s.qaHistory, entry)
}

// QAHistory returns a snapshot of the Q&A history, oldest first.
func (s *Store) QAHistory() []models.QAEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.QAEntry(nil), s.qaHistory...)
}

// Analysis returns a snapshot of a document's analysis artifacts.
func (s *Store) Analysis(id string) AnalysisState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.analyses[id]
	if !ok {
		return AnalysisState{}
	}
	snapshot := AnalysisState{
		Clauses: append([]models.Clause(nil), state.Clauses...),
		Alerts:  append([]models.Alert(nil), state.Alerts...),
	}
	if state.Summary != nil {
		summary := *state.Summary
		snapshot.Summary = &summary
	}
	if state.RiskSummary != nil {
		snapshot.RiskSummary = make(map[string]int, len(state.RiskSummary))
		for k, v := range state.RiskSummary {
			snapshot.RiskSummary[k] = v
		}
	}
	return snapshot
}

// IsLoading reports whether an action is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// ErrorMessage returns the last recorded action error, if any.
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorMessage
}

// SuccessMessage returns the last recorded action success, if any.
func (s *Store) SuccessMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.successMessage
}

// Snapshot is a point-in-time view of the store for the UI.
type Snapshot struct {
	Documents      []models.Document `json:"documents"`
	CurrentID      string            `json:"current_document_id,omitempty"`
	QAHistory      []models.QAEntry  `json:"qa_history"`
	IsLoading      bool              `json:"is_loading"`
	ErrorMessage   string            `json:"error,omitempty"`
	SuccessMessage string            `json:"success,omitempty"`
}

// State returns a consistent snapshot of the whole store.
func (s *Store) State() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]models.Document, len(s.documents))
	for i, doc := range s.documents {
		docs[i] = *doc
	}
	return Snapshot{
		Documents:      docs,
		CurrentID:      s.currentID,
		QAHistory:      append([]models.QAEntry(nil), s.qaHistory...),
		IsLoading:      s.isLoading,
		ErrorMessage:   s.errorMessage,
		SuccessMessage: s.successMessage,
	}
}

// analysisLocked returns the analysis slot for a document, creating it if
// needed. Caller must hold the write lock.
func (s *Store) analysisLocked(id string) *AnalysisState {
	state, ok := s.analyses[id]
	if !ok {
		state = &AnalysisState{}
		s.analyses[id] = state
	}
	return state
}
