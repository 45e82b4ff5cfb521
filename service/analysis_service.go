package service

import (
	"context"
	"io"
	"time"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/transport"
)

// Disclaimer is attached to every analysis response, live or demo.
const Disclaimer = "⚠️ Disclaimer: This is AI assistance, not legal advice."

// Mode selects which AnalysisService implementation the console runs with.
// The selection happens once at startup and is never mixed per-call.
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// HealthStatus is the normalized health check response.
type HealthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Services map[string]string `json:"services,omitempty"`
}

// DocumentStatus is the normalized processing status of one document.
type DocumentStatus struct {
	DocumentID   string                  `json:"document_id"`
	Status       models.ProcessingStatus `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	ProcessedAt  time.Time               `json:"processed_at,omitempty"`
}

// SummarizeRequest asks for a plain-language summary of a document.
type SummarizeRequest struct {
	DocumentID string `json:"document_id"`
	Language   string `json:"language"`
	MaxLength  int    `json:"max_length"`
}

// SummarizeResult is the normalized summary response.
type SummarizeResult struct {
	DocumentID string  `json:"document_id"`
	Summary    string  `json:"summary"`
	Language   string  `json:"language"`
	WordCount  int     `json:"word_count"`
	Confidence float64 `json:"confidence_score"`
	Disclaimer string  `json:"disclaimer"`
}

// ClausesRequest asks for the extracted clauses of a document.
type ClausesRequest struct {
	DocumentID          string `json:"document_id"`
	IncludeExplanations bool   `json:"include_explanations"`
}

// ClausesResult is the normalized clause extraction response.
type ClausesResult struct {
	DocumentID   string          `json:"document_id"`
	Clauses      []models.Clause `json:"clauses"`
	TotalClauses int             `json:"total_clauses"`
	Disclaimer   string          `json:"disclaimer"`
}

// AskRequest asks a free-text question against a document.
type AskRequest struct {
	DocumentID   string `json:"document_id"`
	Question     string `json:"question"`
	ContextLimit int    `json:"context_limit"`
}

// AskResult is the normalized Q&A response.
type AskResult struct {
	DocumentID       string   `json:"document_id"`
	Question         string   `json:"question"`
	Answer           string   `json:"answer"`
	Confidence       float64  `json:"confidence_score"`
	RelevantSections []string `json:"relevant_sections,omitempty"`
	Disclaimer       string   `json:"disclaimer"`
}

// AlertsRequest asks for risk alerts at or above a severity threshold.
type AlertsRequest struct {
	DocumentID        string           `json:"document_id"`
	SeverityThreshold models.RiskLevel `json:"severity_threshold"`
}

// AlertsResult is the normalized risk alert response.
type AlertsResult struct {
	DocumentID  string         `json:"document_id"`
	Alerts      []models.Alert `json:"alerts"`
	TotalAlerts int            `json:"total_alerts"`
	RiskSummary map[string]int `json:"risk_summary"`
	Disclaimer  string         `json:"disclaimer"`
}

// AnalysisService hides backend endpoint and schema churn behind one stable
// interface. The live implementation talks HTTP; the demo implementation
// serves canned data with zero network I/O. Transport errors propagate to
// the caller unmodified, after the transport client's categorization and
// notification side effect have already run.
type AnalysisService interface {
	CheckHealth(ctx context.Context) (*HealthStatus, error)
	UploadDocument(ctx context.Context, filename string, size int64, file io.Reader) (*models.Document, error)
	ListDocuments(ctx context.Context, limit int) ([]*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	GetDocumentStatus(ctx context.Context, id string) (*DocumentStatus, error)
	SummarizeDocument(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error)
	ExtractClauses(ctx context.Context, req ClausesRequest) (*ClausesResult, error)
	AskQuestion(ctx context.Context, req AskRequest) (*AskResult, error)
	GetAlerts(ctx context.Context, req AlertsRequest) (*AlertsResult, error)
}

// NewAnalysisService selects the adapter implementation for the configured
// mode. client may be nil in demo mode.
func NewAnalysisService(mode Mode, client *transport.Client, log logger.Logger) AnalysisService {
	if mode == ModeDemo {
		return NewDemoService(log)
	}
	return NewBackendService(client, log)
}
