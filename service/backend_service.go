package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/transport"
)

const apiPrefix = "/api/v1"

// BackendService is the live AnalysisService implementation. It translates
// the stable interface onto the backend's HTTP endpoints and normalizes
// every response through the field-tolerant mappers in normalize.go.
type BackendService struct {
	client *transport.Client
	logger logger.Logger
}

// NewBackendService creates the live adapter around a transport client.
func NewBackendService(client *transport.Client, log logger.Logger) *BackendService {
	return &BackendService{
		client: client,
		logger: log.Named("backend"),
	}
}

// CheckHealth probes the backend's health endpoint.
func (s *BackendService) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	body, err := s.client.GetJSON(ctx, "/health", nil)
	if err != nil {
		return nil, err
	}
	return normalizeHealth(body), nil
}

// UploadDocument streams one file to the backend and returns the normalized
// document the backend created for it.
func (s *BackendService) UploadDocument(ctx context.Context, filename string, size int64, file io.Reader) (*models.Document, error) {
	s.logger.Info("uploading document",
		logger.String("filename", filename),
		logger.Int64("size", size),
	)

	body, err := s.client.UploadFile(ctx, apiPrefix+"/documents/upload", "file", filename, file)
	if err != nil {
		return nil, err
	}

	doc := normalizeDocument(body)
	if doc.Filename == "document" {
		doc.Filename = filename
	}
	if doc.Size == 0 {
		doc.Size = size
	}
	return doc, nil
}

// ListDocuments fetches up to limit documents known to the backend.
func (s *BackendService) ListDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := s.client.GetJSON(ctx, apiPrefix+"/documents/list", query)
	if err != nil {
		return nil, err
	}
	return normalizeDocumentList(body), nil
}

// GetDocument fetches a single document's metadata.
func (s *BackendService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	body, err := s.client.GetJSON(ctx, apiPrefix+"/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return normalizeDocument(body), nil
}

// DeleteDocument removes a document and its associated data on the backend.
func (s *BackendService) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, apiPrefix+"/documents/"+url.PathEscape(id))
	return err
}

// GetDocumentStatus fetches the processing status of one document.
func (s *BackendService) GetDocumentStatus(ctx context.Context, id string) (*DocumentStatus, error) {
	body, err := s.client.GetJSON(ctx, apiPrefix+"/documents/"+url.PathEscape(id)+"/status", nil)
	if err != nil {
		return nil, err
	}
	return normalizeStatus(id, body), nil
}

// SummarizeDocument requests a plain-language summary.
func (s *BackendService) SummarizeDocument(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	if req.Language == "" {
		req.Language = "en"
	}
	if req.MaxLength <= 0 {
		req.MaxLength = 500
	}

	body, err := s.client.PostJSON(ctx, s.analysisPath(req.DocumentID, "summarize"), map[string]interface{}{
		"language":   req.Language,
		"max_length": req.MaxLength,
	})
	if err != nil {
		return nil, err
	}
	return normalizeSummary(req.DocumentID, body), nil
}

// ExtractClauses requests the backend's clause extraction for a document.
func (s *BackendService) ExtractClauses(ctx context.Context, req ClausesRequest) (*ClausesResult, error) {
	body, err := s.client.PostJSON(ctx, s.analysisPath(req.DocumentID, "clauses"), map[string]interface{}{
		"include_explanations": req.IncludeExplanations,
	})
	if err != nil {
		return nil, err
	}
	return normalizeClauses(req.DocumentID, body), nil
}

// AskQuestion sends a free-text question about a document.
func (s *BackendService) AskQuestion(ctx context.Context, req AskRequest) (*AskResult, error) {
	if req.ContextLimit <= 0 {
		req.ContextLimit = 3
	}

	body, err := s.client.PostJSON(ctx, s.analysisPath(req.DocumentID, "ask"), map[string]interface{}{
		"question":      req.Question,
		"context_limit": req.ContextLimit,
	})
	if err != nil {
		return nil, err
	}
	return normalizeAsk(req.DocumentID, req.Question, body), nil
}

// GetAlerts requests risk alerts at or above the severity threshold.
func (s *BackendService) GetAlerts(ctx context.Context, req AlertsRequest) (*AlertsResult, error) {
	if req.SeverityThreshold == "" {
		req.SeverityThreshold = models.RiskMedium
	}

	body, err := s.client.PostJSON(ctx, s.analysisPath(req.DocumentID, "alerts"), map[string]interface{}{
		"severity_threshold": string(req.SeverityThreshold),
	})
	if err != nil {
		return nil, err
	}
	return normalizeAlerts(req.DocumentID, body), nil
}

func (s *BackendService) analysisPath(documentID, operation string) string {
	return fmt.Sprintf("%s/analysis/%s/%s", apiPrefix, url.PathEscape(documentID), operation)
}
