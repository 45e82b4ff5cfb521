package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Saatvik07/legallens/models"
)

// The backend's response shapes have drifted across versions. Every
// normalizer below accepts an ordered list of known key names per field,
// takes the first one present, and substitutes a documented default when
// none is. This file is the single seam where that drift is absorbed.

const summaryNotAvailable = "Summary not available"

type payload map[string]interface{}

func (p payload) str(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := p[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func (p payload) strOr(def string, keys ...string) string {
	if v, ok := p.str(keys...); ok {
		return v
	}
	return def
}

func (p payload) num(keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := p[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

func (p payload) intOr(def int, keys ...string) int {
	if v, ok := p.num(keys...); ok {
		return int(v)
	}
	return def
}

func (p payload) int64Or(def int64, keys ...string) int64 {
	if v, ok := p.num(keys...); ok {
		return int64(v)
	}
	return def
}

func (p payload) floatOr(def float64, keys ...string) float64 {
	if v, ok := p.num(keys...); ok {
		return v
	}
	return def
}

func (p payload) boolOr(def bool, keys ...string) bool {
	for _, key := range keys {
		if v, ok := p[key].(bool); ok {
			return v
		}
	}
	return def
}

// timeOr parses the first present timestamp field, accepting the formats
// backends have used so far. Defaults to now when absent or unparsable.
func (p payload) timeOr(keys ...string) time.Time {
	formats := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}
	for _, key := range keys {
		if v, ok := p[key].(string); ok && v != "" {
			for _, format := range formats {
				if t, err := time.Parse(format, v); err == nil {
					return t
				}
			}
		}
	}
	return time.Now().UTC()
}

// list returns the first present array field as a slice of payloads.
func (p payload) list(keys ...string) []payload {
	for _, key := range keys {
		if raw, ok := p[key].([]interface{}); ok {
			items := make([]payload, 0, len(raw))
			for _, entry := range raw {
				if m, ok := entry.(map[string]interface{}); ok {
					items = append(items, payload(m))
				}
			}
			return items
		}
	}
	return nil
}

// object returns the first present map field as a payload.
func (p payload) object(keys ...string) (payload, bool) {
	for _, key := range keys {
		if m, ok := p[key].(map[string]interface{}); ok {
			return payload(m), true
		}
	}
	return nil, false
}

func (p payload) stringMap(keys ...string) map[string]string {
	obj, ok := p.object(keys...)
	if !ok {
		return nil
	}
	result := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	return result
}

func (p payload) intMap(keys ...string) map[string]int {
	obj, ok := p.object(keys...)
	if !ok {
		return nil
	}
	result := make(map[string]int, len(obj))
	for k, v := range obj {
		if n, ok := v.(float64); ok {
			result[k] = int(n)
		}
	}
	return result
}

func (p payload) stringList(keys ...string) []string {
	for _, key := range keys {
		if raw, ok := p[key].([]interface{}); ok {
			items := make([]string, 0, len(raw))
			for _, entry := range raw {
				if s, ok := entry.(string); ok {
					items = append(items, s)
				}
			}
			return items
		}
	}
	return nil
}

// generateToken synthesizes a client-side identifier when the backend
// omits one.
func generateToken() string {
	return uuid.NewString()
}

// normalizeDocument maps one document payload onto the canonical Document.
func normalizeDocument(p payload) *models.Document {
	filename := p.strOr("document", "filename", "file_name", "name", "title")

	docType := models.DocumentType(p.strOr("", "document_type", "file_type", "type"))
	switch docType {
	case models.TypePDF, models.TypeDOCX, models.TypeTXT:
	default:
		docType = models.InferDocumentType(filename)
	}

	status := models.ProcessingStatus(p.strOr(string(models.StatusPending), "processing_status", "status", "state"))
	switch status {
	case models.StatusPending, models.StatusProcessing, models.StatusCompleted, models.StatusFailed:
	default:
		status = models.StatusPending
	}

	return &models.Document{
		ID:           p.strOr(generateToken(), "document_id", "doc_id", "id"),
		Filename:     filename,
		Type:         docType,
		Size:         p.int64Or(0, "file_size", "size", "size_bytes"),
		UploadedAt:   p.timeOr("upload_timestamp", "uploaded_at", "created_at", "timestamp"),
		Status:       status,
		Summary:      p.strOr("", "summary", "summary_text"),
		RiskLevel:    models.RiskLevel(p.strOr("", "risk_level", "risk", "severity")),
		TotalPages:   p.intOr(0, "total_pages", "page_count", "pages"),
		TotalClauses: p.intOr(0, "total_clauses", "clause_count"),
		ErrorMessage: p.strOr("", "error_message", "error", "err_msg"),
	}
}

// normalizeDocumentList pulls the document array out of a list response.
func normalizeDocumentList(p payload) []*models.Document {
	items := p.list("documents", "results", "items")
	docs := make([]*models.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, normalizeDocument(item))
	}
	return docs
}

func normalizeStatus(documentID string, p payload) *DocumentStatus {
	status := models.ProcessingStatus(p.strOr(string(models.StatusPending), "status", "processing_status", "state"))
	switch status {
	case models.StatusPending, models.StatusProcessing, models.StatusCompleted, models.StatusFailed:
	default:
		status = models.StatusPending
	}

	ds := &DocumentStatus{
		DocumentID:   p.strOr(documentID, "document_id", "doc_id", "id"),
		Status:       status,
		ErrorMessage: p.strOr("", "error_message", "error", "err_msg", "detail"),
	}
	if _, ok := p.str("processed_at", "completed_at", "finished_at"); ok {
		ds.ProcessedAt = p.timeOr("processed_at", "completed_at", "finished_at")
	}
	return ds
}

func normalizeHealth(p payload) *HealthStatus {
	return &HealthStatus{
		Status:   p.strOr("unknown", "status", "state"),
		Version:  p.strOr("", "version"),
		Services: p.stringMap("services", "components"),
	}
}

func normalizeSummary(documentID string, p payload) *SummarizeResult {
	summary := p.strOr(summaryNotAvailable, "summary", "summary_text", "text")
	return &SummarizeResult{
		DocumentID: p.strOr(documentID, "document_id", "doc_id", "id"),
		Summary:    summary,
		Language:   p.strOr("en", "language", "lang"),
		WordCount:  p.intOr(wordCount(summary), "word_count", "words"),
		Confidence: p.floatOr(0, "confidence_score", "confidence", "score"),
		Disclaimer: p.strOr(Disclaimer, "disclaimer"),
	}
}

func normalizeClause(index int, p payload) models.Clause {
	category := p.strOr("general", "category", "clause_type")
	return models.Clause{
		ID:          p.strOr(fmt.Sprintf("clause_%d", index+1), "clause_id", "id"),
		Title:       p.strOr(fmt.Sprintf("Clause %d", index+1), "title", "heading"),
		Content:     p.strOr("", "content", "text", "clause_text"),
		Category:    category,
		RiskLevel:   models.RiskLevelOrDefault(p.strOr("", "risk_level", "risk", "severity")),
		Explanation: p.strOr("", "explanation", "plain_language", "simplified"),
		PageNumber:  p.intOr(0, "page_number", "page"),
	}
}

func normalizeClauses(documentID string, p payload) *ClausesResult {
	items := p.list("clauses", "results", "items")
	clauses := make([]models.Clause, 0, len(items))
	for i, item := range items {
		clauses = append(clauses, normalizeClause(i, item))
	}
	return &ClausesResult{
		DocumentID:   p.strOr(documentID, "document_id", "doc_id", "id"),
		Clauses:      clauses,
		TotalClauses: p.intOr(len(clauses), "total_clauses", "clause_count", "total"),
		Disclaimer:   p.strOr(Disclaimer, "disclaimer"),
	}
}

func normalizeAsk(documentID, question string, p payload) *AskResult {
	return &AskResult{
		DocumentID:       p.strOr(documentID, "document_id", "doc_id", "id"),
		Question:         p.strOr(question, "question", "query"),
		Answer:           p.strOr("No answer available", "answer", "response", "text"),
		Confidence:       p.floatOr(0, "confidence_score", "confidence", "score"),
		RelevantSections: p.stringList("relevant_sections", "sections", "sources"),
		Disclaimer:       p.strOr(Disclaimer, "disclaimer"),
	}
}

func normalizeAlert(index int, p payload) models.Alert {
	return models.Alert{
		ID:              p.strOr(fmt.Sprintf("alert_%d", index+1), "alert_id", "id"),
		Title:           p.strOr("Risk alert", "title", "heading"),
		Description:     p.strOr("", "description", "details", "text"),
		RiskLevel:       models.RiskLevelOrDefault(p.strOr("", "risk_level", "risk", "severity")),
		ClauseReference: p.strOr("", "clause_reference", "clause_id", "reference"),
		Recommendation:  p.strOr("", "recommendation", "advice", "suggestion"),
		PageNumber:      p.intOr(0, "page_number", "page"),
	}
}

func normalizeAlerts(documentID string, p payload) *AlertsResult {
	items := p.list("alerts", "results", "items")
	alerts := make([]models.Alert, 0, len(items))
	for i, item := range items {
		alerts = append(alerts, normalizeAlert(i, item))
	}

	summary := p.intMap("risk_summary", "summary")
	if summary == nil {
		summary = make(map[string]int)
		for _, alert := range alerts {
			summary[string(alert.RiskLevel)]++
		}
	}

	return &AlertsResult{
		DocumentID:  p.strOr(documentID, "document_id", "doc_id", "id"),
		Alerts:      alerts,
		TotalAlerts: p.intOr(len(alerts), "total_alerts", "alert_count", "total"),
		RiskSummary: summary,
		Disclaimer:  p.strOr(Disclaimer, "disclaimer"),
	}
}

func wordCount(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
