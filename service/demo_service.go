package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/transport"
)

// DemoService is the offline AnalysisService implementation. It serves
// deterministic canned data so the console stays usable with no reachable
// backend. Uploaded documents progress pending -> processing -> completed
// across successive status polls.
type DemoService struct {
	mu     sync.Mutex
	logger logger.Logger
	docs   map[string]*demoDocument
	order  []string
}

type demoDocument struct {
	doc   *models.Document
	polls int
}

// NewDemoService creates the stub adapter.
func NewDemoService(log logger.Logger) *DemoService {
	return &DemoService{
		logger: log.Named("demo"),
		docs:   make(map[string]*demoDocument),
	}
}

// CheckHealth always reports healthy; there is nothing remote to probe.
func (s *DemoService) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	return &HealthStatus{
		Status:  "healthy",
		Version: "demo",
		Services: map[string]string{
			"analysis": "offline-demo",
		},
	}, nil
}

// UploadDocument registers the file locally and starts its simulated
// processing lifecycle. The file content is drained and discarded.
func (s *DemoService) UploadDocument(ctx context.Context, filename string, size int64, file io.Reader) (*models.Document, error) {
	if file != nil {
		io.Copy(io.Discard, file)
	}

	doc := &models.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Type:       models.InferDocumentType(filename),
		Size:       size,
		UploadedAt: time.Now().UTC(),
		Status:     models.StatusPending,
	}

	s.mu.Lock()
	s.docs[doc.ID] = &demoDocument{doc: doc}
	s.order = append(s.order, doc.ID)
	s.mu.Unlock()

	s.logger.Info("registered demo document",
		logger.String("documentId", doc.ID),
		logger.String("filename", filename),
	)

	snapshot := *doc
	return &snapshot, nil
}

// ListDocuments returns registered documents in upload order.
func (s *DemoService) ListDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]*models.Document, 0, len(s.order))
	for _, id := range s.order {
		if limit > 0 && len(docs) >= limit {
			break
		}
		snapshot := *s.docs[id].doc
		docs = append(docs, &snapshot)
	}
	return docs, nil
}

// GetDocument returns one registered document.
func (s *DemoService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.docs[id]
	if !ok {
		return nil, transport.NewError(transport.CategoryNotFound, 404, "Document not found")
	}
	snapshot := *entry.doc
	return &snapshot, nil
}

// DeleteDocument forgets a registered document.
func (s *DemoService) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return transport.NewError(transport.CategoryNotFound, 404, "Document not found")
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// GetDocumentStatus advances the simulated lifecycle one step per poll:
// the first poll reports processing, the second completes the document.
func (s *DemoService) GetDocumentStatus(ctx context.Context, id string) (*DocumentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.docs[id]
	if !ok {
		return nil, transport.NewError(transport.CategoryNotFound, 404, "Document not found")
	}

	if !entry.doc.Status.Terminal() {
		entry.polls++
		switch {
		case entry.polls == 1:
			entry.doc.Status = models.StatusProcessing
		case entry.polls >= 2:
			s.completeLocked(entry)
		}
	}

	return &DocumentStatus{
		DocumentID:  id,
		Status:      entry.doc.Status,
		ProcessedAt: time.Now().UTC(),
	}, nil
}

// completeLocked fills in the analysis fields a real backend would have
// produced during processing.
func (s *DemoService) completeLocked(entry *demoDocument) {
	entry.doc.Status = models.StatusCompleted
	entry.doc.Summary = demoSummary
	entry.doc.RiskLevel = models.RiskHigh
	entry.doc.TotalPages = 12
	entry.doc.TotalClauses = len(demoClauses)
}

// SummarizeDocument returns the canned summary, truncated to MaxLength
// words when asked for a shorter one.
func (s *DemoService) SummarizeDocument(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	if _, err := s.GetDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	summary := demoSummary
	if req.MaxLength > 0 {
		words := strings.Fields(summary)
		if len(words) > req.MaxLength {
			summary = strings.Join(words[:req.MaxLength], " ") + "..."
		}
	}

	return &SummarizeResult{
		DocumentID: req.DocumentID,
		Summary:    summary,
		Language:   language,
		WordCount:  wordCount(summary),
		Confidence: 0.9,
		Disclaimer: Disclaimer,
	}, nil
}

// ExtractClauses returns the canned clause set, with or without the
// plain-language explanations.
func (s *DemoService) ExtractClauses(ctx context.Context, req ClausesRequest) (*ClausesResult, error) {
	if _, err := s.GetDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}

	clauses := make([]models.Clause, len(demoClauses))
	for i, clause := range demoClauses {
		clauses[i] = clause
		if !req.IncludeExplanations {
			clauses[i].Explanation = ""
		}
	}

	return &ClausesResult{
		DocumentID:   req.DocumentID,
		Clauses:      clauses,
		TotalClauses: len(clauses),
		Disclaimer:   Disclaimer,
	}, nil
}

// AskQuestion answers from a small keyword table.
func (s *DemoService) AskQuestion(ctx context.Context, req AskRequest) (*AskResult, error) {
	if _, err := s.GetDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}

	answer := "Based on the document, this point is not addressed explicitly. Review the relevant clauses with legal counsel."
	confidence := 0.4
	question := strings.ToLower(req.Question)
	for keyword, canned := range demoAnswers {
		if strings.Contains(question, keyword) {
			answer = canned
			confidence = 0.9
			break
		}
	}

	return &AskResult{
		DocumentID: req.DocumentID,
		Question:   req.Question,
		Answer:     answer,
		Confidence: confidence,
		RelevantSections: []string{
			demoClauses[0].Content,
			demoClauses[1].Content,
		},
		Disclaimer: Disclaimer,
	}, nil
}

// GetAlerts derives alerts from the canned clauses at or above the
// requested severity threshold.
func (s *DemoService) GetAlerts(ctx context.Context, req AlertsRequest) (*AlertsResult, error) {
	if _, err := s.GetDocument(ctx, req.DocumentID); err != nil {
		return nil, err
	}

	threshold := req.SeverityThreshold
	if !threshold.Valid() {
		threshold = models.RiskMedium
	}

	alerts := make([]models.Alert, 0, len(demoClauses))
	summary := map[string]int{"low": 0, "medium": 0, "high": 0, "critical": 0}
	for i, clause := range demoClauses {
		summary[string(clause.RiskLevel)]++
		if !clause.RiskLevel.AtLeast(threshold) {
			continue
		}
		alerts = append(alerts, models.Alert{
			ID:              fmt.Sprintf("alert_%d", i+1),
			Title:           fmt.Sprintf("Risk in %s clause", clause.Category),
			Description:     demoAlertDescriptions[clause.Category],
			RiskLevel:       clause.RiskLevel,
			ClauseReference: clause.ID,
			Recommendation:  "Review this clause carefully with legal counsel before signing.",
			PageNumber:      clause.PageNumber,
		})
	}

	return &AlertsResult{
		DocumentID:  req.DocumentID,
		Alerts:      alerts,
		TotalAlerts: len(alerts),
		RiskSummary: summary,
		Disclaimer:  Disclaimer,
	}, nil
}

const demoSummary = "This agreement establishes a services relationship between the " +
	"contracting parties. The provider agrees to deliver the described services in " +
	"exchange for monthly payments due within thirty days of invoicing. Either party " +
	"may terminate with ninety days written notice, but the customer faces an early " +
	"termination fee equal to three months of fees. Liability is capped for the " +
	"provider while the customer indemnifies against third-party claims, an " +
	"asymmetry worth negotiating. The agreement renews automatically each year " +
	"unless cancelled in writing sixty days before the renewal date."

var demoClauses = []models.Clause{
	{
		ID:          "clause_1",
		Title:       "Clause 1: Payment",
		Content:     "Customer shall pay all invoiced amounts within thirty (30) days of the invoice date. Late payments accrue interest at 1.5% per month.",
		Category:    "payment",
		RiskLevel:   models.RiskMedium,
		Explanation: "You must pay within 30 days or interest starts building up on what you owe.",
		PageNumber:  2,
	},
	{
		ID:          "clause_2",
		Title:       "Clause 2: Termination",
		Content:     "Either party may terminate this Agreement upon ninety (90) days written notice. Early termination by Customer incurs a fee equal to three (3) months of service fees.",
		Category:    "termination",
		RiskLevel:   models.RiskHigh,
		Explanation: "Leaving early costs you three months of fees, and you need to give 90 days notice either way.",
		PageNumber:  5,
	},
	{
		ID:          "clause_3",
		Title:       "Clause 3: Liability",
		Content:     "Customer agrees to indemnify and hold harmless the Provider against any and all claims arising from Customer's use of the services.",
		Category:    "liability",
		RiskLevel:   models.RiskCritical,
		Explanation: "You take on responsibility for legal claims connected to your use of the service, with no stated limit.",
		PageNumber:  7,
	},
	{
		ID:          "clause_4",
		Title:       "Clause 4: Intellectual Property",
		Content:     "All work product, inventions, and improvements created under this Agreement are the exclusive property of the Provider.",
		Category:    "intellectual_property",
		RiskLevel:   models.RiskMedium,
		Explanation: "Anything created during the engagement belongs to the provider, not to you.",
		PageNumber:  8,
	},
	{
		ID:          "clause_5",
		Title:       "Clause 5: Obligation",
		Content:     "This Agreement shall renew automatically for successive one (1) year terms unless cancelled in writing sixty (60) days prior to renewal.",
		Category:    "obligation",
		RiskLevel:   models.RiskHigh,
		Explanation: "The contract renews itself every year unless you remember to cancel in writing 60 days ahead.",
		PageNumber:  10,
	},
	{
		ID:          "clause_6",
		Title:       "Clause 6: Warranty",
		Content:     "Services are provided \"as is\" without warranty of any kind, express or implied, including fitness for a particular purpose.",
		Category:    "warranty",
		RiskLevel:   models.RiskLow,
		Explanation: "The provider makes no promises about quality or suitability of the services.",
		PageNumber:  11,
	},
}

var demoAnswers = map[string]string{
	"termination": "The agreement requires ninety (90) days written notice for termination, and early termination by the customer incurs a fee equal to three months of service fees.",
	"notice":      "A ninety (90) day written notice period applies to termination; renewal cancellation requires sixty (60) days notice.",
	"payment":     "Invoices are due within thirty (30) days; late payments accrue interest at 1.5% per month.",
	"renew":       "The agreement renews automatically for one-year terms unless cancelled in writing sixty (60) days before renewal.",
	"liability":   "The customer indemnifies the provider against all claims arising from use of the services, with no stated cap.",
	"warranty":    "Services are provided as is, without any express or implied warranty.",
}

var demoAlertDescriptions = map[string]string{
	"payment":               "Late payment interest of 1.5% per month compounds quickly and there is no grace period.",
	"termination":           "The early termination fee and long notice period make exiting this agreement expensive.",
	"liability":             "The indemnification obligation is uncapped and one-sided in the provider's favor.",
	"intellectual_property": "All work product is assigned to the provider, including improvements you contribute to.",
	"obligation":            "Automatic renewal with a 60 day cancellation window can lock you in for another full year.",
	"warranty":              "The blanket warranty disclaimer leaves you without recourse for defective services.",
}
