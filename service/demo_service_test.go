package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/transport"
)

func demoUpload(t *testing.T, svc *DemoService) *models.Document {
	t.Helper()
	doc, err := svc.UploadDocument(context.Background(), "contract.pdf", 2048, bytes.NewReader([]byte("%PDF-1.4")))
	require.NoError(t, err)
	return doc
}

func TestDemoService_UploadAndLifecycle(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	ctx := context.Background()

	doc := demoUpload(t, svc)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "contract.pdf", doc.Filename)
	assert.Equal(t, models.TypePDF, doc.Type)
	assert.Equal(t, models.StatusPending, doc.Status)

	// First poll moves to processing, second completes.
	status, err := svc.GetDocumentStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, status.Status)

	status, err = svc.GetDocumentStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status.Status)

	// Terminal states are sticky across further polls.
	status, err = svc.GetDocumentStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status.Status)

	completed, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, completed.Summary)
	assert.Equal(t, models.RiskHigh, completed.RiskLevel)
	assert.Equal(t, len(demoClauses), completed.TotalClauses)
}

func TestDemoService_ListAndDelete(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	ctx := context.Background()

	first := demoUpload(t, svc)
	second := demoUpload(t, svc)

	docs, err := svc.ListDocuments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID, "upload order preserved")
	assert.Equal(t, second.ID, docs[1].ID)

	limited, err := svc.ListDocuments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, svc.DeleteDocument(ctx, first.ID))
	docs, err = svc.ListDocuments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, second.ID, docs[0].ID)
}

func TestDemoService_UnknownDocument(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	ctx := context.Background()

	_, err := svc.GetDocument(ctx, "missing")
	terr, ok := transport.AsError(err)
	require.True(t, ok)
	assert.Equal(t, transport.CategoryNotFound, terr.Category)
	assert.Equal(t, 404, terr.StatusCode)

	_, err = svc.SummarizeDocument(ctx, SummarizeRequest{DocumentID: "missing"})
	assert.Error(t, err)

	assert.Error(t, svc.DeleteDocument(ctx, "missing"))
}

func TestDemoService_Summarize(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	doc := demoUpload(t, svc)

	result, err := svc.SummarizeDocument(context.Background(), SummarizeRequest{DocumentID: doc.ID})
	require.NoError(t, err)
	assert.Equal(t, doc.ID, result.DocumentID)
	assert.Equal(t, "en", result.Language)
	assert.NotEmpty(t, result.Summary)
	assert.Equal(t, Disclaimer, result.Disclaimer)

	short, err := svc.SummarizeDocument(context.Background(), SummarizeRequest{DocumentID: doc.ID, MaxLength: 5})
	require.NoError(t, err)
	assert.LessOrEqual(t, short.WordCount, 6, "5 words plus ellipsis suffix")
}

func TestDemoService_ExtractClauses(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	doc := demoUpload(t, svc)

	withExplanations, err := svc.ExtractClauses(context.Background(), ClausesRequest{DocumentID: doc.ID, IncludeExplanations: true})
	require.NoError(t, err)
	require.Len(t, withExplanations.Clauses, len(demoClauses))
	assert.NotEmpty(t, withExplanations.Clauses[0].Explanation)

	bare, err := svc.ExtractClauses(context.Background(), ClausesRequest{DocumentID: doc.ID})
	require.NoError(t, err)
	for _, clause := range bare.Clauses {
		assert.Empty(t, clause.Explanation)
	}

	// Canned data itself is untouched.
	assert.NotEmpty(t, demoClauses[0].Explanation)
}

func TestDemoService_AskQuestion(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	doc := demoUpload(t, svc)

	tests := []struct {
		name           string
		question       string
		wantConfidence float64
	}{
		{"keyword match", "What happens on termination?", 0.9},
		{"case insensitive match", "PAYMENT terms?", 0.9},
		{"no match", "Does this mention aliens?", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.AskQuestion(context.Background(), AskRequest{DocumentID: doc.ID, Question: tt.question})
			require.NoError(t, err)
			assert.Equal(t, tt.question, result.Question)
			assert.NotEmpty(t, result.Answer)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, Disclaimer, result.Disclaimer)
		})
	}
}

func TestDemoService_GetAlerts(t *testing.T) {
	svc := NewDemoService(logger.NewNop())
	doc := demoUpload(t, svc)
	ctx := context.Background()

	tests := []struct {
		name      string
		threshold models.RiskLevel
		wantCount int
	}{
		{"low includes everything", models.RiskLow, 6},
		{"medium is the default cut", models.RiskMedium, 5},
		{"high only", models.RiskHigh, 3},
		{"critical only", models.RiskCritical, 1},
		{"invalid falls back to medium", models.RiskLevel("bogus"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetAlerts(ctx, AlertsRequest{DocumentID: doc.ID, SeverityThreshold: tt.threshold})
			require.NoError(t, err)
			assert.Len(t, result.Alerts, tt.wantCount)
			assert.Equal(t, tt.wantCount, result.TotalAlerts)

			// The summary always covers every clause, not just the alerts.
			total := 0
			for _, n := range result.RiskSummary {
				total += n
			}
			assert.Equal(t, len(demoClauses), total)
		})
	}
}

func TestNewAnalysisService_ModeSelection(t *testing.T) {
	log := logger.NewNop()

	demo := NewAnalysisService(ModeDemo, nil, log)
	_, isDemo := demo.(*DemoService)
	assert.True(t, isDemo)

	live := NewAnalysisService(ModeLive, transport.NewClient("http://localhost:1", 0, nil, log), log)
	_, isLive := live.(*BackendService)
	assert.True(t, isLive)
}
