package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saatvik07/legallens/pkg/logger"
)

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	mu         sync.Mutex
	categories []Category
	messages   []string
}

func (n *recordingNotifier) Notify(category Category, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.categories = append(n.categories, category)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.categories)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		status int
		want   Category
	}{
		{400, CategoryBadRequest},
		{404, CategoryNotFound},
		{422, CategoryValidationError},
		{500, CategoryServerError},
		{503, CategoryUnavailable},
		{418, CategoryUnexpectedError},
		{502, CategoryUnexpectedError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.status), "status %d", tt.status)
	}
}

func TestClient_ErrorCategorization(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantCategory Category
		wantDetail   string
	}{
		{
			name:         "bad request with detail key",
			status:       400,
			body:         `{"detail": "missing document_id"}`,
			wantCategory: CategoryBadRequest,
			wantDetail:   "missing document_id",
		},
		{
			name:         "not found with message key",
			status:       404,
			body:         `{"message": "no such document"}`,
			wantCategory: CategoryNotFound,
			wantDetail:   "no such document",
		},
		{
			name:         "validation error with error key",
			status:       422,
			body:         `{"error": "file too large"}`,
			wantCategory: CategoryValidationError,
			wantDetail:   "file too large",
		},
		{
			name:         "server error with empty body",
			status:       500,
			body:         `{}`,
			wantCategory: CategoryServerError,
			wantDetail:   "",
		},
		{
			name:         "unavailable with non-json body",
			status:       503,
			body:         "upstream down",
			wantCategory: CategoryUnavailable,
			wantDetail:   "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			notifier := &recordingNotifier{}
			client := NewClient(server.URL, 0, notifier, logger.NewNop())

			_, err := client.GetJSON(context.Background(), "/anything", nil)
			require.Error(t, err)

			terr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCategory, terr.Category)
			assert.Equal(t, tt.status, terr.StatusCode)
			assert.Equal(t, tt.wantDetail, terr.Detail)
			assert.Equal(t, userMessages[tt.wantCategory], terr.UserMessage())

			// Exactly one notification per failure.
			assert.Equal(t, 1, notifier.count())
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 0, notifier, logger.NewNop())

	_, err := client.GetJSON(context.Background(), "/health", nil)
	require.Error(t, err)

	terr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CategoryNetworkError, terr.Category)
	assert.Equal(t, 0, terr.StatusCode)
	assert.Equal(t, 1, notifier.count())
}

func TestClient_UnparsableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 0, notifier, logger.NewNop())

	_, err := client.GetJSON(context.Background(), "/health", nil)
	require.Error(t, err)

	terr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CategoryUnexpectedError, terr.Category)
	assert.Equal(t, 1, notifier.count())
}

func TestClient_GetJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/documents/list", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"documents": [], "total": 0}`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 0, notifier, logger.NewNop())

	query := url.Values{}
	query.Set("limit", "5")
	body, err := client.GetJSON(context.Background(), "/documents/list", query)
	require.NoError(t, err)
	assert.Equal(t, float64(0), body["total"])
	assert.Equal(t, 0, notifier.count())
}

func TestClient_PostJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"summary": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, &recordingNotifier{}, logger.NewNop())

	body, err := client.PostJSON(context.Background(), "/analysis/doc1/summarize", map[string]interface{}{
		"language": "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", body["summary"])
}

func TestClient_UploadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "contract.pdf", header.Filename)
		w.Write([]byte(`{"document_id": "doc-123", "processing_status": "pending"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, &recordingNotifier{}, logger.NewNop())

	body, err := client.UploadFile(context.Background(), "/documents/upload", "file", "contract.pdf", bytes.NewReader([]byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, "doc-123", body["document_id"])
}

func TestClient_EmptyResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, &recordingNotifier{}, logger.NewNop())

	body, err := client.Delete(context.Background(), "/documents/doc-123")
	require.NoError(t, err)
	assert.Empty(t, body)
}
