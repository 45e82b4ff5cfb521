package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/service"
	"github.com/Saatvik07/legallens/store"
)

// newTestRouter wires the full demo-mode stack behind a gin router, the
// same shape main.go builds.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	svc := service.NewDemoService(log)
	orchestrator := store.NewOrchestrator(store.New(), svc, log,
		store.WithPollInterval(time.Millisecond),
		store.WithPollMaxAttempts(10),
	)

	docController := NewDocumentController(orchestrator, log)
	analysisController := NewAnalysisController(orchestrator, log)

	router := gin.New()
	router.POST("/upload", docController.UploadDocuments)
	router.GET("/documents", docController.ListDocuments)
	router.GET("/documents/:id", docController.GetDocument)
	router.DELETE("/documents/:id", docController.DeleteDocument)
	router.GET("/documents/:id/status", docController.DocumentStatus)
	router.POST("/documents/:id/select", docController.SelectDocument)
	router.POST("/documents/:id/summarize", analysisController.Summarize)
	router.POST("/documents/:id/clauses", analysisController.ExtractClauses)
	router.POST("/documents/:id/ask", analysisController.AskQuestion)
	router.POST("/documents/:id/alerts", analysisController.GetAlerts)
	router.GET("/qa", analysisController.QAHistory)
	router.GET("/state", docController.State)
	router.GET("/health", analysisController.Health)
	return router
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="files"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func uploadTestDocument(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body, contentType := multipartBody(t, "contract.pdf", "application/pdf", []byte("%PDF-1.4 test"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Accepted []struct {
			DocumentID string `json:"document_id"`
		} `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Accepted, 1)
	return response.Accepted[0].DocumentID
}

func TestUploadAndList(t *testing.T) {
	router := newTestRouter(t)
	id := uploadTestDocument(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Total     int `json:"total"`
		Documents []struct {
			DocumentID string `json:"document_id"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
	assert.Equal(t, id, response.Documents[0].DocumentID)
}

func TestUpload_RejectsUnsupportedFiles(t *testing.T) {
	router := newTestRouter(t)
	body, contentType := multipartBody(t, "photo.png", "image/png", []byte("not a document"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "photo.png")
}

func TestUpload_NoFiles(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectAndState(t *testing.T) {
	router := newTestRouter(t)
	id := uploadTestDocument(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/documents/"+id+"/select", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var state struct {
		CurrentID string `json:"current_document_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, id, state.CurrentID)
}

func TestSelect_UnknownDocument(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/documents/ghost/select", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAskQuestion_Validation(t *testing.T) {
	router := newTestRouter(t)
	id := uploadTestDocument(t, router)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"blank question", `{"question": "   "}`, http.StatusBadRequest},
		{"valid question", `{"question": "What about termination?"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/ask", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestAnalysisFlow(t *testing.T) {
	router := newTestRouter(t)
	id := uploadTestDocument(t, router)

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	w := post("/documents/"+id+"/summarize", `{}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "disclaimer")

	w = post("/documents/"+id+"/clauses", `{"include_explanations": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post("/documents/"+id+"/alerts", `{"severity_threshold": "high"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post("/documents/"+id+"/ask", `{"question": "payment terms?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	qa := httptest.NewRecorder()
	router.ServeHTTP(qa, httptest.NewRequest(http.MethodGet, "/qa", nil))
	require.Equal(t, http.StatusOK, qa.Code)
	assert.Contains(t, qa.Body.String(), "payment terms?")

	// The document view carries the committed analysis artifacts.
	docView := httptest.NewRecorder()
	router.ServeHTTP(docView, httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))
	require.Equal(t, http.StatusOK, docView.Code)
	assert.Contains(t, docView.Body.String(), "clauses")
}

func TestAnalysis_UnknownDocument(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents/ghost/summarize", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDocument(t *testing.T) {
	router := newTestRouter(t)
	id := uploadTestDocument(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
