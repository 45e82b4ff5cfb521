package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Saatvik07/legallens/models"
	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/store"
	"github.com/Saatvik07/legallens/transport"
)

// DocumentController manages HTTP requests for document lifecycle actions.
type DocumentController struct {
	orchestrator *store.Orchestrator
	logger       logger.Logger
}

// NewDocumentController initializes the controller with the orchestrator.
func NewDocumentController(orchestrator *store.Orchestrator, log logger.Logger) *DocumentController {
	return &DocumentController{
		orchestrator: orchestrator,
		logger:       log.Named("documents"),
	}
}

// UploadDocuments handles a multipart batch upload. Unsupported or
// oversized files are skipped client-side and reported in the response.
// Status polling starts automatically for every accepted document.
func (dc *DocumentController) UploadDocuments(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse multipart form"})
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No files in request, use form field 'files'"})
		return
	}

	files := make([]store.UploadFile, 0, len(headers))
	openFiles := make([]interface{ Close() error }, 0, len(headers))
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file " + header.Filename})
			return
		}
		openFiles = append(openFiles, f)
		files = append(files, store.UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		})
	}

	result, err := dc.orchestrator.Upload(ctx.Request.Context(), files)
	if err != nil {
		status := statusFor(err)
		if len(result.Accepted) == 0 && len(result.Skipped) > 0 {
			// Every file failed the local acceptance checks.
			status = http.StatusBadRequest
		}
		ctx.JSON(status, gin.H{
			"error":   err.Error(),
			"skipped": result.Skipped,
		})
		return
	}

	for _, doc := range result.Accepted {
		if doc.Status.Terminal() {
			continue
		}
		// Polls outlive the upload request.
		if _, werr := dc.orchestrator.WatchStatus(context.Background(), doc.ID); werr != nil {
			dc.logger.Warn("failed to start status watch",
				logger.String("document_id", doc.ID),
				logger.Error(werr),
			)
		}
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Upload accepted",
		"accepted": result.Accepted,
		"skipped":  result.Skipped,
	})
}

// ListDocuments returns the known documents. With ?refresh=true the list is
// re-fetched from the analysis service first.
func (dc *DocumentController) ListDocuments(ctx *gin.Context) {
	if ctx.Query("refresh") == "true" {
		limit := 0
		if v := ctx.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if _, err := dc.orchestrator.Refresh(ctx.Request.Context(), limit); err != nil {
			ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
	}

	docs := dc.orchestrator.Store().Documents()
	ctx.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument returns one document together with its analysis artifacts.
func (dc *DocumentController) GetDocument(ctx *gin.Context) {
	id := ctx.Param("id")
	doc, ok := dc.orchestrator.Store().Document(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"document": doc,
		"analysis": dc.orchestrator.Store().Analysis(id),
	})
}

// DeleteDocument removes a document remotely and locally.
func (dc *DocumentController) DeleteDocument(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := dc.orchestrator.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// SelectDocument makes a document the current one, cancelling status
// watchers that belong to other documents.
func (dc *DocumentController) SelectDocument(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := dc.orchestrator.Select(id); err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Document selected", "document_id": id})
}

// DocumentStatus reports the current processing status and makes sure a
// watcher is running while the document is not terminal.
func (dc *DocumentController) DocumentStatus(ctx *gin.Context) {
	id := ctx.Param("id")
	doc, ok := dc.orchestrator.Store().Document(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if !doc.Status.Terminal() {
		if _, err := dc.orchestrator.WatchStatus(context.Background(), id); err != nil {
			dc.logger.Warn("failed to start status watch",
				logger.String("document_id", id),
				logger.Error(err),
			)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"document_id":   id,
		"status":        doc.Status,
		"error_message": doc.ErrorMessage,
	})
}

// State returns the full console state snapshot.
func (dc *DocumentController) State(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dc.orchestrator.Store().State())
}

// statusFor maps action errors onto HTTP status codes. Transport errors
// carry the backend's own status; network-level failures surface as a bad
// gateway.
func statusFor(err error) int {
	if errors.Is(err, store.ErrDocumentNotFound) {
		return http.StatusNotFound
	}
	if terr, ok := transport.AsError(err); ok {
		if terr.StatusCode > 0 {
			return terr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// riskLevelParam parses an optional risk level string, falling back to the
// default threshold.
func riskLevelParam(raw string) models.RiskLevel {
	if level, err := models.ParseRiskLevel(raw); err == nil {
		return level
	}
	return models.RiskMedium
}
