package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Saatvik07/legallens/pkg/logger"
	"github.com/Saatvik07/legallens/service"
	"github.com/Saatvik07/legallens/store"
)

// AnalysisController manages HTTP requests for the analysis actions.
type AnalysisController struct {
	orchestrator *store.Orchestrator
	logger       logger.Logger
}

// NewAnalysisController initializes the controller with the orchestrator.
func NewAnalysisController(orchestrator *store.Orchestrator, log logger.Logger) *AnalysisController {
	return &AnalysisController{
		orchestrator: orchestrator,
		logger:       log.Named("analysis"),
	}
}

type summarizeBody struct {
	Language  string `json:"language"`
	MaxLength int    `json:"max_length"`
}

// Summarize generates a plain-language summary for a document.
func (ac *AnalysisController) Summarize(ctx *gin.Context) {
	var body summarizeBody
	_ = ctx.ShouldBindJSON(&body)

	result, err := ac.orchestrator.Summarize(ctx.Request.Context(), service.SummarizeRequest{
		DocumentID: ctx.Param("id"),
		Language:   body.Language,
		MaxLength:  body.MaxLength,
	})
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

type clausesBody struct {
	IncludeExplanations *bool `json:"include_explanations"`
}

// ExtractClauses returns the clause breakdown for a document.
func (ac *AnalysisController) ExtractClauses(ctx *gin.Context) {
	var body clausesBody
	_ = ctx.ShouldBindJSON(&body)

	includeExplanations := true
	if body.IncludeExplanations != nil {
		includeExplanations = *body.IncludeExplanations
	}

	result, err := ac.orchestrator.ExtractClauses(ctx.Request.Context(), service.ClausesRequest{
		DocumentID:          ctx.Param("id"),
		IncludeExplanations: includeExplanations,
	})
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

type askBody struct {
	Question     string `json:"question"`
	ContextLimit int    `json:"context_limit"`
}

// AskQuestion answers a free-text question about a document.
func (ac *AnalysisController) AskQuestion(ctx *gin.Context) {
	var body askBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(body.Question) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	result, err := ac.orchestrator.AskQuestion(ctx.Request.Context(), service.AskRequest{
		DocumentID:   ctx.Param("id"),
		Question:     strings.TrimSpace(body.Question),
		ContextLimit: body.ContextLimit,
	})
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

type alertsBody struct {
	SeverityThreshold string `json:"severity_threshold"`
}

// GetAlerts returns risk alerts at or above the requested severity.
func (ac *AnalysisController) GetAlerts(ctx *gin.Context) {
	var body alertsBody
	_ = ctx.ShouldBindJSON(&body)

	result, err := ac.orchestrator.FetchAlerts(ctx.Request.Context(), service.AlertsRequest{
		DocumentID:        ctx.Param("id"),
		SeverityThreshold: riskLevelParam(body.SeverityThreshold),
	})
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// QAHistory returns the full question and answer history, oldest first.
func (ac *AnalysisController) QAHistory(ctx *gin.Context) {
	history := ac.orchestrator.Store().QAHistory()
	ctx.JSON(http.StatusOK, gin.H{
		"history": history,
		"total":   len(history),
	})
}

// Health reports the console's own liveness and, when reachable, the
// analysis service's health.
func (ac *AnalysisController) Health(ctx *gin.Context) {
	response := gin.H{"status": "healthy"}
	if backend, err := ac.orchestrator.CheckHealth(ctx.Request.Context()); err != nil {
		response["backend"] = gin.H{"status": "unreachable"}
	} else {
		response["backend"] = backend
	}
	ctx.JSON(http.StatusOK, response)
}
