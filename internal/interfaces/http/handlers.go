package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hqops/approvalflow/internal/application/port"
	"github.com/hqops/approvalflow/internal/application/service"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// Actor identity headers, filled in by the upstream auth layer.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine     service.ApprovalEngine
	submission service.SubmissionService
	query      service.QueryService
	logger     Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(engine service.ApprovalEngine, submission service.SubmissionService, query service.QueryService, logger Logger) *Handlers {
	return &Handlers{
		engine:     engine,
		submission: submission,
		query:      query,
		logger:     logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateTransactionRequest is the body of POST /api/transactions
type CreateTransactionRequest struct {
	Type              string          `json:"type" binding:"required"`
	SubjectEmployeeID string          `json:"subject_employee_id" binding:"required"`
	Payload           json.RawMessage `json:"payload"`
	Note              string          `json:"note"`
}

// SubmitActionRequest is the body of POST /api/transactions/:id/actions
type SubmitActionRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

// ListTransactionsRequest represents query parameters for listing transactions
type ListTransactionsRequest struct {
	Status     string `form:"status"`
	Type       string `form:"type"`
	EmployeeID string `form:"employee_id"`
	RefNo      string `form:"ref_no"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateTransaction handles POST /api/transactions
func (h *Handlers) CreateTransaction(c *gin.Context) {
	actorID, _, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	txType := workflow.Type(req.Type)
	if !txType.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unsupported transaction type"})
		return
	}

	tx, err := h.submission.Create(c.Request.Context(), service.CreateRequest{
		Type:              txType,
		SubjectEmployeeID: req.SubjectEmployeeID,
		CreatedBy:         actorID,
		Payload:           req.Payload,
		Note:              req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: tx})
}

// SubmitAction handles POST /api/transactions/:id/actions
func (h *Handlers) SubmitAction(c *gin.Context) {
	actorID, actorRole, ok := h.actor(c)
	if !ok {
		return
	}

	var req SubmitActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	action, ok := workflow.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown action"})
		return
	}

	tx, err := h.engine.Submit(c.Request.Context(), service.ActionRequest{
		TransactionID: c.Param("id"),
		ActorID:       actorID,
		ActorRole:     actorRole,
		Action:        action,
		Note:          req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tx})
}

// ListTransactions handles GET /api/transactions
func (h *Handlers) ListTransactions(c *gin.Context) {
	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	txs, err := h.query.List(c.Request.Context(), port.ListFilter{
		Status:            workflow.Status(req.Status),
		Type:              workflow.Type(req.Type),
		SubjectEmployeeID: req.EmployeeID,
		RefNo:             req.RefNo,
		Limit:             req.Limit,
		Offset:            req.Offset,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: txs})
}

// GetTransaction handles GET /api/transactions/:id
func (h *Handlers) GetTransaction(c *gin.Context) {
	tx, err := h.query.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tx})
}

// GetTransactionByRefNo handles GET /api/transactions/ref/:ref_no
func (h *Handlers) GetTransactionByRefNo(c *gin.Context) {
	tx, err := h.query.GetByRefNo(c.Request.Context(), c.Param("ref_no"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tx})
}

// actor extracts the opaque actor identity supplied by the auth collaborator
func (h *Handlers) actor(c *gin.Context) (string, workflow.Role, bool) {
	actorID := c.GetHeader(headerActorID)
	actorRole := c.GetHeader(headerActorRole)
	if actorID == "" || actorRole == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing actor identity headers"})
		return "", "", false
	}
	return actorID, workflow.Role(actorRole), true
}

// respondError maps domain errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrAlreadyFinalized),
		errors.Is(err, workflow.ErrAlreadyActed),
		errors.Is(err, workflow.ErrStaleState):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}
