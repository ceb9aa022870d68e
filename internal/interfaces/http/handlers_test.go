package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqops/approvalflow/internal/application/port"
	"github.com/hqops/approvalflow/internal/application/service"
	"github.com/hqops/approvalflow/internal/domain/entity"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockEngine struct {
	submitFn func(ctx context.Context, req service.ActionRequest) (*entity.Transaction, error)
}

func (m *mockEngine) Submit(ctx context.Context, req service.ActionRequest) (*entity.Transaction, error) {
	return m.submitFn(ctx, req)
}

type mockSubmission struct {
	createFn func(ctx context.Context, req service.CreateRequest) (*entity.Transaction, error)
}

func (m *mockSubmission) Create(ctx context.Context, req service.CreateRequest) (*entity.Transaction, error) {
	return m.createFn(ctx, req)
}

type mockQuery struct {
	listFn       func(ctx context.Context, filter port.ListFilter) ([]*entity.Transaction, error)
	getFn        func(ctx context.Context, id string) (*entity.Transaction, error)
	getByRefNoFn func(ctx context.Context, refNo string) (*entity.Transaction, error)
}

func (m *mockQuery) List(ctx context.Context, filter port.ListFilter) ([]*entity.Transaction, error) {
	return m.listFn(ctx, filter)
}

func (m *mockQuery) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	return m.getFn(ctx, id)
}

func (m *mockQuery) GetByRefNo(ctx context.Context, refNo string) (*entity.Transaction, error) {
	return m.getByRefNoFn(ctx, refNo)
}

func sampleTx() *entity.Transaction {
	now := time.Now().UTC()
	return &entity.Transaction{
		ID:                "tx-1",
		RefNo:             "LR-000001",
		Type:              workflow.TypeLeaveRequest,
		Status:            workflow.StatusPendingSupervisor,
		CurrentStage:      "supervisor",
		SubjectEmployeeID: "emp-1",
		Payload:           json.RawMessage(`{}`),
		CreatedBy:         "emp-1",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func newTestServer(engine service.ApprovalEngine, submission service.SubmissionService, query service.QueryService) *Server {
	return NewServer(ServerConfig{}, engine, submission, query, noopLogger{})
}

func doRequest(s *Server, method, path string, body interface{}, withActor bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withActor {
		req.Header.Set(headerActorID, "sup-1")
		req.Header.Set(headerActorRole, "SUPERVISOR")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHandlers_HealthCheck(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestHandlers_CreateTransaction(t *testing.T) {
	submission := &mockSubmission{
		createFn: func(ctx context.Context, req service.CreateRequest) (*entity.Transaction, error) {
			assert.Equal(t, workflow.TypeLeaveRequest, req.Type)
			assert.Equal(t, "emp-1", req.SubjectEmployeeID)
			assert.Equal(t, "sup-1", req.CreatedBy)
			return sampleTx(), nil
		},
	}
	s := newTestServer(nil, submission, nil)

	body := CreateTransactionRequest{
		Type:              "LEAVE_REQUEST",
		SubjectEmployeeID: "emp-1",
	}
	w := doRequest(s, http.MethodPost, "/api/transactions", body, true)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandlers_CreateTransaction_MissingActor(t *testing.T) {
	s := newTestServer(nil, &mockSubmission{}, nil)

	w := doRequest(s, http.MethodPost, "/api/transactions",
		CreateTransactionRequest{Type: "LEAVE_REQUEST", SubjectEmployeeID: "emp-1"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_CreateTransaction_UnknownType(t *testing.T) {
	s := newTestServer(nil, &mockSubmission{}, nil)

	w := doRequest(s, http.MethodPost, "/api/transactions",
		CreateTransactionRequest{Type: "bogus", SubjectEmployeeID: "emp-1"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_SubmitAction(t *testing.T) {
	engine := &mockEngine{
		submitFn: func(ctx context.Context, req service.ActionRequest) (*entity.Transaction, error) {
			assert.Equal(t, "tx-1", req.TransactionID)
			assert.Equal(t, workflow.ActionApprove, req.Action)
			assert.Equal(t, workflow.RoleSupervisor, req.ActorRole)
			tx := sampleTx()
			tx.Status = workflow.StatusPendingOps
			return tx, nil
		},
	}
	s := newTestServer(engine, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/transactions/tx-1/actions",
		SubmitActionRequest{Action: "APPROVE"}, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlers_SubmitAction_UnknownAction(t *testing.T) {
	s := newTestServer(&mockEngine{}, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/transactions/tx-1/actions",
		SubmitActionRequest{Action: "FROB"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_SubmitAction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", workflow.ErrNotFound, http.StatusNotFound},
		{"unauthorized", workflow.ErrUnauthorized, http.StatusForbidden},
		{"already finalized", workflow.ErrAlreadyFinalized, http.StatusConflict},
		{"already acted", workflow.ErrAlreadyActed, http.StatusConflict},
		{"stale state", workflow.ErrStaleState, http.StatusConflict},
		{"internal", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockEngine{
				submitFn: func(ctx context.Context, req service.ActionRequest) (*entity.Transaction, error) {
					return nil, fmt.Errorf("wrapped: %w", tt.err)
				},
			}
			s := newTestServer(engine, nil, nil)

			w := doRequest(s, http.MethodPost, "/api/transactions/tx-1/actions",
				SubmitActionRequest{Action: "APPROVE"}, true)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal error", resp.Error, "internal details must not leak")
			}
		})
	}
}

func TestHandlers_GetTransaction(t *testing.T) {
	query := &mockQuery{
		getFn: func(ctx context.Context, id string) (*entity.Transaction, error) {
			assert.Equal(t, "tx-1", id)
			return sampleTx(), nil
		},
	}
	s := newTestServer(nil, nil, query)

	w := doRequest(s, http.MethodGet, "/api/transactions/tx-1", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlers_GetTransaction_NotFound(t *testing.T) {
	query := &mockQuery{
		getFn: func(ctx context.Context, id string) (*entity.Transaction, error) {
			return nil, fmt.Errorf("%w: %s", workflow.ErrNotFound, id)
		},
	}
	s := newTestServer(nil, nil, query)

	w := doRequest(s, http.MethodGet, "/api/transactions/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_GetTransactionByRefNo(t *testing.T) {
	query := &mockQuery{
		getByRefNoFn: func(ctx context.Context, refNo string) (*entity.Transaction, error) {
			assert.Equal(t, "LR-000001", refNo)
			return sampleTx(), nil
		},
	}
	s := newTestServer(nil, nil, query)

	w := doRequest(s, http.MethodGet, "/api/transactions/ref/LR-000001", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlers_ListTransactions(t *testing.T) {
	query := &mockQuery{
		listFn: func(ctx context.Context, filter port.ListFilter) ([]*entity.Transaction, error) {
			assert.Equal(t, workflow.StatusPendingSupervisor, filter.Status)
			assert.Equal(t, workflow.TypeLeaveRequest, filter.Type)
			assert.Equal(t, "emp-1", filter.SubjectEmployeeID)
			assert.Equal(t, 5, filter.Limit)
			return []*entity.Transaction{sampleTx()}, nil
		},
	}
	s := newTestServer(nil, nil, query)

	w := doRequest(s, http.MethodGet,
		"/api/transactions?status=PENDING_SUPERVISOR&type=LEAVE_REQUEST&employee_id=emp-1&limit=5", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}
