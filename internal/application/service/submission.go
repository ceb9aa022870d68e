package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hqops/approvalflow/internal/application/dispatcher"
	"github.com/hqops/approvalflow/internal/application/port"
	"github.com/hqops/approvalflow/internal/domain/entity"
	"github.com/hqops/approvalflow/internal/domain/event"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// CreateRequest describes a new transaction submission. Payload is opaque to
// the engine; it is stored and returned but never inspected for routing.
type CreateRequest struct {
	Type              workflow.Type
	SubjectEmployeeID string
	CreatedBy         string
	Payload           json.RawMessage
	Note              string
}

// SubmissionService creates transactions at their type's first pending stage.
type SubmissionService interface {
	Create(ctx context.Context, req CreateRequest) (*entity.Transaction, error)
}

type submissionService struct {
	store   port.TransactionStore
	table   workflow.Table
	emitter dispatcher.Dispatcher
	logger  Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(store port.TransactionStore, table workflow.Table, emitter dispatcher.Dispatcher, logger Logger) SubmissionService {
	return &submissionService{
		store:   store,
		table:   table,
		emitter: emitter,
		logger:  logger,
	}
}

// Create persists a new transaction with its initial chain entry. The store
// assigns the type-prefixed ref_no serial inside the same write.
func (s *submissionService) Create(ctx context.Context, req CreateRequest) (*entity.Transaction, error) {
	rule, ok := s.table.Rule(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", workflow.ErrInvalidRouting, req.Type)
	}
	if req.SubjectEmployeeID == "" {
		return nil, fmt.Errorf("subject employee is required")
	}
	if req.CreatedBy == "" {
		return nil, fmt.Errorf("submitter is required")
	}

	payload := req.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	now := time.Now()
	first := rule.First()
	tx := &entity.Transaction{
		ID:                uuid.NewString(),
		Type:              req.Type,
		Status:            first,
		CurrentStage:      first.Label(),
		SubjectEmployeeID: req.SubjectEmployeeID,
		Payload:           payload,
		CreatedBy:         req.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
		Chain: []entity.ApprovalEntry{{
			Stage:      first,
			ApproverID: req.CreatedBy,
			Role:       workflow.RoleEmployee,
			Action:     workflow.ActionCreate,
			Note:       req.Note,
			CreatedAt:  now,
		}},
	}
	tx.Chain[0].TransactionID = tx.ID

	if err := s.store.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to create transaction", "error", err, "type", req.Type)
		return nil, err
	}

	s.logger.Info("Transaction created",
		"transaction_id", tx.ID,
		"ref_no", tx.RefNo,
		"type", tx.Type,
		"stage", tx.CurrentStage,
	)

	s.emitter.DispatchAsync(ctx, event.New(event.TypeTransactionCreated, tx.ID, tx.RefNo, tx.Type, "", tx.Status, req.CreatedBy))
	return tx, nil
}
