package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hqops/approvalflow/internal/application/dispatcher"
	"github.com/hqops/approvalflow/internal/application/port"
	"github.com/hqops/approvalflow/internal/domain/entity"
	"github.com/hqops/approvalflow/internal/domain/event"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ActionRequest is one caller action against one transaction. Actor identity
// is supplied by the external auth collaborator as an opaque (id, role) pair.
type ActionRequest struct {
	TransactionID string
	ActorID       string
	ActorRole     workflow.Role
	Action        workflow.Action
	Note          string
}

// ApprovalEngine validates and executes actions against transactions.
type ApprovalEngine interface {
	Submit(ctx context.Context, req ActionRequest) (*entity.Transaction, error)
}

type approvalEngine struct {
	store   port.TransactionStore
	table   workflow.Table
	emitter dispatcher.Dispatcher
	logger  Logger
}

// NewApprovalEngine creates a new ApprovalEngine
func NewApprovalEngine(store port.TransactionStore, table workflow.Table, emitter dispatcher.Dispatcher, logger Logger) ApprovalEngine {
	return &approvalEngine{
		store:   store,
		table:   table,
		emitter: emitter,
		logger:  logger,
	}
}

// Submit validates and applies one action. Every validation failure returns
// before anything is written; the only post-validation failure the caller can
// see is ErrStaleState from the store's conditional write, which is not
// retried here: the caller's intended action may no longer be valid against
// the new state.
func (e *approvalEngine) Submit(ctx context.Context, req ActionRequest) (*entity.Transaction, error) {
	tx, err := e.store.GetByID(ctx, req.TransactionID)
	if err != nil {
		e.logger.Error("Failed to load transaction", "error", err, "transaction_id", req.TransactionID)
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", workflow.ErrNotFound, req.TransactionID)
	}

	if tx.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", workflow.ErrAlreadyFinalized, tx.RefNo, tx.Status)
	}

	rule, ok := e.table.Rule(tx.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type %s", workflow.ErrInvalidRouting, tx.Type)
	}

	if tx.ActedAt(tx.Status, req.ActorID) {
		return nil, fmt.Errorf("%w: actor %s at stage %s", workflow.ErrAlreadyActed, req.ActorID, tx.Status)
	}

	if err := e.authorize(tx, rule, req); err != nil {
		return nil, err
	}

	next, err := rule.Transition(tx.Status, req.Action)
	if err != nil {
		return nil, err
	}

	entry := &entity.ApprovalEntry{
		TransactionID: tx.ID,
		Stage:         tx.Status,
		ApproverID:    req.ActorID,
		Role:          req.ActorRole,
		Action:        req.Action,
		Note:          req.Note,
		CreatedAt:     time.Now(),
	}

	updated, err := e.store.Apply(ctx, tx.ID, tx.Status, next, next.Label(), entry)
	if err != nil {
		e.logger.Error("Failed to apply transition",
			"error", err,
			"transaction_id", tx.ID,
			"action", req.Action,
			"from", tx.Status,
			"to", next,
		)
		return nil, err
	}

	e.logger.Info("Transition applied",
		"transaction_id", tx.ID,
		"ref_no", tx.RefNo,
		"action", req.Action,
		"actor_id", req.ActorID,
		"from", tx.Status,
		"to", next,
	)

	e.emit(ctx, tx, next, req.ActorID)
	return updated, nil
}

// authorize checks the actor against the routing rule for the requested
// action. The acceptance sub-stage binds to the subject employee regardless of
// role; cancel binds to the transaction's creator.
func (e *approvalEngine) authorize(tx *entity.Transaction, rule workflow.Rule, req ActionRequest) error {
	if tx.Status == workflow.StatusPendingEmployeeAccept {
		if req.Action != workflow.ActionAccept || req.ActorID != tx.SubjectEmployeeID {
			return fmt.Errorf("%w: acceptance is restricted to the subject employee", workflow.ErrUnauthorized)
		}
		return nil
	}

	stage, ok := rule.StageFor(tx.Status)
	if !ok {
		return fmt.Errorf("%w: status %s is not a stage of type %s", workflow.ErrInvalidRouting, tx.Status, tx.Type)
	}

	switch req.Action {
	case workflow.ActionApprove, workflow.ActionReject, workflow.ActionReturn:
		if !stage.Authorized(req.ActorRole) {
			return fmt.Errorf("%w: role %s at stage %s", workflow.ErrUnauthorized, req.ActorRole, tx.Status)
		}
	case workflow.ActionEscalate:
		if !stage.CanEscalate(req.ActorRole) {
			return fmt.Errorf("%w: role %s cannot escalate from stage %s", workflow.ErrUnauthorized, req.ActorRole, tx.Status)
		}
	case workflow.ActionCancel:
		if req.ActorID != tx.CreatedBy {
			return fmt.Errorf("%w: only the submitter may cancel", workflow.ErrUnauthorized)
		}
	case workflow.ActionAccept:
		return fmt.Errorf("%w: accept is only valid at the acceptance stage", workflow.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: action %s", workflow.ErrUnauthorized, req.Action)
	}

	return nil
}

// emit publishes the transition fire-and-forget; delivery failures never
// affect the already-committed write.
func (e *approvalEngine) emit(ctx context.Context, tx *entity.Transaction, next workflow.Status, actorID string) {
	e.emitter.DispatchAsync(ctx, event.New(event.TypeStageChanged, tx.ID, tx.RefNo, tx.Type, tx.Status, next, actorID))
	if next.IsTerminal() {
		e.emitter.DispatchAsync(ctx, event.New(event.TypeTerminalReached, tx.ID, tx.RefNo, tx.Type, tx.Status, next, actorID))
	}
}
