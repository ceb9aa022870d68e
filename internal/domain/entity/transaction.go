package entity

import (
	"encoding/json"
	"time"

	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// Transaction is the unit of work flowing through the approval engine.
type Transaction struct {
	ID                string            `json:"id"`
	RefNo             string            `json:"ref_no"`
	Type              workflow.Type     `json:"type"`
	Status            workflow.Status   `json:"status"`
	CurrentStage      string            `json:"current_stage"`
	SubjectEmployeeID string            `json:"subject_employee_id"`
	Payload           json.RawMessage   `json:"payload"`
	Chain             []ApprovalEntry   `json:"approval_chain"`
	CreatedBy         string            `json:"created_by"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ApprovalEntry is one record in a transaction's append-only approval chain.
type ApprovalEntry struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Stage         workflow.Status `json:"stage"`
	ApproverID    string          `json:"approver_id"`
	Role          workflow.Role   `json:"role"`
	Action        workflow.Action `json:"action"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsTerminal returns true if the transaction accepts no further mutating actions
func (t *Transaction) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// ActedAt returns true if the actor already recorded an action at the given stage.
// The store enforces the same constraint atomically; this check exists so
// validation failures stay side-effect free.
func (t *Transaction) ActedAt(stage workflow.Status, actorID string) bool {
	for _, e := range t.Chain {
		if e.Stage == stage && e.ApproverID == actorID && e.Action != workflow.ActionCreate {
			return true
		}
	}
	return false
}

// Actions returns the chain's actions in recorded order, for replay against
// the transaction's routing rule.
func (t *Transaction) Actions() []workflow.Action {
	actions := make([]workflow.Action, 0, len(t.Chain))
	for _, e := range t.Chain {
		actions = append(actions, e.Action)
	}
	return actions
}
