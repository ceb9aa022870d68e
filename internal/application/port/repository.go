package port

import (
	"context"

	"github.com/hqops/approvalflow/internal/domain/entity"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// ListFilter narrows the transactions returned by TransactionStore.List.
// Zero values mean "no filter". RefNo matches as a substring.
type ListFilter struct {
	Status            workflow.Status
	Type              workflow.Type
	SubjectEmployeeID string
	RefNo             string
	Limit             int
	Offset            int
}

// TransactionStore defines persistence for transactions and their approval
// chains. Apply is the sole mutation primitive for status, current_stage and
// the chain: it succeeds only if the stored status still equals expected at
// write time, appends the entry in the same atomic write, and returns
// workflow.ErrStaleState on a concurrent change, workflow.ErrAlreadyActed if
// the actor already acted at the stage, or workflow.ErrNotFound.
type TransactionStore interface {
	// Create persists a new transaction with its initial chain entry and
	// assigns the type-prefixed ref_no serial.
	Create(ctx context.Context, tx *entity.Transaction) error

	// GetByID retrieves the full record including the approval chain.
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// GetByRefNo retrieves the full record by its human-facing serial.
	GetByRefNo(ctx context.Context, refNo string) (*entity.Transaction, error)

	// Apply performs the conditional atomic transition.
	Apply(ctx context.Context, id string, expected, next workflow.Status, stage string, entry *entity.ApprovalEntry) (*entity.Transaction, error)

	// List retrieves transaction summaries (chains not loaded), newest first.
	List(ctx context.Context, filter ListFilter) ([]*entity.Transaction, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
