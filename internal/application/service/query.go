package service

import (
	"context"
	"fmt"

	"github.com/hqops/approvalflow/internal/application/port"
	"github.com/hqops/approvalflow/internal/domain/entity"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

const defaultListLimit = 20
const maxListLimit = 100

// QueryService is the read-only surface over the transaction store. It is
// never consulted for authorization decisions; the engine re-reads the
// authoritative record itself.
type QueryService interface {
	List(ctx context.Context, filter port.ListFilter) ([]*entity.Transaction, error)
	Get(ctx context.Context, id string) (*entity.Transaction, error)
	GetByRefNo(ctx context.Context, refNo string) (*entity.Transaction, error)
}

type queryService struct {
	store  port.TransactionStore
	logger Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(store port.TransactionStore, logger Logger) QueryService {
	return &queryService{store: store, logger: logger}
}

// List retrieves transaction summaries matching the filter
func (s *queryService) List(ctx context.Context, filter port.ListFilter) ([]*entity.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	txs, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list transactions", "error", err)
		return nil, err
	}
	return txs, nil
}

// Get retrieves the full record including the approval chain
func (s *queryService) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get transaction", "error", err, "transaction_id", id)
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", workflow.ErrNotFound, id)
	}
	return tx, nil
}

// GetByRefNo retrieves the full record by its human-facing serial
func (s *queryService) GetByRefNo(ctx context.Context, refNo string) (*entity.Transaction, error) {
	tx, err := s.store.GetByRefNo(ctx, refNo)
	if err != nil {
		s.logger.Error("Failed to get transaction by ref", "error", err, "ref_no", refNo)
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", workflow.ErrNotFound, refNo)
	}
	return tx, nil
}
