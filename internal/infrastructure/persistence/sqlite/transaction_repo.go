package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/hqops/approvalflow/internal/application/port"
	"github.com/hqops/approvalflow/internal/domain/entity"
	"github.com/hqops/approvalflow/internal/domain/workflow"
)

// TransactionRepository implements port.TransactionStore on sqlite.
//
// The conditional transition relies on two database-level constraints:
// the status guard on the UPDATE (lost-update protection) and the
// UNIQUE(transaction_id, stage, approver_id) index on approval_entries
// (one action per actor per stage, enforced inside the atomic write).
type TransactionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB, logger *zap.Logger) port.TransactionStore {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new transaction with its chain entries, assigning the
// type-prefixed ref_no from a per-type counter in the same write.
func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		refNo, err := r.nextRefNo(ctx, tx.Type)
		if err != nil {
			return fmt.Errorf("allocate ref_no: %w", err)
		}
		tx.RefNo = refNo

		query := `
			INSERT INTO transactions (
				id, ref_no, type, status, current_stage,
				subject_employee_id, payload, created_by, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err = r.db.getExecutor(ctx).ExecContext(ctx, query,
			tx.ID,
			tx.RefNo,
			string(tx.Type),
			string(tx.Status),
			tx.CurrentStage,
			tx.SubjectEmployeeID,
			string(tx.Payload),
			tx.CreatedBy,
			tx.CreatedAt,
			tx.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create transaction", zap.Error(err))
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		for i := range tx.Chain {
			if err := r.insertEntry(ctx, &tx.Chain[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// nextRefNo increments the per-type serial counter and formats the ref_no
func (r *TransactionRepository) nextRefNo(ctx context.Context, t workflow.Type) (string, error) {
	ex := r.db.getExecutor(ctx)

	if _, err := ex.ExecContext(ctx, `INSERT OR IGNORE INTO ref_sequences (type, next) VALUES (?, 0)`, string(t)); err != nil {
		return "", err
	}
	if _, err := ex.ExecContext(ctx, `UPDATE ref_sequences SET next = next + 1 WHERE type = ?`, string(t)); err != nil {
		return "", err
	}

	var n int64
	if err := ex.QueryRowContext(ctx, `SELECT next FROM ref_sequences WHERE type = ?`, string(t)).Scan(&n); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%06d", t.RefPrefix(), n), nil
}

// GetByID retrieves a transaction with its approval chain
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.getByColumn(ctx, "id", id)
}

// GetByRefNo retrieves a transaction with its approval chain by ref_no
func (r *TransactionRepository) GetByRefNo(ctx context.Context, refNo string) (*entity.Transaction, error) {
	return r.getByColumn(ctx, "ref_no", refNo)
}

func (r *TransactionRepository) getByColumn(ctx context.Context, column, value string) (*entity.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT id, ref_no, type, status, current_stage,
			subject_employee_id, payload, created_by, created_at, updated_at
		FROM transactions
		WHERE %s = ?
	`, column)

	tx, err := r.scanTransaction(r.db.getExecutor(ctx).QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get transaction", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if err := r.loadChain(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Apply performs the conditional atomic transition: the status update guarded
// by the expected value, plus the chain append, in one database transaction.
func (r *TransactionRepository) Apply(ctx context.Context, id string, expected, next workflow.Status, stage string, entry *entity.ApprovalEntry) (*entity.Transaction, error) {
	var updated *entity.Transaction

	err := r.db.WithTransaction(ctx, func(ctx context.Context) error {
		res, err := r.db.getExecutor(ctx).ExecContext(ctx, `
			UPDATE transactions
			SET status = ?, current_stage = ?, updated_at = ?
			WHERE id = ? AND status = ?
		`, string(next), stage, entry.CreatedAt, id, string(expected))
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if rows == 0 {
			var exists int
			err := r.db.getExecutor(ctx).QueryRowContext(ctx, `SELECT 1 FROM transactions WHERE id = ?`, id).Scan(&exists)
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: %s", workflow.ErrNotFound, id)
			}
			if err != nil {
				return fmt.Errorf("failed to check transaction: %w", err)
			}
			return fmt.Errorf("%w: expected status %s", workflow.ErrStaleState, expected)
		}

		if err := r.insertEntry(ctx, entry); err != nil {
			return err
		}

		updated, err = r.getByColumn(ctx, "id", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// List retrieves transaction summaries matching the filter, newest first.
// Chains are not loaded; detail reads use GetByID.
func (r *TransactionRepository) List(ctx context.Context, filter port.ListFilter) ([]*entity.Transaction, error) {
	query := `
		SELECT id, ref_no, type, status, current_stage,
			subject_employee_id, payload, created_by, created_at, updated_at
		FROM transactions
		WHERE 1=1
	`
	var args []interface{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.SubjectEmployeeID != "" {
		query += " AND subject_employee_id = ?"
		args = append(args, filter.SubjectEmployeeID)
	}
	if filter.RefNo != "" {
		query += " AND ref_no LIKE ?"
		args = append(args, "%"+filter.RefNo+"%")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*entity.Transaction
	for rows.Next() {
		tx, err := r.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// insertEntry appends a chain entry; the unique index turns a double action
// at the same stage into workflow.ErrAlreadyActed.
func (r *TransactionRepository) insertEntry(ctx context.Context, entry *entity.ApprovalEntry) error {
	res, err := r.db.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO approval_entries (
			transaction_id, stage, approver_id, role, action, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.TransactionID,
		string(entry.Stage),
		entry.ApproverID,
		string(entry.Role),
		string(entry.Action),
		entry.Note,
		entry.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: actor %s at stage %s", workflow.ErrAlreadyActed, entry.ApproverID, entry.Stage)
		}
		r.logger.Error("Failed to append approval entry", zap.Error(err))
		return fmt.Errorf("failed to append approval entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// loadChain attaches the transaction's approval chain in recorded order
func (r *TransactionRepository) loadChain(ctx context.Context, tx *entity.Transaction) error {
	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, `
		SELECT id, transaction_id, stage, approver_id, role, action, note, created_at
		FROM approval_entries
		WHERE transaction_id = ?
		ORDER BY id ASC
	`, tx.ID)
	if err != nil {
		r.logger.Error("Failed to load approval chain", zap.String("transaction_id", tx.ID), zap.Error(err))
		return fmt.Errorf("failed to load approval chain: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entity.ApprovalEntry
		var stage, role, action string
		if err := rows.Scan(&e.ID, &e.TransactionID, &stage, &e.ApproverID, &role, &action, &e.Note, &e.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan approval entry: %w", err)
		}
		e.Stage = workflow.Status(stage)
		e.Role = workflow.Role(role)
		e.Action = workflow.Action(action)
		tx.Chain = append(tx.Chain, e)
	}
	return rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *TransactionRepository) scanTransaction(row rowScanner) (*entity.Transaction, error) {
	var tx entity.Transaction
	var txType, status, payload string

	err := row.Scan(
		&tx.ID,
		&tx.RefNo,
		&txType,
		&status,
		&tx.CurrentStage,
		&tx.SubjectEmployeeID,
		&payload,
		&tx.CreatedBy,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = workflow.Type(txType)
	tx.Status = workflow.Status(status)
	tx.Payload = []byte(payload)
	return &tx, nil
}
