// Package transaction_repo provides the PostgreSQL implementation of the
// transaction repository.
package transaction_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/transaction"
	"assettrack/internal/infrastructure/storage/postgres"
)

const tableName = "transactions"

var selectCols = []string{
	"id", "transaction_date", "parts_day", "room", "transaction_type",
	"asset_year", "asset_code", "staff_code", "note", "notified_at",
	"is_deleted", "deleted_at", "deleted_by", "change_logs",
	"created_date", "updated_date",
}

// Repo implements transaction.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a transaction repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ transaction.Repository = (*Repo)(nil)

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func (r *Repo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func rowValues(tx *transaction.Transaction) []any {
	return []any{
		tx.ID, tx.TransactionDate, tx.PartsDay, tx.Room, tx.TransactionType,
		tx.AssetYear, tx.AssetCode, tx.StaffCode, tx.Note, tx.NotifiedAt,
		tx.IsDeleted, tx.DeletedAt, tx.DeletedBy, tx.ChangeLogs,
		tx.CreatedDate, tx.UpdatedDate,
	}
}

// Create inserts a single row.
func (r *Repo) Create(ctx context.Context, tx *transaction.Transaction) error {
	return r.InsertBatch(ctx, []*transaction.Transaction{tx})
}

// InsertBatch inserts rows in one multi-values statement.
func (r *Repo) InsertBatch(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(tableName).
		Columns(selectCols...)
	for _, tx := range txs {
		q = q.Values(rowValues(tx)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", tableName, err)
	}
	return nil
}

// Update rewrites a row by identity.
func (r *Repo) Update(ctx context.Context, tx *transaction.Transaction) error {
	q := r.Builder().
		Update(tableName).
		Set("transaction_date", tx.TransactionDate).
		Set("parts_day", tx.PartsDay).
		Set("room", tx.Room).
		Set("transaction_type", tx.TransactionType).
		Set("asset_year", tx.AssetYear).
		Set("asset_code", tx.AssetCode).
		Set("staff_code", tx.StaffCode).
		Set("note", tx.Note).
		Set("notified_at", tx.NotifiedAt).
		Set("is_deleted", tx.IsDeleted).
		Set("deleted_at", tx.DeletedAt).
		Set("deleted_by", tx.DeletedBy).
		Set("change_logs", tx.ChangeLogs).
		Set("updated_date", tx.UpdatedDate).
		Where(squirrel.Eq{"id": tx.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(tableName, tx.ID.String())
	}
	return nil
}

// GetByID retrieves a row by identity.
func (r *Repo) GetByID(ctx context.Context, txID id.ID) (*transaction.Transaction, error) {
	q := r.Builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"id": txID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	tx := &transaction.Transaction{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, tx, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(tableName, txID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return tx, nil
}

// ListByNotifiedRange returns rows whose notified_at falls in [start, end).
func (r *Repo) ListByNotifiedRange(ctx context.Context, start, end time.Time) ([]*transaction.Transaction, error) {
	q := r.Builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.GtOrEq{"notified_at": start}).
		Where(squirrel.Lt{"notified_at": end}).
		OrderBy("notified_at ASC")

	return r.list(ctx, q)
}

// ListByDate returns rows whose transaction_date falls in [start, end).
func (r *Repo) ListByDate(ctx context.Context, start, end time.Time, includeDeleted bool) ([]*transaction.Transaction, error) {
	q := r.Builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.GtOrEq{"transaction_date": start}).
		Where(squirrel.Lt{"transaction_date": end}).
		OrderBy("is_deleted ASC", "notified_at ASC")
	if !includeDeleted {
		q = q.Where(squirrel.Eq{"is_deleted": false})
	}

	return r.list(ctx, q)
}

// HardDelete removes a row permanently.
func (r *Repo) HardDelete(ctx context.Context, txID id.ID) error {
	q := r.Builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": txID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(tableName, txID.String())
	}
	return nil
}

func (r *Repo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*transaction.Transaction, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txs []*transaction.Transaction
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &txs, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", tableName, err)
	}
	return txs, nil
}
