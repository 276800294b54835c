// Package staff_repo provides the PostgreSQL implementation of the staff
// repository.
package staff_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assettrack/internal/core/apperror"
	"assettrack/internal/domain/staff"
	"assettrack/internal/infrastructure/storage/postgres"
)

const tableName = "staff"

var selectCols = []string{
	"id", "code", "name", "email", "role", "dept",
	"is_active", "password_hash", "link_slug", "created_date",
}

// Repo implements staff.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// New creates a staff repository.
func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

var _ staff.Repository = (*Repo)(nil)

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func (r *Repo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a staff row.
func (r *Repo) Create(ctx context.Context, st *staff.Staff) error {
	q := r.Builder().
		Insert(tableName).
		Columns(selectCols...).
		Values(
			st.ID, st.Code, st.Name, st.Email, st.Role, st.Dept,
			st.IsActive, st.PasswordHash, st.LinkSlug, st.CreatedDate,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewConflict(fmt.Sprintf("staff code %q already exists", st.Code))
		}
		return fmt.Errorf("insert %s: %w", tableName, err)
	}
	return nil
}

// GetByCode retrieves a staff member by their sign-in code.
func (r *Repo) GetByCode(ctx context.Context, code string) (*staff.Staff, error) {
	return r.getBy(ctx, squirrel.Eq{"code": code}, code)
}

// GetByLinkSlug retrieves a staff member by their kiosk link slug.
func (r *Repo) GetByLinkSlug(ctx context.Context, slug string) (*staff.Staff, error) {
	return r.getBy(ctx, squirrel.Eq{"link_slug": slug}, slug)
}

// ListActive returns all active staff ordered by code.
func (r *Repo) ListActive(ctx context.Context) ([]*staff.Staff, error) {
	q := r.Builder().
		Select(selectCols...).
		From(tableName).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*staff.Staff
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", tableName, err)
	}
	return out, nil
}

func (r *Repo) getBy(ctx context.Context, cond squirrel.Eq, ident string) (*staff.Staff, error) {
	q := r.Builder().
		Select(selectCols...).
		From(tableName).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	st := &staff.Staff{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, st, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(tableName, ident)
		}
		return nil, fmt.Errorf("get %s: %w", tableName, err)
	}
	return st, nil
}
