// Package staff provides the staff directory and the sign-in, sign-out and
// link-login flows that establish the cookie session.
package staff

import (
	"context"
	"strings"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/session"
)

// Staff is a member of the organization allowed into the app.
type Staff struct {
	ID       id.ID  `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Role     string `db:"role" json:"role"`
	Dept     string `db:"dept" json:"dept"`
	IsActive bool   `db:"is_active" json:"isActive"`

	// PasswordHash is the bcrypt hash used by the sign-in flow.
	PasswordHash string `db:"password_hash" json:"-"`

	// LinkSlug is the per-user deep-link token for kiosk mode entry.
	LinkSlug string `db:"link_slug" json:"-"`

	CreatedDate time.Time `db:"created_date" json:"createdDate"`
}

// Validate implements basic field validation.
func (s *Staff) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Code) == "" {
		return apperror.NewValidation("staff code is required").WithDetail("field", "code")
	}
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("staff name is required").WithDetail("field", "name")
	}
	switch session.Role(s.Role) {
	case session.RoleAdmin, session.RoleUser:
	default:
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", s.Role)
	}
	return nil
}

// Repository defines persistence for staff records.
type Repository interface {
	Create(ctx context.Context, st *Staff) error
	GetByCode(ctx context.Context, code string) (*Staff, error)
	GetByLinkSlug(ctx context.Context, slug string) (*Staff, error)
	ListActive(ctx context.Context) ([]*Staff, error)
}
