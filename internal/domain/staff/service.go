package staff

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/session"
	"assettrack/pkg/logger"
)

// SignedInStaff bundles the staff record with the issued session token.
type SignedInStaff struct {
	Staff     *Staff
	Token     string
	ExpiresAt time.Time
}

// Service provides staff directory and authentication logic.
type Service struct {
	repo   Repository
	tokens *TokenService
}

// NewService creates a staff service.
func NewService(repo Repository, tokens *TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// SignIn authenticates a staff member by code and password.
func (s *Service) SignIn(ctx context.Context, code, password string) (*SignedInStaff, error) {
	if code == "" || password == "" {
		return nil, apperror.NewValidation("code and password are required")
	}

	st, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !st.IsActive {
		return nil, apperror.NewUnauthorized("account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Generate(st.Code, session.Role(st.Role), st.Dept, "")
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "staff signed in", "code", st.Code, "role", st.Role, "dept", st.Dept)
	return &SignedInStaff{Staff: st, Token: token, ExpiresAt: expiresAt}, nil
}

// LinkLogin resolves a deep-link slug into a kiosk session.
// The resulting session restricts navigation to the entry screen regardless
// of the staff member's role.
func (s *Service) LinkLogin(ctx context.Context, slug string) (*SignedInStaff, error) {
	if slug == "" {
		return nil, apperror.NewValidation("link slug is required")
	}

	st, err := s.repo.GetByLinkSlug(ctx, slug)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("unknown link")
		}
		return nil, err
	}
	if !st.IsActive {
		return nil, apperror.NewUnauthorized("account disabled")
	}

	token, expiresAt, err := s.tokens.Generate(st.Code, session.Role(st.Role), st.Dept, st.Code)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "link login", "code", st.Code)
	return &SignedInStaff{Staff: st, Token: token, ExpiresAt: expiresAt}, nil
}

// Create registers a new staff member with a bcrypt password hash and a
// fresh deep-link slug.
func (s *Service) Create(ctx context.Context, st *Staff, password string) error {
	if err := st.Validate(ctx); err != nil {
		return err
	}
	if password == "" {
		return apperror.NewValidation("password is required").WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}

	st.ID = id.New()
	st.PasswordHash = string(hash)
	st.IsActive = true
	if st.LinkSlug == "" {
		st.LinkSlug = id.New().String()
	}
	st.CreatedDate = time.Now()

	if err := s.repo.Create(ctx, st); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewDatabase(err)
	}
	return nil
}

// ListActive returns all active staff, for the reminder job and admin screens.
func (s *Service) ListActive(ctx context.Context) ([]*Staff, error) {
	return s.repo.ListActive(ctx)
}
