package staff

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/session"
)

type fakeStaffRepo struct {
	byCode map[string]*Staff
	bySlug map[string]*Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byCode: map[string]*Staff{}, bySlug: map[string]*Staff{}}
}

func (f *fakeStaffRepo) Create(ctx context.Context, st *Staff) error {
	f.byCode[st.Code] = st
	f.bySlug[st.LinkSlug] = st
	return nil
}

func (f *fakeStaffRepo) GetByCode(ctx context.Context, code string) (*Staff, error) {
	if st, ok := f.byCode[code]; ok {
		return st, nil
	}
	return nil, apperror.NewNotFound("staff", code)
}

func (f *fakeStaffRepo) GetByLinkSlug(ctx context.Context, slug string) (*Staff, error) {
	if st, ok := f.bySlug[slug]; ok {
		return st, nil
	}
	return nil, apperror.NewNotFound("staff", slug)
}

func (f *fakeStaffRepo) ListActive(ctx context.Context) ([]*Staff, error) {
	var out []*Staff
	for _, st := range f.byCode {
		if st.IsActive {
			out = append(out, st)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *fakeStaffRepo) {
	t.Helper()
	repo := newFakeStaffRepo()
	tokens := NewTokenService(DefaultTokenConfig("test-secret"))
	return NewService(repo, tokens), repo
}

func seedStaff(t *testing.T, repo *fakeStaffRepo, code, password, role, dept string) *Staff {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	st := &Staff{
		ID:           id.New(),
		Code:         code,
		Name:         "Test Staff",
		Role:         role,
		Dept:         dept,
		IsActive:     true,
		PasswordHash: string(hash),
		LinkSlug:     "slug-" + code,
	}
	repo.byCode[code] = st
	repo.bySlug[st.LinkSlug] = st
	return st
}

func TestSignIn(t *testing.T) {
	svc, repo := newTestService(t)
	seedStaff(t, repo, "NV012", "secret", "user", session.DeptTreasury)
	ctx := context.Background()

	signed, err := svc.SignIn(ctx, "NV012", "secret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if signed.Token == "" {
		t.Fatal("no token issued")
	}

	// The token round-trips back into the same session fields.
	sess, err := svc.tokens.Validate(signed.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if sess.StaffCode != "NV012" || sess.Role != session.RoleUser || sess.Department != session.DeptTreasury {
		t.Errorf("session = %+v, want NV012/user/NQ", sess)
	}
	if sess.LinkUserPresent() {
		t.Error("password sign-in must not create a link session")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc, repo := newTestService(t)
	seedStaff(t, repo, "NV012", "secret", "user", session.DeptManagement)

	_, err := svc.SignIn(context.Background(), "NV012", "wrong")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestSignIn_UnknownCodeLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SignIn(context.Background(), "NOPE", "whatever")
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("err = %v, want unauthorized (no account enumeration)", err)
	}
}

func TestSignIn_DisabledAccount(t *testing.T) {
	svc, repo := newTestService(t)
	st := seedStaff(t, repo, "NV012", "secret", "user", "")
	st.IsActive = false

	if _, err := svc.SignIn(context.Background(), "NV012", "secret"); err == nil {
		t.Fatal("expected error for disabled account")
	}
}

func TestLinkLogin_IssuesKioskSession(t *testing.T) {
	svc, repo := newTestService(t)
	seedStaff(t, repo, "NV099", "secret", "admin", "")

	signed, err := svc.LinkLogin(context.Background(), "slug-NV099")
	if err != nil {
		t.Fatalf("link login failed: %v", err)
	}

	sess, err := svc.tokens.Validate(signed.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	// Kiosk session restricts navigation even for admins.
	if !sess.LinkUserPresent() {
		t.Error("link login must mark the session as link-based")
	}
}

func TestCreate_HashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	st := &Staff{Code: "NV100", Name: "New Staff", Role: "user", Dept: session.DeptManagement}
	if err := svc.Create(context.Background(), st, "initial-password"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored := repo.byCode["NV100"]
	if stored.PasswordHash == "initial-password" || stored.PasswordHash == "" {
		t.Error("password stored unhashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("initial-password")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if stored.LinkSlug == "" {
		t.Error("link slug not generated")
	}
}

func TestValidateToken_RejectsTampered(t *testing.T) {
	tokens := NewTokenService(DefaultTokenConfig("secret-a"))
	other := NewTokenService(DefaultTokenConfig("secret-b"))

	token, _, err := tokens.Generate("NV012", session.RoleAdmin, "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := other.Validate(token); err == nil {
		t.Fatal("token signed with another secret must not validate")
	}
}
