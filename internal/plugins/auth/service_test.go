package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finchley/tally/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn                func(ctx context.Context, user *User) error
	findByIDFn              func(ctx context.Context, id string) (*User, error)
	findByUsernameFn        func(ctx context.Context, username string) (*User, error)
	usernameOrEmailExistsFn func(ctx context.Context, username, email string) (bool, error)
	updateLastLoginFn       func(ctx context.Context, id string) error
	listUsersFn             func(ctx context.Context) ([]User, error)
	updateApprovalFn        func(ctx context.Context, id string, approved bool) error
	updateActiveFn          func(ctx context.Context, id string, active bool) error
	updateRoleFn            func(ctx context.Context, id string, role string) error
	countUsersFn            func(ctx context.Context) (int, error)
	countAdminsFn           func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	if m.usernameOrEmailExistsFn != nil {
		return m.usernameOrEmailExistsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]User, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateApproval(ctx context.Context, id string, approved bool) error {
	if m.updateApprovalFn != nil {
		return m.updateApprovalFn(ctx, id, approved)
	}
	return nil
}

func (m *mockUserRepo) UpdateActive(ctx context.Context, id string, active bool) error {
	if m.updateActiveFn != nil {
		return m.updateActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role string) error {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return nil
}

func (m *mockUserRepo) CountUsers(ctx context.Context) (int, error) {
	if m.countUsersFn != nil {
		return m.countUsersFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) CountAdmins(ctx context.Context) (int, error) {
	if m.countAdminsFn != nil {
		return m.countAdminsFn(ctx)
	}
	return 0, nil
}

// --- Test Helpers ---

// fixedUsers builds a repo over a static user set keyed by ID.
func fixedUsers(users ...*User) *mockUserRepo {
	byID := make(map[string]*User)
	byName := make(map[string]*User)
	for _, u := range users {
		byID[u.ID] = u
		byName[u.Username] = u
	}
	return &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*User, error) {
			if u, ok := byID[id]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
		findByUsernameFn: func(_ context.Context, name string) (*User, error) {
			if u, ok := byName[name]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}
}

func newTestService(repo UserRepository) (*authService, SessionStore) {
	sessions := NewMemorySessionStore()
	svc := &authService{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: 24 * time.Hour,
	}
	return svc, sessions
}

func testAdmin(t *testing.T) *User {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &User{
		ID:           "admin-1",
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
		IsApproved:   true,
		CreatedAt:    time.Now().UTC(),
	}
}

func testUser(t *testing.T, id, name string) *User {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &User{
		ID:           id,
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: hash,
		Role:         RoleUser,
		IsActive:     true,
		IsApproved:   true,
		CreatedAt:    time.Now().UTC(),
	}
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	var created *User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, user *User) error {
			created = user
			return nil
		},
	}

	svc, _ := newTestService(repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@X.com",
		Password: "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected user ID to be generated")
	}
	if user.Email != "alice@x.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.IsApproved {
		t.Error("freshly registered user must not be approved")
	}
	if !user.IsActive {
		t.Error("freshly registered user must be active")
	}
	if user.Role != RoleUser {
		t.Errorf("expected role user, got %s", user.Role)
	}
	if created == nil || created.PasswordHash == "" {
		t.Error("expected password hash to be persisted")
	}
	if created.PasswordHash == "secure-password-123" {
		t.Error("password must never be stored in plaintext")
	}
}

func TestRegister_DuplicateFailsWithoutMutation(t *testing.T) {
	createCalled := false
	repo := &mockUserRepo{
		usernameOrEmailExistsFn: func(_ context.Context, _, _ string) (bool, error) {
			return true, nil
		},
		createFn: func(_ context.Context, _ *User) error {
			createCalled = true
			return nil
		},
	}

	svc, _ := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secure-password-123",
	})
	assertAppError(t, err, 409)
	if createCalled {
		t.Error("duplicate registration must not mutate the store")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(&mockUserRepo{})
	cases := []RegisterInput{
		{Username: "ab", Email: "a@x.com", Password: "secure-password"},
		{Username: "alice", Email: "not-an-email", Password: "secure-password"},
		{Username: "alice", Email: "a@x.com", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		assertAppError(t, err, 422)
	}
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	admin := testAdmin(t)
	repo := fixedUsers(admin)
	stamped := false
	repo.updateLastLoginFn = func(_ context.Context, id string) error {
		stamped = id == admin.ID
		return nil
	}

	svc, sessions := newTestService(repo)
	token, user, err := svc.Login(context.Background(), LoginInput{
		Username: "admin",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected session token")
	}
	if user.ID != admin.ID {
		t.Errorf("expected user %s, got %s", admin.ID, user.ID)
	}
	if !stamped {
		t.Error("expected last_login stamp")
	}

	session, err := sessions.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("expected session in store: %v", err)
	}
	if session.UserID != admin.ID || session.IsImpersonating() {
		t.Error("expected plain session for the logged-in user")
	}
}

func TestLogin_UnknownUserIsGeneric(t *testing.T) {
	svc, _ := newTestService(&mockUserRepo{})
	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "nobody",
		Password: "whatever",
	})
	appErr := assertAppError(t, err, 401)
	// Must not leak which field was wrong: same message as a bad password.
	if appErr.Message != "invalid username or password" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestLogin_WrongPasswordIsGeneric(t *testing.T) {
	svc, sessions := newTestService(fixedUsers(testAdmin(t)))
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "admin",
		Password: "wrong",
	})
	appErr := assertAppError(t, err, 401)
	if appErr.Message != "invalid username or password" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
	if token != "" {
		t.Error("failed login must not return a token")
	}
	_ = sessions
}

func TestLogin_PendingApproval(t *testing.T) {
	pending := testUser(t, "u-1", "alice")
	pending.IsApproved = false

	svc, _ := newTestService(fixedUsers(pending))
	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})
	appErr := assertAppError(t, err, 401)
	if appErr.Message != "your account is pending approval" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestLogin_Deactivated(t *testing.T) {
	inactive := testUser(t, "u-1", "alice")
	inactive.IsActive = false

	svc, _ := newTestService(fixedUsers(inactive))
	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "correct-horse",
	})
	appErr := assertAppError(t, err, 401)
	if appErr.Message != "your account has been deactivated" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestLogin_LastLoginFailureIsNonFatal(t *testing.T) {
	repo := fixedUsers(testAdmin(t))
	repo.updateLastLoginFn = func(_ context.Context, _ string) error {
		return errors.New("db went away")
	}

	svc, _ := newTestService(repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "admin",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login must succeed despite last_login failure: %v", err)
	}
	if token == "" {
		t.Error("expected session token")
	}
}

// --- CheckSession Tests ---

func login(t *testing.T, svc *authService, username string) string {
	t.Helper()
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: username,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return token
}

func TestCheckSession_Valid(t *testing.T) {
	admin := testAdmin(t)
	svc, _ := newTestService(fixedUsers(admin))
	token := login(t, svc, "admin")

	session, user, err := svc.CheckSession(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != admin.ID {
		t.Errorf("expected user %s, got %s", admin.ID, user.ID)
	}
	if session.IsImpersonating() {
		t.Error("fresh session must not be impersonating")
	}
}

func TestCheckSession_MissingToken(t *testing.T) {
	svc, _ := newTestService(&mockUserRepo{})
	_, _, err := svc.CheckSession(context.Background(), "no-such-token")
	assertAppError(t, err, 401)
}

func TestCheckSession_UserRowGoneDestroysSession(t *testing.T) {
	admin := testAdmin(t)
	repo := fixedUsers(admin)
	svc, sessions := newTestService(repo)
	token := login(t, svc, "admin")

	// Simulate the profile row vanishing after the session was created.
	repo.findByIDFn = func(_ context.Context, _ string) (*User, error) {
		return nil, apperror.NewNotFound("user not found")
	}

	_, _, err := svc.CheckSession(context.Background(), token)
	assertAppError(t, err, 401)

	// The half-authenticated session must have been rolled back.
	if _, err := sessions.Get(context.Background(), token); err == nil {
		t.Error("expected session to be destroyed")
	}
}

func TestCheckSession_RevokedApprovalTakesEffect(t *testing.T) {
	admin := testAdmin(t)
	svc, _ := newTestService(fixedUsers(admin))
	token := login(t, svc, "admin")

	// Approval is revoked after login; the change applies at the next
	// session check, not retroactively.
	admin.IsApproved = false
	svc.repo = fixedUsers(admin)

	_, _, err := svc.CheckSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// --- Impersonation Tests ---

func TestImpersonate_NonAdminIsRejected(t *testing.T) {
	user := testUser(t, "u-1", "alice")
	target := testUser(t, "u-2", "bob")
	svc, sessions := newTestService(fixedUsers(user, target))
	token := login(t, svc, "alice")

	_, err := svc.ImpersonateUser(context.Background(), token, "u-2")
	assertAppError(t, err, 403)

	// No state change.
	session, _ := sessions.Get(context.Background(), token)
	if session.IsImpersonating() || session.UserID != "u-1" {
		t.Error("rejected impersonation must not change session state")
	}
}

func TestImpersonate_SelfIsRejected(t *testing.T) {
	admin := testAdmin(t)
	svc, sessions := newTestService(fixedUsers(admin))
	token := login(t, svc, "admin")

	_, err := svc.ImpersonateUser(context.Background(), token, admin.ID)
	assertAppError(t, err, 400)

	session, _ := sessions.Get(context.Background(), token)
	if session.IsImpersonating() {
		t.Error("self-impersonation must not change session state")
	}
}

func TestImpersonate_MissingTarget(t *testing.T) {
	admin := testAdmin(t)
	svc, _ := newTestService(fixedUsers(admin))
	token := login(t, svc, "admin")

	_, err := svc.ImpersonateUser(context.Background(), token, "u-404")
	assertAppError(t, err, 404)
}

func TestImpersonate_RoundTrip(t *testing.T) {
	admin := testAdmin(t)
	target := testUser(t, "u-42", "carol")
	svc, _ := newTestService(fixedUsers(admin, target))
	token := login(t, svc, "admin")

	// Capture the presented admin before impersonating.
	_, before, err := svc.CheckSession(context.Background(), token)
	if err != nil {
		t.Fatalf("check session: %v", err)
	}

	presented, err := svc.ImpersonateUser(context.Background(), token, "u-42")
	if err != nil {
		t.Fatalf("impersonate: %v", err)
	}
	if presented.ID != "u-42" {
		t.Errorf("expected presented user u-42, got %s", presented.ID)
	}

	session, current, err := svc.CheckSession(context.Background(), token)
	if err != nil {
		t.Fatalf("check session while impersonating: %v", err)
	}
	if !session.IsImpersonating() {
		t.Error("expected impersonation overlay")
	}
	if current.ID != "u-42" {
		t.Errorf("expected presented user u-42, got %s", current.ID)
	}

	restored, err := svc.ReturnToAdmin(context.Background(), token)
	if err != nil {
		t.Fatalf("return to admin: %v", err)
	}
	if *restored != *before {
		t.Errorf("restored admin differs from pre-impersonation admin:\n got %+v\nwant %+v", restored, before)
	}

	session, current, err = svc.CheckSession(context.Background(), token)
	if err != nil {
		t.Fatalf("check session after return: %v", err)
	}
	if session.IsImpersonating() {
		t.Error("overlay must be cleared after return")
	}
	if current.ID != admin.ID {
		t.Errorf("expected admin restored, got %s", current.ID)
	}
}

func TestImpersonate_WhileImpersonatingIsRejected(t *testing.T) {
	admin := testAdmin(t)
	a := testUser(t, "u-1", "alice")
	b := testUser(t, "u-2", "bob")
	svc, _ := newTestService(fixedUsers(admin, a, b))
	token := login(t, svc, "admin")

	if _, err := svc.ImpersonateUser(context.Background(), token, "u-1"); err != nil {
		t.Fatalf("first impersonation: %v", err)
	}
	_, err := svc.ImpersonateUser(context.Background(), token, "u-2")
	assertAppError(t, err, 403)
}

func TestReturnToAdmin_NotImpersonating(t *testing.T) {
	admin := testAdmin(t)
	svc, _ := newTestService(fixedUsers(admin))
	token := login(t, svc, "admin")

	_, err := svc.ReturnToAdmin(context.Background(), token)
	assertAppError(t, err, 400)
}

// --- Logout Tests ---

func TestLogout_ClearsImpersonation(t *testing.T) {
	admin := testAdmin(t)
	target := testUser(t, "u-42", "carol")
	svc, sessions := newTestService(fixedUsers(admin, target))
	token := login(t, svc, "admin")

	if _, err := svc.ImpersonateUser(context.Background(), token, "u-42"); err != nil {
		t.Fatalf("impersonate: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The session (and its overlay) is gone entirely.
	if _, err := sessions.Get(context.Background(), token); err == nil {
		t.Error("expected session destroyed on logout")
	}
	_, _, err := svc.CheckSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// Scenario from the product requirements: register -> pending login fails ->
// approve -> login succeeds.
func TestApprovalGateEndToEnd(t *testing.T) {
	users := make(map[string]*User)
	repo := &mockUserRepo{
		createFn: func(_ context.Context, u *User) error {
			cp := *u
			users[u.Username] = &cp
			return nil
		},
		findByUsernameFn: func(_ context.Context, name string) (*User, error) {
			if u, ok := users[name]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}

	svc, _ := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secure-password-123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err = svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "secure-password-123",
	})
	appErr := assertAppError(t, err, 401)
	if appErr.Message != "your account is pending approval" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}

	// Admin approves; the very next login succeeds.
	users["alice"].IsApproved = true
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "secure-password-123",
	})
	if err != nil {
		t.Fatalf("login after approval: %v", err)
	}
	if token == "" {
		t.Error("expected session token after approval")
	}
}
