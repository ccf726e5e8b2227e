package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/finchley/tally/internal/apperror"
)

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// argon2id parameters tuned for a self-hosted application running on
// modest hardware (2-4 CPU cores, 2-4 GB RAM). These follow OWASP
// recommendations for argon2id: memory=64MB, iterations=3, parallelism=4.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB in KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// AuthService defines the business logic contract for authentication and
// session identity. Handlers call these methods -- they never touch the
// repository or session store directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (token string, user *User, err error)

	// CheckSession validates a token, re-fetches the credential owner, and
	// enforces the approval gate. Returns the session and the *presented*
	// user (the impersonation target while the overlay is set).
	CheckSession(ctx context.Context, token string) (*Session, *User, error)

	Logout(ctx context.Context, token string) error

	// ImpersonateUser swaps the presented identity of an admin's session
	// to the target user. The admin's credential stays valid; only the
	// presented identity changes.
	ImpersonateUser(ctx context.Context, token, targetID string) (*User, error)

	// ReturnToAdmin restores the admin identity saved by ImpersonateUser.
	ReturnToAdmin(ctx context.Context, token string) (*User, error)
}

// authService implements AuthService with argon2id hashing over the
// injected UserRepository and SessionStore. Which backend those are
// (MariaDB/Redis or the local file store) was decided at startup.
type authService struct {
	repo       UserRepository
	sessions   SessionStore
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, sessions SessionStore, sessionTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user account pending admin approval. It validates
// uniqueness of both username and email, hashes the password with
// argon2id, and persists the user with is_approved=false. Registration
// never grants access: login fails with a pending-approval message until
// an admin approves the account.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if len(username) < 3 || len(username) > 50 {
		return nil, apperror.NewValidation("username must be between 3 and 50 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.NewValidation("a valid email address is required")
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters")
	}

	// Check for duplicates before doing expensive hashing.
	exists, err := s.repo.UsernameOrEmailExists(ctx, username, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking username/email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("username or email already exists")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		IsActive:     true,
		IsApproved:   false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered, pending approval",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user by username and password. The approval and
// activation gates are checked before the password so their messages can
// differ, but every credential failure reports the same generic message:
// the caller cannot learn whether the username or the password was wrong.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return "", nil, apperror.NewUnauthorized("invalid username or password")
		}
		return "", nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !user.IsApproved {
		return "", nil, apperror.NewUnauthorized("your account is pending approval")
	}
	if !user.IsActive {
		return "", nil, apperror.NewUnauthorized("your account has been deactivated")
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return "", nil, apperror.NewUnauthorized("invalid username or password")
	}

	token, err := s.createSession(ctx, user)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	// Update the user's last login timestamp (fire-and-forget, non-critical).
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, user, nil
}

// CheckSession resolves a session token to the presented user. The
// credential owner (the impersonating admin when the overlay is set) is
// re-fetched and re-gated on every call, so approval or activation changes
// take effect at the next check rather than retroactively mid-request.
// A session whose user row has vanished or no longer passes the gate is
// destroyed before reporting failure -- never left half-authenticated.
func (s *authService) CheckSession(ctx context.Context, token string) (*Session, *User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	ownerID := session.UserID
	if session.IsImpersonating() {
		ownerID = *session.ImpersonatorID
	}

	owner, err := s.repo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, nil, s.destroyInvalid(ctx, token, fmt.Errorf("session user missing: %w", err))
	}
	if !owner.CanAuthenticate() {
		return nil, nil, s.destroyInvalid(ctx, token, nil)
	}
	if session.IsImpersonating() && !owner.IsAdmin() {
		// The credential owner lost the admin role mid-impersonation.
		return nil, nil, s.destroyInvalid(ctx, token, nil)
	}

	presented := owner
	if session.IsImpersonating() {
		presented, err = s.repo.FindByID(ctx, session.UserID)
		if err != nil {
			// The impersonation target vanished; fall back to the admin.
			restoreIdentity(session, owner)
			if putErr := s.sessions.Put(ctx, token, session); putErr != nil {
				return nil, nil, apperror.NewInternal(fmt.Errorf("restoring session: %w", putErr))
			}
			presented = owner
		}
	}

	return session, presented, nil
}

// destroyInvalid deletes a session whose backing user is gone or gated out
// and returns the uniform unauthorized error.
func (s *authService) destroyInvalid(ctx context.Context, token string, cause error) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		slog.Warn("failed to destroy invalid session", slog.Any("error", err))
	}
	if cause != nil {
		slog.Debug("session invalidated", slog.Any("cause", cause))
	}
	return apperror.NewUnauthorized("session expired or invalid")
}

// Logout destroys the session. Impersonation state lives inside the
// session record, so it is cleared as a side effect.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session: %w", err))
	}
	return nil
}

// ImpersonateUser swaps the session's presented identity to the target
// user. Only an admin who is not already impersonating may call this, and
// impersonating yourself is rejected. The target needs no approval gate:
// admins may inspect pending or deactivated accounts.
func (s *authService) ImpersonateUser(ctx context.Context, token, targetID string) (*User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsImpersonating() {
		return nil, apperror.NewForbidden("already impersonating a user")
	}
	if session.Role != RoleAdmin {
		return nil, apperror.NewForbidden("admin access required")
	}
	if targetID == session.UserID {
		return nil, apperror.NewBadRequest("you are already viewing as yourself")
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding impersonation target: %w", err))
	}

	adminID := session.UserID
	adminName := session.Username
	session.ImpersonatorID = &adminID
	session.ImpersonatorName = &adminName
	session.UserID = target.ID
	session.Username = target.Username
	session.Role = target.Role

	if err := s.sessions.Put(ctx, token, session); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("updating session: %w", err))
	}

	slog.Info("admin impersonating user",
		slog.String("admin_id", adminID),
		slog.String("target_id", target.ID),
	)

	return target, nil
}

// ReturnToAdmin restores the original admin identity and clears the
// impersonation overlay. A no-op error when the session is not
// impersonating.
func (s *authService) ReturnToAdmin(ctx context.Context, token string) (*User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if !session.IsImpersonating() {
		return nil, apperror.NewBadRequest("not impersonating a user")
	}

	admin, err := s.repo.FindByID(ctx, *session.ImpersonatorID)
	if err != nil {
		return nil, s.destroyInvalid(ctx, token, fmt.Errorf("impersonating admin missing: %w", err))
	}

	restoreIdentity(session, admin)
	if err := s.sessions.Put(ctx, token, session); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("updating session: %w", err))
	}

	slog.Info("admin returned from impersonation",
		slog.String("admin_id", admin.ID),
	)

	return admin, nil
}

// restoreIdentity rewrites the session to present the given user directly,
// clearing any impersonation overlay.
func restoreIdentity(session *Session, user *User) {
	session.UserID = user.ID
	session.Username = user.Username
	session.Role = user.Role
	session.ImpersonatorID = nil
	session.ImpersonatorName = nil
}

// createSession generates a random session token, stores the session
// record, and returns the token.
func (s *authService) createSession(ctx context.Context, user *User) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	now := time.Now().UTC()
	session := &Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Put(ctx, token, session); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

// --- Password Hashing (argon2id) ---

// HashPassword creates an argon2id hash of the given password. The output
// format is: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
// This format is compatible with most argon2 libraries and allows self-
// contained verification without separate salt storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// Encode to the standard PHC string format.
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, b64Salt, b64Hash)

	return encoded, nil
}

// verifyPassword checks a plaintext password against an argon2id hash string.
// Returns true if the password matches.
func verifyPassword(password, encodedHash string) bool {
	// Parse the encoded hash to extract parameters, salt, and hash.
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	// Compute the hash of the provided password with the same parameters.
	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Constant-time comparison to prevent timing attacks.
	return subtle.ConstantTimeCompare(expectedHash, computedHash) == 1
}

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
