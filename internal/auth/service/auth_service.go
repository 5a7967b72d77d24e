package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vibe-finance/backend/internal/audit"
	"vibe-finance/backend/internal/security"
	sessiondomain "vibe-finance/backend/internal/session/domain"
	userdomain "vibe-finance/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the HTTP layer maps them to status
// codes. The four validation rejections are distinguished here for audit
// logging, but callers must collapse them into a single "unauthorized"
// response so attackers cannot tell a revoked token from an expired one.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
	ErrUnknownSession         = errors.New("unknown session")
	ErrRevoked                = errors.New("session revoked")
	ErrExpired                = errors.New("session expired")
)

// AuthResult holds the outcome of a successful Login or Issue.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    int64
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) (int64, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Get(ctx context.Context, fingerprint string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, fingerprint string) error
}

// AuthService implements register, login, per-request token validation, and
// logout. It is stateless per call: all durable state lives in the
// repositories, and every Validate performs a storage lookup so that
// revocation takes effect immediately.
type AuthService struct {
	userRepo    UserRepo
	sessionRepo SessionRepo
	hasher      *security.Hasher
	tokens      *security.TokenProvider
	accessTTL   time.Duration
	audit       audit.Recorder
}

// NewAuthService returns an AuthService with the given dependencies.
// rec may be nil to disable audit logging.
func NewAuthService(
	userRepo UserRepo,
	sessionRepo SessionRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	accessTTL time.Duration,
	rec audit.Recorder,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		accessTTL:   accessTTL,
		audit:       rec,
	}
}

// Register creates a user with the given email and password.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*userdomain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		HashedPassword: hashed,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	s.logEvent(ctx, id, "register", "user")
	return user, nil
}

// Login authenticates with email/password, persists a session for the issued
// token, and returns the token. The error never reveals whether the email
// exists: wrong password, unknown email, and disabled account all return
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password, deviceInfo string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		s.logEvent(ctx, 0, "login_failure", "session")
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		s.logEvent(ctx, user.ID, "login_failure", "session")
		return nil, ErrInvalidCredentials
	}

	// jti keeps concurrent logins from colliding: timestamps are whole-second,
	// so two same-second logins would otherwise produce identical tokens and
	// therefore identical fingerprints.
	claims := map[string]any{
		"sub": strconv.FormatInt(user.ID, 10),
		"jti": uuid.NewString(),
	}
	result, err := s.Issue(ctx, claims, s.accessTTL, deviceInfo)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, "login_success", "session")
	return result, nil
}

// Issue signs a token for the given claims and persists a session record
// keyed by the token's fingerprint. The claims must carry "sub", the owner's
// decimal user id. If the session write fails, no token is returned: a live
// token never exists without a backing session row.
func (s *AuthService) Issue(ctx context.Context, claims map[string]any, ttl time.Duration, deviceInfo string) (*AuthResult, error) {
	userID, err := subjectUserID(claims)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(claims, ttl)
	if err != nil {
		return nil, err
	}
	session := &sessiondomain.Session{
		Fingerprint: security.Fingerprint(token),
		UserID:      userID,
		DeviceInfo:  deviceInfo,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
		IsActive:    true,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, UserID: userID}, nil
}

// Validate answers "is this presented token currently authorized?". Checks
// run in order and stop at the first rejection:
//
//	decode failure          -> ErrInvalidToken
//	no session row          -> ErrUnknownSession
//	session inactive        -> ErrRevoked
//	session expiry passed   -> ErrExpired
//
// The session row's own expiry is authoritative and checked in addition to
// the token's embedded claim, because revocation can only be enforced through
// the store. The storage lookup uses only the fingerprint; no claim value
// ever reaches a query.
func (s *AuthService) Validate(ctx context.Context, token string) (map[string]any, *sessiondomain.Session, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}
	if _, err := subjectUserID(claims); err != nil {
		return nil, nil, ErrInvalidToken
	}

	session, err := s.sessionRepo.Get(ctx, security.Fingerprint(token))
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrUnknownSession
	}
	if !session.IsActive {
		s.logEvent(ctx, session.UserID, "validate_reject_revoked", "session")
		return nil, nil, ErrRevoked
	}
	if !time.Now().UTC().Before(session.ExpiresAt) {
		s.logEvent(ctx, session.UserID, "validate_reject_expired", "session")
		return nil, nil, ErrExpired
	}
	return claims, session, nil
}

// Revoke marks the session for the presented token as inactive. Idempotent;
// unknown or malformed tokens are a no-op, matching logout semantics.
func (s *AuthService) Revoke(ctx context.Context, token string) error {
	fingerprint := security.Fingerprint(token)
	if err := s.sessionRepo.Revoke(ctx, fingerprint); err != nil {
		return err
	}
	s.logEvent(ctx, 0, "logout", "session")
	return nil
}

func (s *AuthService) logEvent(ctx context.Context, userID int64, action, resource string) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, userID, action, resource, "")
	}
}

// subjectUserID extracts the "sub" claim as a decimal user id. Anything that
// does not parse — including hostile strings — is rejected before any storage
// access.
func subjectUserID(claims map[string]any) (int64, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("claims: sub is required and must be a string")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("claims: sub must be a positive decimal user id")
	}
	return id, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
