package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/config"
	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
	"github.com/lcolonia21/BizGuide-Final-System/internal/security"
)

// TokenManager issues and validates access tokens keyed on a subject.
type TokenManager interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
	Validate(token string) (string, error)
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type LoginInput struct {
	Email    string
	Password string
	IP       string
}

type TokenResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

const (
	PasswordPolicyBasic  = "basic"
	PasswordPolicyStrict = "strict"
)

var ErrMissingFullName = errors.New("full name is required")

var (
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	lowercaseRe = regexp.MustCompile(`[a-z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
	specialRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

type AuthService struct {
	users          repository.UserRepository
	tokens         TokenManager
	guard          LoginGuard
	accessTTL      time.Duration
	passwordPolicy string
	logger         *slog.Logger
}

func NewAuthService(cfg *config.Config, users repository.UserRepository, tokens TokenManager, guard LoginGuard) *AuthService {
	if guard == nil {
		guard = NewNoopLoginGuard()
	}
	return &AuthService{
		users:          users,
		tokens:         tokens,
		guard:          guard,
		accessTTL:      cfg.JWTAccessTTL,
		passwordPolicy: cfg.AuthPasswordPolicy,
		logger:         slog.Default(),
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRegister(ctx, outcome)
		observability.RecordAuthRequestDuration(ctx, "register", outcome, time.Since(start))
	}()

	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.FullName)
	if err := validateEmail(email); err != nil {
		outcome = "bad_request"
		return nil, err
	}
	if name == "" {
		outcome = "bad_request"
		return nil, ErrMissingFullName
	}
	if err := validatePassword(s.passwordPolicy, in.Password); err != nil {
		outcome = "bad_request"
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		outcome = "duplicate"
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		outcome = "error"
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Email: email, PasswordHash: hash, FullName: name, IsActive: true}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index is the final arbiter when two registrations race.
		if errors.Is(err, repository.ErrEmailTaken) {
			outcome = "duplicate"
			return nil, ErrDuplicateEmail
		}
		outcome = "error"
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login returns ErrAuthenticationFailed for an unknown email, a wrong
// password and an inactive account alike.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResult, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthLogin(ctx, outcome)
		observability.RecordAuthRequestDuration(ctx, "login", outcome, time.Since(start))
	}()

	attempt := LoginAttempt{Email: strings.TrimSpace(in.Email), IP: in.IP}
	wait, err := s.guard.Cooldown(ctx, attempt)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("check login guard: %w", err)
	}
	if wait > 0 {
		outcome = "throttled"
		return nil, &LoginThrottledError{RetryAfter: wait}
	}

	user, err := s.users.FindByEmail(ctx, attempt.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			outcome = "error"
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		// Spend the same hashing cost as a real comparison.
		_, _ = security.VerifyPassword(unknownUserHash(), in.Password)
		outcome = "failed"
		return nil, s.failLogin(ctx, attempt)
	}

	ok, err := security.VerifyPassword(user.PasswordHash, in.Password)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok || !user.IsActive {
		outcome = "failed"
		return nil, s.failLogin(ctx, attempt)
	}

	token, expiresAt, err := s.tokens.Issue(user.Email, s.accessTTL)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.guard.Clear(ctx, attempt); err != nil {
		s.logger.WarnContext(ctx, "login guard clear failed", "error", err)
	}
	return &TokenResult{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt, User: user}, nil
}

// ResolveCurrentIdentity folds every token or account problem into
// ErrUnauthenticated. Only store failures surface as other errors.
func (s *AuthService) ResolveCurrentIdentity(ctx context.Context, token string) (*domain.User, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		observability.RecordAuthRequestDuration(ctx, "resolve_identity", outcome, time.Since(start))
	}()

	subject, err := s.tokens.Validate(token)
	if err != nil {
		outcome = "invalid_token"
		return nil, ErrUnauthenticated
	}
	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			outcome = "unknown_subject"
			return nil, ErrUnauthenticated
		}
		outcome = "error"
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		outcome = "inactive"
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (s *AuthService) failLogin(ctx context.Context, attempt LoginAttempt) error {
	if _, err := s.guard.RecordFailure(ctx, attempt); err != nil {
		s.logger.WarnContext(ctx, "login guard record failure failed", "error", err)
	}
	return ErrAuthenticationFailed
}

func unknownUserHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = security.HashPassword("unknown-user-placeholder")
	})
	return dummyHash
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(policy, password string) error {
	if password == "" {
		return ErrWeakPassword
	}
	if policy != PasswordPolicyStrict {
		return nil
	}
	if len(password) < 12 || !uppercaseRe.MatchString(password) ||
		!lowercaseRe.MatchString(password) || !digitRe.MatchString(password) || !specialRe.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
