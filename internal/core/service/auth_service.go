package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt limiter (Redis). A lockout must
// surface to callers exactly like a wrong password.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService orchestrates registration and login.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	throttle LoginThrottle
	audit    ports.AuditSink
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the credential store, token service, and optional
// throttle/audit collaborators. throttle and audit may be nil.
func NewAuthService(
	repo ports.UserRepository,
	tokens ports.TokenService,
	throttle LoginThrottle,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Register creates the account, lazily creates the default role, and assigns
// it. Registration never issues a token.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return domain.ErrInvalidInput
	}

	user := &domain.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	created, err := s.repo.CreateUser(ctx, user, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.record(in.Email, domain.AuditActionRegister, domain.OutcomeDuplicate, in.RemoteIP)
			return err
		}
		if errors.Is(err, domain.ErrWeakPassword) {
			return err
		}
		s.record(in.Email, domain.AuditActionRegister, domain.OutcomeError, in.RemoteIP)
		return fmt.Errorf("register: create user: %w", err)
	}

	// The default role is created lazily on first registration. EnsureRole is
	// idempotent, so concurrent first registrations are safe.
	if err := s.repo.EnsureRole(ctx, domain.RoleUser); err != nil {
		return fmt.Errorf("register: ensure role: %w", err)
	}
	if err := s.repo.AssignRole(ctx, created.ID, domain.RoleUser); err != nil {
		return fmt.Errorf("register: assign role: %w", err)
	}

	s.record(in.Email, domain.AuditActionRegister, domain.OutcomeSuccess, in.RemoteIP)
	s.log.Info().Str("username", created.Username).Msg("user registered")
	return nil
}

// Login verifies credentials and issues a signed token. Unknown email, wrong
// password, and lockout all collapse into domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	if locked := s.isThrottled(ctx, in.Email); locked {
		s.record(in.Email, domain.AuditActionLogin, domain.OutcomeThrottled, in.RemoteIP)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.failLogin(ctx, in)
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if err := s.repo.VerifyPassword(ctx, user, in.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, s.failLogin(ctx, in)
		}
		return nil, fmt.Errorf("login: verify password: %w", err)
	}

	roles, err := s.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: get roles: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user, roles)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, in.Email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}
	s.record(in.Email, domain.AuditActionLogin, domain.OutcomeSuccess, in.RemoteIP)
	s.log.Info().Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// failLogin records a failed attempt and returns the generic credential error.
func (s *AuthService) failLogin(ctx context.Context, in ports.LoginInput) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, in.Email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	s.record(in.Email, domain.AuditActionLogin, domain.OutcomeInvalidCredentials, in.RemoteIP)
	return domain.ErrInvalidCredentials
}

// isThrottled consults the limiter, failing open when it is unavailable.
func (s *AuthService) isThrottled(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return false
	}
	locked, err := s.throttle.TooManyAttempts(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return locked
}

func (s *AuthService) record(email string, action domain.AuditAction, outcome domain.AuditOutcome, remoteIP string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.LoginEvent{
		Email:     email,
		Action:    action,
		Outcome:   outcome,
		RemoteIP:  remoteIP,
		Timestamp: time.Now().UTC(),
	})
}
