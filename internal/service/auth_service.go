package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/metrics"
	"backoffice-service/internal/model"
)

const (
	maxFailedLoginAttempts = 3
	loginLockoutWindow     = 15 * time.Minute
)

type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	RecordFailedLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	ResetFailedLogins(ctx context.Context, id uuid.UUID) error
}

type LoginResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type AuthService struct {
	users    UserStore
	tokens   *auth.Parser
	minDelay time.Duration
	now      func() time.Time
	sleep    func(context.Context, time.Duration)
	log      zerolog.Logger
}

func NewAuthService(users UserStore, tokens *auth.Parser, minDelay time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		minDelay: minDelay,
		now:      time.Now,
		sleep:    sleepContext,
		log:      log,
	}
}

// WithClock replaces the time source and sleeper, for tests.
func (s *AuthService) WithClock(now func() time.Time, sleep func(context.Context, time.Duration)) *AuthService {
	s.now = now
	s.sleep = sleep
	return s
}

// Login checks credentials. Every outcome takes at least minDelay from the
// start of the call so unknown emails and bad passwords look alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	start := s.now()
	defer func() {
		if remaining := s.minDelay - s.now().Sub(start); remaining > 0 {
			s.sleep(ctx, remaining)
		}
	}()

	result, err := s.login(ctx, email, password, start)
	switch {
	case err == nil:
		metrics.ObserveLogin("success")
	case errors.Is(err, ErrRateLimited):
		metrics.ObserveLogin("rate_limited")
	case errors.Is(err, ErrAccountDisabled):
		metrics.ObserveLogin("disabled")
	case errors.Is(err, ErrInvalidCredentials):
		metrics.ObserveLogin("invalid")
	default:
		metrics.ObserveLogin("error")
	}
	return result, err
}

func (s *AuthService) login(ctx context.Context, email, password string, now time.Time) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, translateStoreError(err, "load user")
	}

	if user.FailedLoginAttempts >= maxFailedLoginAttempts &&
		user.LastFailedLoginAt != nil &&
		now.Sub(*user.LastFailedLoginAt) < loginLockoutWindow {
		return nil, ErrRateLimited
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		if err := s.users.RecordFailedLogin(ctx, user.ID, now); err != nil {
			return nil, translateStoreError(err, "record failed login")
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if user.FailedLoginAttempts > 0 || user.LastFailedLoginAt != nil {
		if err := s.users.ResetFailedLogins(ctx, user.ID); err != nil {
			return nil, translateStoreError(err, "reset failed logins")
		}
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Verify validates a session token and reloads its user.
func (s *AuthService) Verify(ctx context.Context, token string) (model.PublicUser, error) {
	if token == "" {
		return model.PublicUser{}, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("session token rejected")
		return model.PublicUser{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PublicUser{}, ErrUnauthenticated
		}
		return model.PublicUser{}, translateStoreError(err, "load user")
	}
	if !user.IsActive {
		return model.PublicUser{}, ErrUnauthenticated
	}
	return user.Public(), nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
