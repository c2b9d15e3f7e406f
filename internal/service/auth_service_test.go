package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) {
	c.sleeps = append(c.sleeps, d)
}

type authFixture struct {
	svc   *AuthService
	users *UserService
	repo  *repository.UserRepository
	clock *fakeClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := repository.NewUserRepository(newTestDB(t))
	clock := &fakeClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	tokens := auth.NewParser("test-secret").WithClock(clock.Now)
	svc := NewAuthService(repo, tokens, 500*time.Millisecond, zerolog.Nop()).WithClock(clock.Now, clock.Sleep)
	return &authFixture{svc: svc, users: NewUserService(repo), repo: repo, clock: clock}
}

func (f *authFixture) createUser(t *testing.T, email string, active bool) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), CreateUserInput{
		Name:     "Ana",
		Email:    email,
		Password: "correct-horse",
		IsActive: &active,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "ana@example.com", true)

	res, err := f.svc.Login(context.Background(), "ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != user.ID || res.User.Role != model.UserRoleUser {
		t.Fatalf("unexpected user %+v", res.User)
	}

	verified, err := f.svc.Verify(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Email != "ana@example.com" {
		t.Fatalf("unexpected verified user %+v", verified)
	}
}

func TestLoginTakesMinimumDelayForEveryOutcome(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "ana@example.com", true)

	_, errUnknown := f.svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, errWrong := f.svc.Login(context.Background(), "ana@example.com", "wrong-password")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v and %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("messages differ: %q vs %q", errUnknown, errWrong)
	}

	if len(f.clock.sleeps) != 2 {
		t.Fatalf("expected two padded calls, got %v", f.clock.sleeps)
	}
	for _, d := range f.clock.sleeps {
		if d != 500*time.Millisecond {
			t.Fatalf("expected 500ms pad, got %v", d)
		}
	}
}

func TestLoginThrottlesAfterThreeFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.createUser(t, "ana@example.com", true)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Login(ctx, "ana@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i, err)
		}
	}

	f.clock.now = f.clock.now.Add(time.Minute)
	if _, err := f.svc.Login(ctx, "ana@example.com", "correct-horse"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	f.clock.now = f.clock.now.Add(15 * time.Minute)
	if _, err := f.svc.Login(ctx, "ana@example.com", "correct-horse"); err != nil {
		t.Fatalf("expected login after lockout window, got %v", err)
	}

	user, err := f.repo.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if user.FailedLoginAttempts != 0 || user.LastFailedLoginAt != nil {
		t.Fatalf("counter not reset: %d %v", user.FailedLoginAttempts, user.LastFailedLoginAt)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "off@example.com", false)

	if _, err := f.svc.Login(context.Background(), "off@example.com", "correct-horse"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "off@example.com", "nope-nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password must not reveal account state, got %v", err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "ana@example.com", true)

	token, err := auth.NewParser("test-secret").WithClock(f.clock.Now).Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"empty":    "",
		"garbage":  "not-a-token",
		"tampered": token[:len(token)-2] + "xx",
	}
	for name, tok := range cases {
		if _, err := f.svc.Verify(ctx, tok); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}

	f.clock.now = f.clock.now.Add(auth.TokenTTL + time.Second)
	if _, err := f.svc.Verify(ctx, token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired: expected ErrUnauthenticated, got %v", err)
	}
}

func TestVerifyRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.createUser(t, "ana@example.com", true)

	res, err := f.svc.Login(ctx, "ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := f.users.Delete(ctx, res.User.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Verify(ctx, res.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
