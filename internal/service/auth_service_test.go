package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

func newTestHasher(t *testing.T) *util.PasswordHasher {
	t.Helper()
	hasher, err := util.NewPasswordHasher(util.AlgorithmBcrypt)
	if err != nil {
		t.Fatalf("NewPasswordHasher returned error: %v", err)
	}
	return hasher
}

func fixedOTP(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

func waitForNotifications(t *testing.T, svc *AuthService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Wait(ctx); err != nil {
		t.Fatalf("notifications did not finish: %v", err)
	}
}

func TestAuthService_RegisterCreatesUserAndOTP(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	hasher := newTestHasher(t)
	svc := NewAuthService(store, store.users(), hasher, notifier, AuthServiceConfig{
		Logger:      zerolog.Nop(),
		GenerateOTP: fixedOTP("482913"),
	})

	first := "Ada"
	user, err := svc.Register(ctx, RegisterInput{Email: "  A@B.com ", Password: "pw1", FirstName: &first})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if user.Email != "a@b.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.FirstName == nil || *user.FirstName != "Ada" || user.LastName != nil {
		t.Fatalf("unexpected names %v %v", user.FirstName, user.LastName)
	}

	stored := store.state.users[0]
	if stored.Password == "pw1" || !hasher.Verify("pw1", stored.Password) {
		t.Fatalf("expected stored password to be a digest of pw1, got %q", stored.Password)
	}
	if len(store.state.otps) != 1 || store.state.otps[0].UserID != user.ID || store.state.otps[0].OTPCode != "482913" {
		t.Fatalf("unexpected otps %+v", store.state.otps)
	}
	if store.txs != 1 {
		t.Fatalf("expected one transaction, got %d", store.txs)
	}

	waitForNotifications(t, svc)
	calls := notifier.snapshot()
	if len(calls) != 1 || calls[0].to != "a@b.com" || calls[0].code != "482913" {
		t.Fatalf("expected exactly one notification with the stored code, got %+v", calls)
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	svc := NewAuthService(store, store.users(), newTestHasher(t), notifier, AuthServiceConfig{Logger: zerolog.Nop()})

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pw1"}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Email: "A@b.com", Password: "other"})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}

	if len(store.state.users) != 1 || len(store.state.otps) != 1 {
		t.Fatalf("duplicate must not create rows, users=%d otps=%d", len(store.state.users), len(store.state.otps))
	}
	waitForNotifications(t, svc)
	if calls := notifier.snapshot(); len(calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(calls))
	}
}

func TestAuthService_RegisterRollsBackWhenOTPFails(t *testing.T) {
	store := newMemoryStore()
	store.state.otpErr = errors.New("disk full")
	notifier := &recordingNotifier{}
	svc := NewAuthService(store, store.users(), newTestHasher(t), notifier, AuthServiceConfig{Logger: zerolog.Nop()})

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "pw1"}); err == nil {
		t.Fatal("expected error when otp insert fails")
	}
	if len(store.state.users) != 0 {
		t.Fatalf("expected user insert to be rolled back, got %d users", len(store.state.users))
	}
	waitForNotifications(t, svc)
	if calls := notifier.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no notification, got %d", len(calls))
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	store := newMemoryStore()
	svc := NewAuthService(store, store.users(), newTestHasher(t), &recordingNotifier{}, AuthServiceConfig{Logger: zerolog.Nop()})

	for _, in := range []RegisterInput{
		{Email: "   ", Password: "pw1"},
		{Email: "a@b.com", Password: ""},
	} {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
	if store.txs != 0 {
		t.Fatal("validation failures must not touch the store")
	}
}

func TestAuthService_NotificationFailureIsLoggedNotReturned(t *testing.T) {
	var logs bytes.Buffer
	store := newMemoryStore()
	notifier := &recordingNotifier{err: errors.New("relay unreachable")}
	svc := NewAuthService(store, store.users(), newTestHasher(t), notifier, AuthServiceConfig{Logger: zerolog.New(&logs)})

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register must succeed when delivery fails, got %v", err)
	}
	waitForNotifications(t, svc)
	if !strings.Contains(logs.String(), "otp notification failed") || !strings.Contains(logs.String(), "relay unreachable") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

func TestAuthService_NotificationPanicIsRecovered(t *testing.T) {
	var logs bytes.Buffer
	store := newMemoryStore()
	svc := NewAuthService(store, store.users(), newTestHasher(t), &recordingNotifier{panic: true}, AuthServiceConfig{Logger: zerolog.New(&logs)})

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	waitForNotifications(t, svc)
	if !strings.Contains(logs.String(), "otp notification panicked") {
		t.Fatalf("expected panic to be logged, got %q", logs.String())
	}
}

func TestAuthService_NotificationIsBoundedByTimeout(t *testing.T) {
	store := newMemoryStore()
	notifier := &blockingNotifier{err: make(chan error, 1)}
	svc := NewAuthService(store, store.users(), newTestHasher(t), notifier, AuthServiceConfig{
		Logger:          zerolog.Nop(),
		MailSendTimeout: 50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	// Ending the request must not cancel the delivery early.
	cancel()

	select {
	case err := <-notifier.err:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("notification was not bounded by the timeout")
	}
	waitForNotifications(t, svc)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := NewAuthService(store, store.users(), newTestHasher(t), &recordingNotifier{}, AuthServiceConfig{Logger: zerolog.Nop()})

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pw1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	waitForNotifications(t, svc)

	result, err := svc.Login(ctx, "A@B.COM", "pw1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.AccessToken != "user-1" || result.TokenType != "bearer" {
		t.Fatalf("unexpected token %q %q", result.AccessToken, result.TokenType)
	}
	if result.User.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, result.User.ID)
	}
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := NewAuthService(store, store.users(), newTestHasher(t), &recordingNotifier{}, AuthServiceConfig{Logger: zerolog.Nop()})

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pw1"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	waitForNotifications(t, svc)

	cases := []struct{ email, password string }{
		{"a@b.com", "wrong"},
		{"nobody@b.com", "pw1"},
		{"a@b.com", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", tc, err)
		}
	}
}
