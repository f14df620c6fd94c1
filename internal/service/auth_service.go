package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

const (
	tokenTypeBearer        = "bearer"
	defaultMailSendTimeout = 15 * time.Second
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type OTPNotifier interface {
	SendOTP(ctx context.Context, to, code string) error
}

type AuthServiceConfig struct {
	MailSendTimeout time.Duration
	Logger          zerolog.Logger
	GenerateOTP     func() (string, error)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// LoginResult carries an opaque placeholder token. It is not signed and does
// not expire, so nothing may treat it as proof of identity.
type LoginResult struct {
	AccessToken string
	TokenType   string
	User        *domain.User
}

type AuthService struct {
	tx       ports.TxRunner
	users    ports.UserRepository
	hasher   PasswordHasher
	notifier OTPNotifier

	generateOTP func() (string, error)
	mailTimeout time.Duration
	logger      zerolog.Logger

	pending sync.WaitGroup
}

func NewAuthService(tx ports.TxRunner, users ports.UserRepository, hasher PasswordHasher, notifier OTPNotifier, cfg AuthServiceConfig) *AuthService {
	timeout := cfg.MailSendTimeout
	if timeout <= 0 {
		timeout = defaultMailSendTimeout
	}
	gen := cfg.GenerateOTP
	if gen == nil {
		gen = util.GenerateOTP
	}
	return &AuthService{
		tx:          tx,
		users:       users,
		hasher:      hasher,
		notifier:    notifier,
		generateOTP: gen,
		mailTimeout: timeout,
		logger:      cfg.Logger.With().Str("component", "auth_service").Logger(),
	}
}

// Register creates the user and its OTP in one transaction, then hands the
// code to the notifier in the background. Delivery problems are logged and
// never reach the caller.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var (
		created *domain.User
		code    string
	)
	err = s.tx.WithTx(ctx, func(repos ports.Repositories) error {
		user, err := repos.Users.Create(ctx, &domain.User{
			Email:     email,
			Password:  digest,
			FirstName: normalizeString(in.FirstName),
			LastName:  normalizeString(in.LastName),
		})
		if err != nil {
			if errors.Is(err, ports.ErrDuplicate) {
				return ErrEmailAlreadyRegistered
			}
			return fmt.Errorf("create user: %w", err)
		}

		code, err = s.generateOTP()
		if err != nil {
			return fmt.Errorf("generate otp: %w", err)
		}
		if _, err := repos.Otps.Create(ctx, user.ID, code); err != nil {
			return fmt.Errorf("create otp: %w", err)
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchOTP(ctx, created.Email, code)
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return &LoginResult{
		AccessToken: "user-" + strconv.FormatInt(user.ID, 10),
		TokenType:   tokenTypeBearer,
		User:        user,
	}, nil
}

// Wait blocks until every dispatched notification has finished or ctx is done.
func (s *AuthService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuthService) dispatchOTP(ctx context.Context, email, code string) {
	if s.notifier == nil {
		s.logger.Warn().Str("email", email).Msg("no otp notifier configured")
		return
	}

	// The request context ends with the response; keep its values only.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().Str("email", email).Interface("panic", r).Msg("otp notification panicked")
			}
		}()

		start := time.Now()
		if err := s.notifier.SendOTP(sendCtx, email, code); err != nil {
			event := s.logger.Error()
			if errors.Is(err, context.DeadlineExceeded) {
				event = s.logger.Warn()
			}
			event.Err(err).Str("email", email).Dur("elapsed", time.Since(start)).Msg("otp notification failed")
			return
		}
		s.logger.Info().Str("email", email).Dur("elapsed", time.Since(start)).Msg("otp notification sent")
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
