package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/njprem/Todo_APP_BackEnd/internal/config"
)

const otpSubject = "Your OTP for Todo Application"

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// OTPMailer delivers verification codes through an SMTP relay. Without a
// complete relay configuration the message is written to the logger instead.
type OTPMailer struct {
	cfg    config.Mail
	dialer sender
	logger zerolog.Logger
}

func NewOTPMailer(cfg config.Mail, logger zerolog.Logger) *OTPMailer {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	m := &OTPMailer{
		cfg:    cfg,
		logger: logger.With().Str("component", "otp_mailer").Logger(),
	}
	if m.Configured() {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func (m *OTPMailer) Configured() bool {
	return m.cfg.Host != "" && m.cfg.Port > 0 && m.cfg.Username != "" && m.cfg.Password != ""
}

func (m *OTPMailer) SendOTP(ctx context.Context, to, code string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if strings.TrimSpace(to) == "" {
		return errors.New("no recipient specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body := otpBody(code)
	if !m.Configured() {
		m.logger.Info().
			Str("to", to).
			Str("subject", otpSubject).
			Str("body", body).
			Msg("smtp relay not configured, printing otp message")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", otpSubject)
	msg.SetBody("text/plain", body)

	// gomail has no context support; a stalled relay must not outlive ctx.
	result := make(chan error, 1)
	go func() {
		result <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("send otp mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func otpBody(code string) string {
	return fmt.Sprintf("Your verification OTP is: %s\n\nIf you didn't request this, ignore this message.", code)
}
