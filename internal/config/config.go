package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string        `env:"PORT" envDefault:"8080"`
	DatabaseDriver        string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL           string        `env:"DATABASE_URL" envDefault:"todo.db"`
	AllowOrigins          []string      `env:"ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat             string        `env:"LOG_FORMAT" envDefault:"json"`
	LogstashTCPAddr       string        `env:"LOGSTASH_TCP_ADDR"`
	PasswordHashAlgorithm string        `env:"PASSWORD_HASH_ALGORITHM" envDefault:"argon2id"`
	TaskDefaultOwnerID    int64         `env:"TASK_DEFAULT_OWNER_ID" envDefault:"1"`
	MailSendTimeout       time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
	ShutdownGracePeriod   time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	Mail                  Mail
}

// Mail holds the SMTP relay settings used for OTP delivery. An incomplete
// relay configuration is valid; OTPs are then written to the log instead.
type Mail struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Mail.Username == "" {
		cfg.Mail.Username = strings.TrimSpace(os.Getenv("SMTP_USER"))
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	cfg.AllowOrigins = splitAndTrim(strings.Join(cfg.AllowOrigins, ","))
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.PasswordHashAlgorithm = strings.ToLower(strings.TrimSpace(cfg.PasswordHashAlgorithm))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "pgx", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.PasswordHashAlgorithm {
	case "argon2id", "bcrypt":
	default:
		return fmt.Errorf("unsupported PASSWORD_HASH_ALGORITHM %q", c.PasswordHashAlgorithm)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	if c.TaskDefaultOwnerID <= 0 {
		return errors.New("TASK_DEFAULT_OWNER_ID must be positive")
	}
	if c.MailSendTimeout <= 0 {
		return errors.New("MAIL_SEND_TIMEOUT must be positive")
	}
	if c.ShutdownGracePeriod <= 0 {
		return errors.New("SHUTDOWN_GRACE_PERIOD must be positive")
	}
	return nil
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
