package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Level        string
	Format       string // json or console
	LogstashAddr string
	Output       io.Writer // defaults to os.Stdout
}

// New builds the process logger. The returned close function flushes and
// releases the Logstash sink when one is configured.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	closeFn := func() error { return nil }
	if strings.TrimSpace(opts.LogstashAddr) != "" {
		shipper, err := NewLogstashWriter(opts.LogstashAddr)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		// Logstash always receives JSON, whatever the local format.
		out = zerolog.MultiLevelWriter(out, shipper)
		closeFn = shipper.Close
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("service", "todo-api").Logger()
	return logger, closeFn, nil
}
