package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rrens/coworking-reservation/internal/config"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Console output is used outside
// production; when cfg.File is set output is also written to a rotated file.
// The returned closer releases that file.
func Setup(cfg config.LoggingConfig, env string) (io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var stdout io.Writer = os.Stderr
	if env != "production" && cfg.Format != "json" {
		stdout = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if cfg.File == "" {
		log.Logger = zerolog.New(stdout).With().Timestamp().Logger()
		return nopCloser{}, nil
	}

	rotator, err := newRotator(cfg)
	if err != nil {
		return nil, err
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(stdout, rotator)).With().Timestamp().Logger()
	return rotator, nil
}

// newRotator writes to <file>.<YYYYMMDD> and keeps <file> linked to the
// current one
func newRotator(cfg config.LoggingConfig) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	rotator, err := rotatelogs.New(
		cfg.File+".%Y%m%d",
		rotatelogs.WithLinkName(cfg.File),
		rotatelogs.WithMaxAge(cfg.MaxAge),
		rotatelogs.WithRotationTime(cfg.RotationTime),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return rotator, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
