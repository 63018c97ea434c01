// Package bootstrap wires configuration, adapters and services into a running shell.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vbrevik/plan-targeting-assessment-sub003/config"
)

// InitLogger installs the process logger: JSON at info in production, text at debug
// with source locations in dev.
func InitLogger(dev bool) *slog.Logger {
	logger := newLogger(os.Stdout, dev)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, dev bool) *slog.Logger {
	var h slog.Handler
	if dev {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(h).With("app", "opscenter")
}

// envFiles returns the dotenv files to load: ENV_FILE (comma separated) or ".env".
func envFiles() []string {
	raw := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if raw == "" {
		return []string{".env"}
	}
	var files []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// LoadConfig reads dotenv files (missing files are fine; variables already set win),
// parses the environment and sanitizes the result.
func LoadConfig() (config.AppConfig, error) {
	for _, f := range envFiles() {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}
