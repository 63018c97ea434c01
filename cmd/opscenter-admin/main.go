package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/vbrevik/plan-targeting-assessment-sub003/config"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	// needsConfig commands require a parsed environment (AUTH_BACKEND_URL and friends).
	needsConfig bool
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	Err    io.Writer
}

func main() {
	logger := bootstrap.InitLogger(false)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
	if cmd.needsConfig {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			logger.ErrorContext(cmdCtx.Ctx, "load config", "error", err)
			os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
		}
		cmdCtx.Config = cfg
	}

	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"nav": {
			name:        "nav",
			description: "Resolve the navigation tree for a set of permissions",
			run:         runNav,
		},
		"templates": {
			name:        "templates",
			description: "List navigation templates in priority order",
			run:         runTemplates,
		},
		"whoami": {
			name:        "whoami",
			description: "Sign in to the authentication service and show the identity and its navigation",
			needsConfig: true,
			run:         runWhoami,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: opscenter-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, commands()[name].description); err != nil {
			return err
		}
	}
	return nil
}
