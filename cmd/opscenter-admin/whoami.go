package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/bootstrap"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

const (
	defaultWhoamiTimeout = 30 * time.Second
	defaultPasswordEnv   = "OPSCENTER_PASSWORD"
)

type whoamiOptions struct {
	Identifier  string
	PasswordEnv string
	Timeout     time.Duration
	KeepSession bool
}

func parseWhoamiOptions(args []string, stderr io.Writer) (whoamiOptions, error) {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts whoamiOptions
	fs.StringVar(&opts.Identifier, "identifier", "", "Username or email to sign in with (required)")
	fs.StringVar(&opts.PasswordEnv, "password-env", defaultPasswordEnv, "Environment variable holding the password")
	fs.DurationVar(&opts.Timeout, "timeout", defaultWhoamiTimeout, "Overall timeout")
	fs.BoolVar(&opts.KeepSession, "keep-session", false, "Skip the logout after printing")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.Identifier = strings.TrimSpace(opts.Identifier)
	if opts.Identifier == "" {
		return opts, errors.New("--identifier is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultWhoamiTimeout
	}
	return opts, nil
}

// logRedirector records the login redirect the gateway signals after logout.
type logRedirector struct{ logger *slog.Logger }

func (r logRedirector) RedirectToLogin(_ context.Context, reason string) {
	r.logger.Debug("login redirect", "reason", reason)
}

func runWhoami(ctx *commandContext, args []string) error {
	opts, err := parseWhoamiOptions(args, ctx.Err)
	if err != nil {
		return err
	}
	password := os.Getenv(opts.PasswordEnv)
	if password == "" {
		return fmt.Errorf("password not set: export %s", opts.PasswordEnv)
	}

	runCtx, cancel := context.WithTimeout(ctx.Ctx, opts.Timeout)
	defer cancel()

	gateway, err := bootstrap.BuildGateway(bootstrap.GatewayOptions{
		Auth:       ctx.Config.Auth,
		Redirector: logRedirector{logger: ctx.Logger},
		Logger:     ctx.Logger,
	})
	if err != nil {
		return err
	}

	sessions := service.NewSessionManager(service.SessionManagerOptions{Gateway: gateway, Logger: ctx.Logger})
	res := sessions.Login(runCtx, ports.LoginInput{Identifier: opts.Identifier, Password: password})
	if !res.Success {
		return fmt.Errorf("login failed: %s", res.Error)
	}
	s := sessions.Snapshot()
	if !s.IsAuthenticated {
		return errors.New("login accepted but the session could not be confirmed")
	}

	u := s.User
	if err := writef(ctx.Out, "ID:          %s\nUsername:    %s\nEmail:       %s\nRoles:       %s\nPermissions: %s\n\n",
		u.ID, u.Username, u.Email, strings.Join(u.RoleNames(), ", "), strings.Join(u.Permissions, ", ")); err != nil {
		return err
	}

	resolver := service.NewNavigationResolver()
	if name, ok := resolver.Match(service.RoleOf(u)); ok {
		if err := writef(ctx.Out, "Template: %s\n\n", name); err != nil {
			return err
		}
		if err := printTree(ctx.Out, resolver.ResolveSession(s)); err != nil {
			return err
		}
	} else if err := writeln(ctx.Out, "No navigation template matches this identity."); err != nil {
		return err
	}

	if opts.KeepSession {
		return nil
	}
	done := gateway.Logout(runCtx)
	select {
	case <-done:
	case <-runCtx.Done():
		return fmt.Errorf("logout: %w", runCtx.Err())
	}
	return nil
}
