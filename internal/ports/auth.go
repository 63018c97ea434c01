// Package ports defines interfaces (hexagonal ports) for the session shell.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"time"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
)

// LoginInput carries credentials for POST /api/auth/login.
type LoginInput struct {
	Identifier string
	Password   string
	RememberMe bool
}

// RegisterInput carries fields for POST /api/auth/register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileInput carries fields for PUT /api/auth/profile.
type ProfileInput struct {
	Username string
}

// ChangePasswordInput carries fields for POST /api/change-password.
type ChangePasswordInput struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

// CredentialGateway translates session intents into authentication-service calls.
// Implementations hold no session state and never fail across this boundary:
// failures are reported through Result, nil or false.
type CredentialGateway interface {
	Login(ctx context.Context, in LoginInput) domainauth.Result
	Register(ctx context.Context, in RegisterInput) domainauth.Result

	// Logout issues a best-effort invalidation request in the background and returns at once.
	// The returned channel closes after the login redirect has been signalled.
	Logout(ctx context.Context) <-chan struct{}

	RefreshSession(ctx context.Context) bool

	// GetUserInfo returns nil both when the server rejects the request and when it is unreachable.
	GetUserInfo(ctx context.Context) *domainauth.Identity

	CSRFToken() (string, bool)
	UpdateProfile(ctx context.Context, in ProfileInput) domainauth.Result
	ChangePassword(ctx context.Context, in ChangePasswordInput) domainauth.Result
}

// LoginRedirector signals the UI to navigate to the login surface.
type LoginRedirector interface {
	RedirectToLogin(ctx context.Context, reason string)
}

// SyncSignal is a cross-tab storage-change notification.
type SyncSignal struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// SyncBus carries storage-change signals between tabs or shell instances.
type SyncBus interface {
	Publish(ctx context.Context, sig SyncSignal) error
	// Subscribe delivers signals until ctx is cancelled, then closes the channel.
	Subscribe(ctx context.Context) (<-chan SyncSignal, error)
}

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock provides time and one-shot timers so idle tracking can run on virtual time in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
