// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"sync"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialGateway = (*FakeGateway)(nil)
	_ ports.LoginRedirector   = (*RecordingRedirector)(nil)
	_ ports.SyncBus           = (*MemorySyncBus)(nil)
)

// FakeGateway simulates the authentication service. Unset funcs fall back to the
// defaults below: GetUserInfo returns User, credential calls succeed.
type FakeGateway struct {
	LoginFunc          func(ctx context.Context, in ports.LoginInput) domainauth.Result
	RegisterFunc       func(ctx context.Context, in ports.RegisterInput) domainauth.Result
	RefreshFunc        func(ctx context.Context) bool
	GetUserInfoFunc    func(ctx context.Context) *domainauth.Identity
	UpdateProfileFunc  func(ctx context.Context, in ports.ProfileInput) domainauth.Result
	ChangePasswordFunc func(ctx context.Context, in ports.ChangePasswordInput) domainauth.Result

	// Redirector, when set, is signalled by Logout like the real gateway does.
	Redirector ports.LoginRedirector
	// Token is returned by CSRFToken when non-empty.
	Token string

	mu    sync.Mutex
	user  *domainauth.Identity
	calls map[string]int
}

// NewFakeGateway returns a gateway whose GetUserInfo reports user (nil means anonymous).
func NewFakeGateway(user *domainauth.Identity) *FakeGateway {
	return &FakeGateway{user: user.Clone()}
}

// SetUser changes the identity reported by the default GetUserInfo.
func (f *FakeGateway) SetUser(user *domainauth.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = user.Clone()
}

// Calls returns how many times op was invoked.
func (f *FakeGateway) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeGateway) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *FakeGateway) Login(ctx context.Context, in ports.LoginInput) domainauth.Result {
	f.record("login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, in)
	}
	return domainauth.Succeeded()
}

func (f *FakeGateway) Register(ctx context.Context, in ports.RegisterInput) domainauth.Result {
	f.record("register")
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, in)
	}
	return domainauth.Succeeded()
}

func (f *FakeGateway) Logout(ctx context.Context) <-chan struct{} {
	f.record("logout")
	done := make(chan struct{})
	go func() {
		defer close(done)
		if f.Redirector != nil {
			f.Redirector.RedirectToLogin(context.WithoutCancel(ctx), "logout")
		}
	}()
	return done
}

func (f *FakeGateway) RefreshSession(ctx context.Context) bool {
	f.record("refresh")
	if f.RefreshFunc != nil {
		return f.RefreshFunc(ctx)
	}
	return true
}

func (f *FakeGateway) GetUserInfo(ctx context.Context) *domainauth.Identity {
	f.record("user")
	if f.GetUserInfoFunc != nil {
		return f.GetUserInfoFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user.Clone()
}

func (f *FakeGateway) CSRFToken() (string, bool) {
	return f.Token, f.Token != ""
}

func (f *FakeGateway) UpdateProfile(ctx context.Context, in ports.ProfileInput) domainauth.Result {
	f.record("profile")
	if f.UpdateProfileFunc != nil {
		return f.UpdateProfileFunc(ctx, in)
	}
	return domainauth.Succeeded()
}

func (f *FakeGateway) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) domainauth.Result {
	f.record("change_password")
	if f.ChangePasswordFunc != nil {
		return f.ChangePasswordFunc(ctx, in)
	}
	return domainauth.Succeeded()
}

// RecordingRedirector remembers every redirect reason it was given.
type RecordingRedirector struct {
	mu      sync.Mutex
	reasons []string
	// Notify, when non-nil, receives each reason without blocking the caller for long.
	Notify chan string
}

func (r *RecordingRedirector) RedirectToLogin(_ context.Context, reason string) {
	r.mu.Lock()
	r.reasons = append(r.reasons, reason)
	r.mu.Unlock()
	if r.Notify != nil {
		r.Notify <- reason
	}
}

// Reasons returns a copy of the recorded reasons.
func (r *RecordingRedirector) Reasons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons...)
}

// MemorySyncBus fans signals out to in-process subscribers.
type MemorySyncBus struct {
	mu        sync.Mutex
	subs      map[int]chan ports.SyncSignal
	next      int
	published []ports.SyncSignal
}

// NewMemorySyncBus creates an empty bus.
func NewMemorySyncBus() *MemorySyncBus {
	return &MemorySyncBus{subs: make(map[int]chan ports.SyncSignal)}
}

func (b *MemorySyncBus) Publish(_ context.Context, sig ports.SyncSignal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, sig)
	for _, ch := range b.subs {
		select {
		case ch <- sig:
		default:
		}
	}
	return nil
}

func (b *MemorySyncBus) Subscribe(ctx context.Context) (<-chan ports.SyncSignal, error) {
	ch := make(chan ports.SyncSignal, 16)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

// Published returns every signal seen by Publish.
func (b *MemorySyncBus) Published() []ports.SyncSignal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ports.SyncSignal(nil), b.published...)
}

// Subscribers reports the number of live subscriptions.
func (b *MemorySyncBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
