// Package auth contains domain-level types for the browser session shell.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"fmt"
	"slices"
	"sort"
)

// Wildcard is the permission that matches every capability.
const Wildcard = "*"

// RoleClaim is a role granted to an identity along with the permissions it carries.
type RoleClaim struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Identity is the authenticated principal as reported by GET /api/auth/user.
// The server is the only source of these fields; nothing here is built locally.
type Identity struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Roles       []RoleClaim `json:"roles,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate session-owned state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.Permissions = slices.Clone(i.Permissions)
	if i.Roles != nil {
		out.Roles = make([]RoleClaim, len(i.Roles))
		for n, r := range i.Roles {
			out.Roles[n] = RoleClaim{Name: r.Name, Permissions: slices.Clone(r.Permissions)}
		}
	}
	return &out
}

// RoleNames returns role names in server order.
func (i *Identity) RoleNames() []string {
	if i == nil {
		return nil
	}
	names := make([]string, 0, len(i.Roles))
	for _, r := range i.Roles {
		names = append(names, r.Name)
	}
	return names
}

// PermissionSet is a set of capability strings. The Wildcard member matches everything.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given capabilities, ignoring empty strings.
func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether capability is granted, either directly or via Wildcard.
func (s PermissionSet) Has(capability string) bool {
	if len(s) == 0 {
		return false
	}
	if _, ok := s[Wildcard]; ok {
		return true
	}
	_, ok := s[capability]
	return ok
}

// Contains reports literal membership, without wildcard expansion.
func (s PermissionSet) Contains(p string) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in lexical order.
func (s PermissionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// State is the session state machine position.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name for JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for st := StateUninitialized; st <= StateUnauthenticated; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}

// Session is a read-only view of the current authentication status.
type Session struct {
	User            *Identity `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsLoading       bool      `json:"isLoading"`
	State           State     `json:"state"`
}

// NewSession returns the application-start session: no user, loading.
func NewSession() Session {
	return Session{IsLoading: true, State: StateUninitialized}
}

// Result is the outcome shape of every credential operation.
// Identity is only set by operations that return the updated principal.
type Result struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Identity *Identity `json:"user,omitempty"`
}

// Succeeded returns a successful Result.
func Succeeded() Result { return Result{Success: true} }

// Failed returns a failed Result carrying msg.
func Failed(msg string) Result { return Result{Error: msg} }
