package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/navigation"
	apperrors "github.com/vbrevik/plan-targeting-assessment-sub003/internal/errors"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

// ShellService is the session surface the shell API exposes. *service.SessionProvider satisfies it.
type ShellService interface {
	Session() domainauth.Session
	CheckAuth(ctx context.Context) domainauth.Session
	Idle() service.IdleSnapshot
	Navigation() navigation.Tree

	Login(ctx context.Context, in ports.LoginInput) domainauth.Result
	Register(ctx context.Context, in ports.RegisterInput) domainauth.Result
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, in ports.ProfileInput) domainauth.Result
	ChangePassword(ctx context.Context, in ports.ChangePasswordInput) domainauth.Result

	Activity()
	Extend(ctx context.Context) bool

	// Subscribe registers fn for every session transition and returns its cancel func.
	Subscribe(fn func(domainauth.Session)) (cancel func())
}

var _ ShellService = (*service.SessionProvider)(nil)

// ShellHandlers serves /api/shell/*. Only the browser holding the session cookie
// issued at login may see or act on the signed-in session.
type ShellHandlers struct {
	Svc    ShellService
	Logger *slog.Logger

	binding *sessionBinding
}

func (h *ShellHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type sessionResponse struct {
	Session   domainauth.Session   `json:"session"`
	Idle      service.IdleSnapshot `json:"idle"`
	CSRFToken string               `json:"csrfToken,omitempty"`
}

// Session returns the current session and idle state.
// GET /api/shell/session[?refresh=true] re-validates against the backend first.
// Callers without the session cookie always see a signed-out session.
func (h *ShellHandlers) Session(w http.ResponseWriter, r *http.Request) {
	if !h.binding.bound(r) {
		h.binding.clearCookie(w, r)
		WriteJSON(w, http.StatusOK, sessionResponse{
			Session:   domainauth.Session{State: domainauth.StateUnauthenticated},
			Idle:      service.IdleSnapshot{State: service.IdleStopped},
			CSRFToken: GetCSRFToken(r),
		})
		return
	}

	var s domainauth.Session
	if r.URL.Query().Get("refresh") == "true" {
		s = h.Svc.CheckAuth(r.Context())
		if err := r.Context().Err(); err != nil {
			WriteAppError(w, err)
			return
		}
	} else {
		s = h.Svc.Session()
	}
	WriteJSON(w, http.StatusOK, sessionResponse{
		Session:   s,
		Idle:      h.Svc.Idle(),
		CSRFToken: GetCSRFToken(r),
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// Login POST /api/shell/login.
func (h *ShellHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := requireFields(field{"identifier", req.Identifier}, field{"password", req.Password}); err != nil {
		WriteAppError(w, err)
		return
	}

	res := h.Svc.Login(r.Context(), ports.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if !res.Success {
		h.logger().Debug("login rejected", "identifier", req.Identifier, "error", res.Error)
	}
	h.bind(w, r, res)
	h.writeResult(w, res)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /api/shell/register.
func (h *ShellHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := requireFields(
		field{"username", req.Username},
		field{"email", req.Email},
		field{"password", req.Password},
	); err != nil {
		WriteAppError(w, err)
		return
	}

	res := h.Svc.Register(r.Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	h.bind(w, r, res)
	h.writeResult(w, res)
}

// Logout POST /api/shell/logout. Local state and the session cookie are cleared
// before the response is written.
func (h *ShellHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.binding.reset()
	h.binding.clearCookie(w, r)
	h.Svc.Logout(r.Context())
	WriteJSON(w, http.StatusOK, sessionResponse{Session: h.Svc.Session(), Idle: h.Svc.Idle()})
}

type profileRequest struct {
	Username string `json:"username"`
}

// Profile PUT /api/shell/profile.
func (h *ShellHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := requireFields(field{"username", req.Username}); err != nil {
		WriteAppError(w, err)
		return
	}
	h.writeResult(w, h.Svc.UpdateProfile(r.Context(), ports.ProfileInput{Username: req.Username}))
}

type passwordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Password POST /api/shell/password. Email defaults to the signed-in user's.
func (h *ShellHandlers) Password(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email = strings.TrimSpace(req.Email); req.Email == "" {
		if u := h.Svc.Session().User; u != nil {
			req.Email = u.Email
		}
	}
	if err := requireFields(
		field{"email", req.Email},
		field{"currentPassword", req.CurrentPassword},
		field{"newPassword", req.NewPassword},
	); err != nil {
		WriteAppError(w, err)
		return
	}
	h.writeResult(w, h.Svc.ChangePassword(r.Context(), ports.ChangePasswordInput{
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}))
}

// Activity POST /api/shell/activity records user activity for the idle monitor.
func (h *ShellHandlers) Activity(w http.ResponseWriter, _ *http.Request) {
	h.Svc.Activity()
	w.WriteHeader(http.StatusNoContent)
}

type extendResponse struct {
	Extended bool                 `json:"extended"`
	Session  domainauth.Session   `json:"session"`
	Idle     service.IdleSnapshot `json:"idle"`
}

// Extend POST /api/shell/extend. A failed refresh ends the session; the response
// reports it rather than failing the request.
func (h *ShellHandlers) Extend(w http.ResponseWriter, r *http.Request) {
	ok := h.Svc.Extend(r.Context())
	WriteJSON(w, http.StatusOK, extendResponse{Extended: ok, Session: h.Svc.Session(), Idle: h.Svc.Idle()})
}

type navigationResponse struct {
	Groups navigation.Tree `json:"groups"`
}

// Navigation GET /api/shell/navigation.
func (h *ShellHandlers) Navigation(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, navigationResponse{Groups: h.Svc.Navigation()})
}

// bind hands the session cookie to the caller after a successful sign-in.
func (h *ShellHandlers) bind(w http.ResponseWriter, r *http.Request, res domainauth.Result) {
	if !res.Success {
		return
	}
	if err := h.binding.issue(w, r); err != nil {
		h.logger().Error("issue session cookie", "error", err)
	}
}

// writeResult reports gateway outcomes with 200; the UI branches on success.
func (h *ShellHandlers) writeResult(w http.ResponseWriter, res domainauth.Result) {
	WriteJSON(w, http.StatusOK, res)
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return apperrors.ValidationField(f.name, f.name+" is required")
		}
	}
	return nil
}
