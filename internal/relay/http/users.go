package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

var errNotLoggedIn = &feedsdk.OAuth2Error{
	StatusCode:  http.StatusUnauthorized,
	Code:        "not_authenticated",
	Description: "invalid or expired session",
}

// UserHandler serves the human login layer.
type UserHandler struct {
	UserService *service.UserService
	Tenants     *service.TenantRegistry
	SessionTTL  time.Duration
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleLogin checks a username and password and sets the session cookie.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		feedsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	token, u, err := h.UserService.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidLogin):
		errNotLoggedIn.WithDescription("invalid username or password").WriteError(w)
		return
	default:
		slogx.FromContext(ctx).Error("login failed", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}

	h.setSessionCookie(w, r, token)
	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		Status:  "success",
		Message: "login successful",
		User:    toUserView(u),
	})
}

// HandleLogout deletes the session and clears the cookie. It succeeds even
// without a session.
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.UserService.Logout(ctx, cookie.Value); err != nil {
			slogx.FromContext(ctx).Error("logout failed", "error", err)
			feedsdk.ErrServerError.WriteError(w)
			return
		}
	}
	if u, ok := UserFromContext(ctx); ok {
		h.Tenants.Forget(u.ID)
	}

	clearSessionCookie(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "logged out",
	})
}

// HandleMe returns the logged in user.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		errNotLoggedIn.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{User: toUserView(u)})
}

// HandleRegisterUser creates a user account.
func (h *UserHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterUserRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		feedsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	u, err := h.UserService.CreateUser(ctx, service.NewUser{
		Username:     req.Username,
		Password:     req.Password,
		Email:        req.Email,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Admin:        req.Admin,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidUserRequest):
		feedsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	case errors.Is(err, service.ErrUserExists):
		(&feedsdk.OAuth2Error{
			StatusCode:  http.StatusBadRequest,
			Code:        "user_exists",
			Description: "user '" + req.Username + "' already exists",
		}).WriteError(w)
		return
	default:
		slogx.FromContext(ctx).Error("user registration failed", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, UserResponse{
		Status:  "success",
		Message: "user created",
		User:    toUserView(u),
	})
}
