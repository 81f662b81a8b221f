package http

import (
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
)

// ConfigureRequest replaces the identity of the caller's tenant.
type ConfigureRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AppName      string `json:"app_name"`
}

type ConfigureResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
	Tenant   string `json:"tenant"`
}

type RegisterResponse struct {
	Status   string                    `json:"status"`
	Data     *feedsdk.RegisterResponse `json:"data"`
	ClientID string                    `json:"client_id"`
}

// TokenResponse describes a token without handing it out in full.
type TokenResponse struct {
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	TokenPreview string    `json:"token_preview"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type StatusResponse struct {
	feedsdk.SessionStatus
	ServerURL string `json:"server_url"`
	HasToken  bool   `json:"has_token"`
	Tenant    string `json:"tenant"`
}

type TestServerResponse struct {
	Status         string                  `json:"status"`
	ServerResponse *feedsdk.HealthResponse `json:"server_response"`
}

// LoginRequest is the human login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterUserRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	Admin        bool   `json:"is_admin,omitempty"`
}

// UserView is a user as shown over the API. Secrets never appear.
type UserView struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Admin     bool       `json:"is_admin"`
	ClientID  string     `json:"client_id,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Admin:     u.Admin,
		ClientID:  u.ClientID,
		LastLogin: u.LastLogin,
	}
}

type UserResponse struct {
	Status  string   `json:"status,omitempty"`
	Message string   `json:"message,omitempty"`
	User    UserView `json:"user"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	Tenants       int    `json:"tenants"`
	Version       string `json:"version,omitempty"`
}
