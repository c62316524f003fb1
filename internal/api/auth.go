package api

import (
	"net/http"
	"time"

	"shopctl/pkg/domain"
)

// AuthClient calls the authentication endpoints.
type AuthClient struct {
	client *Client
}

// NewAuthClient constructs an auth client. Login is unauthenticated;
// Me takes the token to confirm explicitly.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{client: NewClient(baseURL, timeout, nil)}
}

// Login exchanges credentials for an access token.
func (a *AuthClient) Login(email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := a.client.doJSON(http.MethodPost, "/auth/login", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Me confirms token and returns the actor behind it. The server may
// name the identifier field either "id" or "userId".
func (a *AuthClient) Me(token string) (domain.Actor, error) {
	var raw struct {
		ID     string           `json:"id"`
		UserID string           `json:"userId"`
		Email  string           `json:"email"`
		Role   domain.ActorRole `json:"role"`
	}
	if err := a.client.doJSONToken(http.MethodGet, "/auth/me", nil, token, nil, &raw); err != nil {
		return domain.Actor{}, err
	}
	actor := domain.Actor{UserID: raw.UserID, Email: raw.Email, Role: raw.Role}
	if actor.UserID == "" {
		actor.UserID = raw.ID
	}
	return actor, nil
}
