package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Session holds the tokens of the signed-in operator. The backend issues and
// validates the tokens; the client only reads the expiry claim to know when
// a refresh is due.
type Session struct {
	AccessToken  string
	RefreshToken string
	Email        string
	ExpiresAt    time.Time
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges email+password for a session token. Failures carry the
// backend reason and are never retried silently.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	result := new(tokenResponse)
	apiErr := new(apiError)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(result).
		SetError(apiErr).
		Post("/auth/v1/token")
	if err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}
	if resp.IsError() {
		return Session{}, remoteErr("sign in", resp, apiErr)
	}

	session := c.storeSession(result)
	return session, nil
}

// Refresh exchanges the refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context) (Session, error) {
	c.mu.RLock()
	current := c.session
	c.mu.RUnlock()
	if current == nil || current.RefreshToken == "" {
		return Session{}, fmt.Errorf("refresh: no session")
	}

	result := new(tokenResponse)
	apiErr := new(apiError)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": current.RefreshToken}).
		SetResult(result).
		SetError(apiErr).
		Post("/auth/v1/token")
	if err != nil {
		return Session{}, fmt.Errorf("refresh: %w", err)
	}
	if resp.IsError() {
		return Session{}, remoteErr("refresh", resp, apiErr)
	}

	session := c.storeSession(result)
	return session, nil
}

// SignOut invalidates the session server-side and drops it locally. The
// local session is cleared even when the remote call fails.
func (c *Client) SignOut(ctx context.Context) error {
	apiErr := new(apiError)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetError(apiErr).
		Post("/auth/v1/logout")

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if resp.IsError() {
		return remoteErr("sign out", resp, apiErr)
	}
	return nil
}

// Session returns a copy of the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

// Authenticated reports whether a non-expired session is present.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return false
	}
	if c.session.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(c.session.ExpiresAt)
}

func (c *Client) storeSession(result *tokenResponse) Session {
	session := Session{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Email:        result.User.Email,
		ExpiresAt:    tokenExpiry(result.AccessToken),
	}
	if session.ExpiresAt.IsZero() && result.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	c.logger.Info("session established", zap.String("email", session.Email))
	return session
}

// tokenExpiry reads the exp claim of the access token without verifying the
// signature; verification is the backend's job.
func tokenExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
