package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopwave/storefront/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Login exchanges credentials for a bearer token. A 401 here means bad
// credentials and never invalidates the session.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp TokenResponseDTO
	err := c.do(ctx, http.MethodPost, loginPath, nil, LoginRequestDTO{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return resp.Token, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp TokenResponseDTO
	err := c.do(ctx, http.MethodPost, "auth/register", nil, RegisterRequestDTO{
		Name:     name,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "auth/profile", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RegisterPushToken hands the device's push token to the backend.
func (c *Client) RegisterPushToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "auth/fcm-token", nil, PushTokenRequestDTO{FCMToken: token}, nil)
}
