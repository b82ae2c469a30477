package services

import (
	"context"

	"moviewave/internal/types"
)

// GetKakaoLoginURL asks the backend for the Kakao authorization URL.
func (c *APIClient) GetKakaoLoginURL(ctx context.Context) (*types.KakaoLoginResponse, error) {
	var resp types.KakaoLoginResponse
	if err := c.Get(ctx, "/api/auth/kakao/login", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HandleKakaoCallback exchanges an authorization code for the signed-in identity.
func (c *APIClient) HandleKakaoCallback(ctx context.Context, code string) (*types.KakaoCallbackResponse, error) {
	var resp types.KakaoCallbackResponse
	if err := c.Get(ctx, "/api/auth/kakao/callback", Params{{Key: "code", Value: code}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Logout(ctx context.Context) (*types.MessageResponse, error) {
	var msg types.MessageResponse
	if err := c.Post(ctx, "/api/auth/logout", nil, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MsgLoggedOutLocally replaces the backend's reply when it could not be reached.
const MsgLoggedOutLocally = "Logged out on this device."

type BackendLogout interface {
	Logout(ctx context.Context) (*types.MessageResponse, error)
}

// LogOut tells the backend, then clears identity whatever the backend said.
// A backend failure is already logged by the client and only changes the
// message; the error is reserved for failing to clear local state.
func LogOut(ctx context.Context, backend BackendLogout, identity *IdentityStore) (*types.MessageResponse, error) {
	msg, err := backend.Logout(ctx)
	if err != nil {
		msg = &types.MessageResponse{Message: MsgLoggedOutLocally}
	}

	if err := identity.SignOut(); err != nil {
		return nil, err
	}
	return msg, nil
}
