package recipesdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Signup registers a new account. It does not log in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var out SignupResponse
	if err := c.call(ctx, http.MethodPost, "/auth/signup", req, &out, http.StatusCreated, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for an access token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", req, &out, http.StatusOK, false); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Logout forgets the token. Tokens are stateless, so nothing is sent.
func (c *Client) Logout() {
	c.SetToken("")
}

func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, &out, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	return c.call(ctx, http.MethodPut, "/auth/profile", req, nil, http.StatusOK, true)
}

func (c *Client) UpdateProfileImage(ctx context.Context, imageURL string) (*ProfileImageResponse, error) {
	var out ProfileImageResponse
	path := "/auth/update-profile-image?image_url=" + url.QueryEscape(imageURL)
	if err := c.call(ctx, http.MethodPut, path, nil, &out, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks for a reset link. The server answers the same way
// whether or not the email is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil, http.StatusOK, false)
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.call(ctx, http.MethodPost, "/auth/reset-password", req, nil, http.StatusOK, false)
}

// ListUsers requires an admin token.
func (c *Client) ListUsers(ctx context.Context) ([]UserResponse, error) {
	var out []UserResponse
	if err := c.call(ctx, http.MethodGet, "/auth/admin/users", nil, &out, http.StatusOK, true); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser requires an admin token.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.call(ctx, http.MethodDelete, "/auth/admin/users/"+strconv.FormatInt(userID, 10), nil, nil, http.StatusOK, true)
}
