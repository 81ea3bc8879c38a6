package client

import (
	"context"
	"errors"
	"net/http"
)

// ErrTwoFactorRequired is returned by Login when the account has TOTP
// enabled; call VerifyTwoFactor with a code to finish signing in.
var ErrTwoFactorRequired = errors.New("client: two-factor code required")

type userEnvelope struct {
	User *User `json:"user"`
}

// Bootstrap resolves the current session, typically once at startup.
// Whatever the outcome, live session or not, the auth state is marked
// booted so UIs can stop waiting.
// Transport errors are returned after the state resolves to anonymous.
func (c *Client) Bootstrap(ctx context.Context) error {
	var resp userEnvelope
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp)
	if err == nil && resp.User != nil {
		c.auth.setUser(resp.User)
		return nil
	}

	c.auth.markAnonymous()
	if err != nil && !IsStatus(err, http.StatusUnauthorized) {
		return err
	}
	return nil
}

// SignupParams are the inputs for registering a new member.
type SignupParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// Signup registers a new member. On success the account is signed in
// and the auth state resolves to authenticated.
func (c *Client) Signup(ctx context.Context, params SignupParams) (*User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", params, &resp); err != nil {
		return nil, err
	}
	c.auth.setUser(resp.User)
	return resp.User, nil
}

// Login signs in with email and password. Accounts with TOTP enabled
// get ErrTwoFactorRequired; the session is pending until
// VerifyTwoFactor succeeds.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		TwoFactorRequired bool  `json:"two_factor_required"`
		User              *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.TwoFactorRequired {
		return nil, ErrTwoFactorRequired
	}
	c.auth.setUser(resp.User)
	return resp.User, nil
}

// VerifyTwoFactor completes a pending login with a TOTP code.
func (c *Client) VerifyTwoFactor(ctx context.Context, code string) (*User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/2fa/verify", map[string]string{
		"code": code,
	}, &resp); err != nil {
		return nil, err
	}
	c.auth.setUser(resp.User)
	return resp.User, nil
}

// TwoFactorSetup holds the enrollment material for an authenticator app.
type TwoFactorSetup struct {
	Secret string `json:"secret"`
	QRPNG  string `json:"qr_png"`
	OTPURL string `json:"otp_url"`
}

// SetupTwoFactor starts TOTP enrollment for the signed-in member.
func (c *Client) SetupTwoFactor(ctx context.Context) (*TwoFactorSetup, error) {
	var resp TwoFactorSetup
	if err := c.do(ctx, http.MethodPost, "/api/auth/2fa/setup", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the session. The local auth state always resolves to
// anonymous, even when the server cannot be reached. The member asked
// to sign out, so the client-side session dies unconditionally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", struct{}{}, nil)
	c.auth.markAnonymous()
	return err
}
