package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"csxhub/internal/middleware"
	"csxhub/internal/models"
	"csxhub/internal/session"
	"csxhub/internal/store"
)

// totpIssuer appears in authenticator apps next to the account name.
const totpIssuer = "CSX Hub"

// Auth groups the authentication endpoints: signup, login, logout,
// session introspection, and the optional TOTP second factor.
type Auth struct {
	sessions     *session.Store
	userStore    *store.UserStore
	profileStore *store.ProfileStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore, profileStore *store.ProfileStore) *Auth {
	return &Auth{
		sessions:     sessions,
		userStore:    userStore,
		profileStore: profileStore,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// Signup registers a new member, creates their profile row, and logs
// them in immediately.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validateSignup(req.Email, req.Password, req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	existing, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		writeServerError(w, "signup lookup failed", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}

	user, err := a.userStore.Create(req.Email, req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		writeServerError(w, "signup create failed", err)
		return
	}

	// The profile row is created alongside the account so the member
	// page never has to special-case brand-new users.
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = user.DisplayName
	}
	if _, err := a.profileStore.Save(&models.Profile{
		UserID:      user.ID,
		Username:    username,
		CodingLevel: models.CodingLevelBeginner,
	}); err != nil {
		slog.Error("signup profile create failed", "user", user.ID, "error", err)
	}

	// New accounts have no second factor yet, so the session is fully
	// authenticated from the start.
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   true,
	}); err != nil {
		writeServerError(w, "signup session create failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user.Identity()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and opens a session. Accounts with TOTP
// enabled get a pending session and must call the 2FA verify endpoint
// before protected routes admit them.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := a.userStore.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeServerError(w, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   !user.TOTPEnabled,
	}); err != nil {
		writeServerError(w, "login session create failed", err)
		return
	}

	if user.TOTPEnabled {
		writeJSON(w, http.StatusOK, map[string]any{"two_factor_required": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Identity()})
}

// Logout destroys the session. The cookie is cleared even if the
// backing store cannot be reached.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("logout destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me reports the caller's identity. Anonymous callers get 401 with an
// empty body shape the client can distinguish from transport failures.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || !sess.TwoFADone {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		writeServerError(w, "me lookup failed", err)
		return
	}
	if user == nil {
		// The account was deleted after the session was issued.
		a.sessions.Destroy(r.Context(), w, r)
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Identity()})
}

// TwoFASetup generates a TOTP secret for the logged-in member and
// returns it with a QR code PNG (base64) for authenticator apps. The
// factor only becomes mandatory after a successful verify.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		writeServerError(w, "totp generate failed", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		writeServerError(w, "save totp secret failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeServerError(w, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_png":  base64.StdEncoding.EncodeToString(qrPNG),
		"otp_url": key.URL(),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates a TOTP code. On first-time setup it activates
// the factor; in both cases it marks the session fully authenticated.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req twoFAVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeServerError(w, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "Two-factor authentication is not set up.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			writeServerError(w, "enable totp failed", err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		writeServerError(w, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user.Identity()})
}
