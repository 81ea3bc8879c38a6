package handlers

import (
	"net/http"
	"strings"

	"csxhub/internal/middleware"
	"csxhub/internal/models"
	"csxhub/internal/store"
)

// Profile groups the member-profile endpoints.
type Profile struct {
	profileStore *store.ProfileStore
	userStore    *store.UserStore
}

// NewProfile creates a new Profile handler group.
func NewProfile(profileStore *store.ProfileStore, userStore *store.UserStore) *Profile {
	return &Profile{
		profileStore: profileStore,
		userStore:    userStore,
	}
}

// profileResponse merges the stored profile with account defaults. The
// avatar falls back to the account's; the username falls back to the
// display name, so the member page always has something to show.
type profileResponse struct {
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	Mobile      string             `json:"mobile,omitempty"`
	GitHub      string             `json:"github,omitempty"`
	OnWhatsApp  bool               `json:"on_whatsapp"`
	CodingLevel models.CodingLevel `json:"coding_level"`
	Bio         string             `json:"bio,omitempty"`
	Avatar      string             `json:"avatar,omitempty"`
}

// Get returns the caller's profile merged with account defaults.
func (p *Profile) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := p.userStore.FindByID(sess.UserID)
	if err != nil {
		writeServerError(w, "profile user lookup failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	profile, err := p.profileStore.FindByUserID(sess.UserID)
	if err != nil {
		writeServerError(w, "profile lookup failed", err)
		return
	}

	resp := profileResponse{
		Username:    user.DisplayName,
		Email:       user.Email,
		CodingLevel: models.CodingLevelBeginner,
	}
	if user.AvatarURL != nil {
		resp.Avatar = *user.AvatarURL
	}

	if profile != nil {
		if profile.Username != "" {
			resp.Username = profile.Username
		}
		if profile.Mobile != nil {
			resp.Mobile = *profile.Mobile
		}
		if profile.GitHub != nil {
			resp.GitHub = *profile.GitHub
		}
		resp.OnWhatsApp = profile.OnWhatsApp
		if profile.CodingLevel.Valid() {
			resp.CodingLevel = profile.CodingLevel
		}
		if profile.Bio != nil {
			resp.Bio = *profile.Bio
		}
		if profile.AvatarURL != nil {
			resp.Avatar = *profile.AvatarURL
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"profile": resp})
}

type profileRequest struct {
	Username    string `json:"username"`
	Mobile      string `json:"mobile,omitempty"`
	GitHub      string `json:"github,omitempty"`
	OnWhatsApp  bool   `json:"on_whatsapp"`
	CodingLevel string `json:"coding_level,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// Save upserts the caller's profile. Omitted optional fields clear
// their stored values; the request is the full desired state.
func (p *Profile) Save(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if msg := validateProfile(req.Username, req.Mobile, req.Bio); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	level := models.CodingLevelBeginner
	if req.CodingLevel != "" {
		level = models.CodingLevel(req.CodingLevel)
		if !level.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "Coding level must be beginner, intermediate, or advanced.")
			return
		}
	}

	profile := &models.Profile{
		UserID:      sess.UserID,
		Username:    req.Username,
		OnWhatsApp:  req.OnWhatsApp,
		CodingLevel: level,
	}
	if req.Mobile != "" {
		profile.Mobile = &req.Mobile
	}
	if req.GitHub != "" {
		profile.GitHub = &req.GitHub
	}
	if req.Bio != "" {
		profile.Bio = &req.Bio
	}
	if req.Avatar != "" {
		profile.AvatarURL = &req.Avatar
	}

	saved, err := p.profileStore.Save(profile)
	if err != nil {
		writeServerError(w, "profile save failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"profile": saved})
}
