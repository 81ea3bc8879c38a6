package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSaveProfileRejectsInvalidInput(t *testing.T) {
	profile := NewProfile(nil, nil)
	sess := testSession(uuid.New(), "member@test.example")

	tests := []struct {
		name string
		body string
	}{
		{name: "missing username", body: `{"username":""}`},
		{name: "bad mobile", body: `{"username":"ada","mobile":"call-me"}`},
		{name: "bad coding level", body: `{"username":"ada","coding_level":"wizard"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(tt.body))
			req = req.WithContext(ctxWithSession(req.Context(), sess))
			rec := httptest.NewRecorder()

			profile.Save(rec, req)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
		})
	}
}

func TestProfileMergeOnRead(t *testing.T) {
	env := newTestEnv(t)
	userID := testUser(t, env, "merge@test.example")
	sess := testSession(userID, "merge@test.example")

	// Drop the profile row so only account defaults remain.
	if err := env.ProfileStore.Delete(userID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	env.Profile.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var resp struct {
		Profile profileResponse `json:"profile"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Profile.Username != "Test User" {
		t.Errorf("username = %q, want account display name", resp.Profile.Username)
	}
	if resp.Profile.Email != "merge@test.example" {
		t.Errorf("email = %q, want account email", resp.Profile.Email)
	}

	// Save a full profile, then read it back merged.
	body := `{"username":"merger","mobile":"+14155550100","github":"merger","on_whatsapp":true,"coding_level":"advanced","bio":"hi"}`
	req = httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(body))
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec = httptest.NewRecorder()
	env.Profile.Save(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec = httptest.NewRecorder()
	env.Profile.Get(rec, req)
	var after struct {
		Profile profileResponse `json:"profile"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Profile.Username != "merger" {
		t.Errorf("username = %q, want merger", after.Profile.Username)
	}
	if after.Profile.CodingLevel != "advanced" {
		t.Errorf("coding_level = %q, want advanced", after.Profile.CodingLevel)
	}
	if !after.Profile.OnWhatsApp {
		t.Error("on_whatsapp not saved")
	}
}

func TestMediaUnavailableWithoutStorage(t *testing.T) {
	media := NewMedia(nil, nil)
	sess := testSession(uuid.New(), "uploader@test.example")

	req := httptest.NewRequest(http.MethodPost, "/api/media", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	media.Upload(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("upload status = %d, want 503", rec.Code)
	}
}
