package client

import (
	"context"
	"net/http"
)

// Profile is the member page data: stored profile fields merged with
// account defaults by the server.
type Profile struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile,omitempty"`
	GitHub      string `json:"github,omitempty"`
	OnWhatsApp  bool   `json:"on_whatsapp"`
	CodingLevel string `json:"coding_level"`
	Bio         string `json:"bio,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type profileEnvelope struct {
	Profile *Profile `json:"profile"`
}

// MyProfile fetches the signed-in member's profile.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var resp profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

// ProfileParams are the inputs for saving a profile. The request is the
// full desired state; omitted optional fields clear their stored values.
type ProfileParams struct {
	Username    string `json:"username"`
	Mobile      string `json:"mobile,omitempty"`
	GitHub      string `json:"github,omitempty"`
	OnWhatsApp  bool   `json:"on_whatsapp"`
	CodingLevel string `json:"coding_level,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// SaveProfile upserts the signed-in member's profile.
func (c *Client) SaveProfile(ctx context.Context, params ProfileParams) error {
	return c.do(ctx, http.MethodPut, "/api/profile", params, nil)
}
