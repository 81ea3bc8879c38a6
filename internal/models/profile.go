package models

import (
	"time"

	"github.com/google/uuid"
)

// CodingLevel is a member's self-reported experience level.
type CodingLevel string

const (
	CodingLevelBeginner     CodingLevel = "beginner"
	CodingLevelIntermediate CodingLevel = "intermediate"
	CodingLevelAdvanced     CodingLevel = "advanced"
)

// Valid reports whether the level is one of the known enum values.
func (c CodingLevel) Valid() bool {
	switch c {
	case CodingLevelBeginner, CodingLevelIntermediate, CodingLevelAdvanced:
		return true
	}
	return false
}

// Profile holds member-supplied metadata keyed by the owning user's ID.
// A profile is not created automatically with the account; readers merge
// missing fields with the account's defaults.
type Profile struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Username    string      `json:"username"`
	Mobile      *string     `json:"mobile,omitempty"`
	GitHub      *string     `json:"github,omitempty"`
	OnWhatsApp  bool        `json:"on_whatsapp"`
	CodingLevel CodingLevel `json:"coding_level"`
	Bio         *string     `json:"bio,omitempty"`
	AvatarURL   *string     `json:"avatar_url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
