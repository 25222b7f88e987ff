package models

import "time"

// Profile is a row of the backend's profiles table. Only the columns the
// client reads are mapped.
type Profile struct {
	ID              string     `json:"id" db:"id"`
	Username        string     `json:"username" db:"username"`
	FullName        string     `json:"full_name,omitempty" db:"full_name"`
	AvatarKey       string     `json:"avatar_key,omitempty" db:"avatar_key"`
	Points          int        `json:"points" db:"points"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at,omitempty" db:"terms_accepted_at"`
}

// DisplayName prefers the full name and falls back to the username.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}
