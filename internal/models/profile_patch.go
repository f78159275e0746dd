package models

import (
	"errors"
	"strings"
)

var (
	ErrUsernameEmpty = errors.New("username cannot be empty")
	ErrUsernameLong  = errors.New("username cannot exceed 50 characters")
	ErrBioLong       = errors.New("bio cannot exceed 200 characters")
	ErrAvatarLong    = errors.New("avatar url cannot exceed 255 characters")
)

// ProfilePatch is a partial update of the viewer's profile. Every field is a
// pointer: nil means "leave unchanged", non-nil means "set to this value".
// The fixed field set replaces merging arbitrary key/value maps into the row.
type ProfilePatch struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// Validate checks every present field before any merge happens.
func (p *ProfilePatch) Validate() error {
	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		if name == "" {
			return ErrUsernameEmpty
		}
		if len(name) > 50 {
			return ErrUsernameLong
		}
	}
	if p.Bio != nil && len(*p.Bio) > 200 {
		return ErrBioLong
	}
	if p.Avatar != nil && len(*p.Avatar) > 255 {
		return ErrAvatarLong
	}
	return nil
}

// Apply merges the present fields into the user and reports whether anything
// changed. Callers must Validate first.
func (p *ProfilePatch) Apply(u *User) bool {
	changed := false
	if p.Username != nil {
		u.Username = strings.TrimSpace(*p.Username)
		changed = true
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
		changed = true
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
		changed = true
	}
	return changed
}
