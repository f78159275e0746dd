package models

import (
	"strings"
	"testing"
)

func strp(s string) *string { return &s }

func TestProfilePatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   ProfilePatch
		wantErr error
	}{
		{"empty patch", ProfilePatch{}, nil},
		{"valid full patch", ProfilePatch{Username: strp("rani"), Bio: strp("film lover"), Avatar: strp("/a.png")}, nil},
		{"blank username", ProfilePatch{Username: strp("   ")}, ErrUsernameEmpty},
		{"long username", ProfilePatch{Username: strp(strings.Repeat("x", 51))}, ErrUsernameLong},
		{"long bio", ProfilePatch{Bio: strp(strings.Repeat("x", 201))}, ErrBioLong},
		{"long avatar", ProfilePatch{Avatar: strp(strings.Repeat("x", 256))}, ErrAvatarLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.patch.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfilePatchApply(t *testing.T) {
	user := User{Username: "old", Bio: "old bio", Avatar: "/old.png"}

	patch := ProfilePatch{Username: strp("  new  "), Bio: strp("new bio")}
	if !patch.Apply(&user) {
		t.Fatal("Apply() = false, want true")
	}
	if user.Username != "new" {
		t.Errorf("Username = %q, want %q (trimmed)", user.Username, "new")
	}
	if user.Bio != "new bio" {
		t.Errorf("Bio = %q, want %q", user.Bio, "new bio")
	}
	if user.Avatar != "/old.png" {
		t.Errorf("Avatar = %q, absent field must stay untouched", user.Avatar)
	}

	if (&ProfilePatch{}).Apply(&user) {
		t.Error("empty patch must report no change")
	}
}
