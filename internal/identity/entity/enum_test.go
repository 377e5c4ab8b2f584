package entity

import "testing"

func TestUserStatus_Ensure(t *testing.T) {
	tests := []struct {
		in   UserStatus
		want UserStatus
		str  string
	}{
		{in: UserStatusActive, want: UserStatusActive, str: "Active"},
		{in: UserStatusUnverified, want: UserStatusUnverified, str: "Unverified"},
		{in: UserStatusBanned, want: UserStatusBanned, str: "Banned"},
		{in: UserStatusInactive, want: UserStatusInactive, str: "Inactive"},
		{in: UserStatus(99), want: UserStatusUnknown, str: "Unknown"},
		{in: UserStatus(-1), want: UserStatusUnknown, str: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.in.Ensure(); got != tt.want {
				t.Fatalf("Ensure(%d) = %d, want %d", tt.in, got, tt.want)
			}
			if got := tt.in.String(); got != tt.str {
				t.Fatalf("String(%d) = %q, want %q", tt.in, got, tt.str)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"admin":     RoleAdmin,
		" Doctor ":  RoleDoctor,
		"patient":   RolePatient,
		"":          RolePatient,
		"superuser": RolePatient,
	}

	for in, want := range tests {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}
