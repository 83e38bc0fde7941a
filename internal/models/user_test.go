package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want UserRole
	}{
		{"admin", RoleAdmin},
		{"Administrator", RoleAdmin},
		{"docente", RoleTeacher},
		{"teacher", RoleTeacher},
		{"instructor", RoleTeacher},
		{"estudiante", RoleStudent},
		{"student", RoleStudent},
		{"  Docente ", RoleTeacher},
		{"", RoleStudent},
		{"superuser", RoleStudent}, // unknown values never upgrade privilege
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseRole(tt.raw); got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestUserRoleIsValid(t *testing.T) {
	for _, r := range AllRoles {
		if !r.IsValid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	if UserRole("superuser").IsValid() {
		t.Error("unknown role should not be valid")
	}
	if UserRole("Admin").IsValid() {
		t.Error("IsValid must not normalize case")
	}
}

func TestProfileDisplayName(t *testing.T) {
	p := &Profile{FullName: "Ana Torres", FirstName: "Ana", LastName: "Torres"}
	if got := p.DisplayName(); got != "Ana Torres" {
		t.Errorf("DisplayName() = %q, want full name", got)
	}

	p = &Profile{FirstName: "Luis", LastName: "Rojas"}
	if got := p.DisplayName(); got != "Luis Rojas" {
		t.Errorf("DisplayName() = %q, want first/last fallback", got)
	}
}
