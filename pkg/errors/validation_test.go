package errors

import (
	"testing"
)

func TestValidateModName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "StrawberryJam2021", false},
		{"with dash", "my-collab", false},
		{"with spaces", "Spring Collab 2020", false},
		{"with dot", "collab.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"traversal", "../Saves", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMapPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"flat", "lobby", false},
		{"nested", "Collab/0-Lobbies/1-Beginner", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "Collab/../../secret", true},
		{"backslash", "Collab\\lobby", true},
		{"control", "lob\x01by", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMapPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
