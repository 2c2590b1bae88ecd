package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "node1", false},
		{"valid uuid", "0b6a3a44-3c1f-4a53-9d4b-6d0c0b1f5e2a", false},
		{"valid with dot", "graph.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePropertyPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single segment", "color", false},
		{"nested", "attributes.text.content", false},

		{"empty", "", true},
		{"leading dot", ".color", true},
		{"trailing dot", "attributes.", true},
		{"double dot", "attributes..color", true},
		{"control char", "attr\x01ibutes.color", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePropertyPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePropertyPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePropertyPath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
