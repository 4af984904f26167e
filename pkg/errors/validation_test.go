package errors

import (
	"testing"
)

func TestValidateApplicationCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid short", "ULM", false},
		{"valid two chars", "DB", false},
		{"valid with digits", "API2", false},
		{"valid long", "PAYMENTGATEWAY", false},

		{"empty", "", true},
		{"lowercase", "ulm", true},
		{"single char", "U", true},
		{"leading digit", "1UP", true},
		{"with dash", "MY-APP", true},
		{"with space", "MY APP", true},
		{"too long", "ABCDEFGHIJKLMNOPQRSTU", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateApplicationCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateApplicationCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "User Login Manager", false},
		{"valid unicode", "Zahlungs-Dienst", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"too long", string(make([]byte, 150)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDisplayName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"six digit", "#10b981", false},
		{"three digit", "#fff", false},
		{"uppercase", "#3B82F6", false},

		{"no hash", "10b981", true},
		{"four digits", "#abcd", true},
		{"non-hex", "#gggggg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"valid", "platform@example.com", false},
		{"valid subdomain", "team@corp.internal.example.org", false},

		{"no at", "example.com", true},
		{"double at", "a@b@c.com", true},
		{"no domain dot", "a@localhost", true},
		{"with space", "a b@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMaxDepth(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"min", 1, false},
		{"default", 5, false},
		{"max", 10, false},

		{"zero", 0, true},
		{"negative", -3, true},
		{"over max", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaxDepth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMaxDepth(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if tt.wantErr && !Is(err, ErrCodeInvalidDepth) {
				t.Errorf("ValidateMaxDepth(%d) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDepth)
			}
		})
	}
}
