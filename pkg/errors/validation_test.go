package errors

import (
	"testing"
)

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid flowchart id", "flowchart_es_verb_conjugation_20250101120000_a1b2c3d4", false},
		{"valid vocab id", "vocab_es_casa_20250101120000_a1b2c3d4", false},
		{"valid with dash", "guide-123", false},
		{"valid with dot", "guide.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo..bar", true},
		{"path separator", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidID {
				t.Errorf("ValidateDocumentID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestSanitizeIDComponent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple word", "casa", "casa"},
		{"uppercase", "Casa", "casa"},
		{"spaces", "buenos dias", "buenos_dias"},
		{"path separators", "a/b\\c", "a_b_c"},
		{"traversal collapses", "../../etc", "etc"},
		{"control chars", "foo\x01bar", "foo_bar"},
		{"consecutive unsafe collapse", "a  -  b", "a_b"},
		{"unicode letters pass", "café", "café"},
		{"empty", "", "unknown"},
		{"only unsafe", "///", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeIDComponent(tt.input); got != tt.want {
				t.Errorf("SanitizeIDComponent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("truncates long input", func(t *testing.T) {
		long := make([]byte, 200)
		for i := range long {
			long[i] = 'a'
		}
		got := SanitizeIDComponent(string(long))
		if len(got) > 64 {
			t.Errorf("SanitizeIDComponent length = %d, want <= 64", len(got))
		}
	})

	t.Run("output is always filename safe", func(t *testing.T) {
		inputs := []string{"../x", "a/b", "a b\tc", "\x00\x01", "normal"}
		for _, in := range inputs {
			if err := ValidateDocumentID(SanitizeIDComponent(in)); err != nil {
				t.Errorf("SanitizeIDComponent(%q) produced unsafe output: %v", in, err)
			}
		}
	})
}
