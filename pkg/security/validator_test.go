package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentityToken(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		expectError error
		expected    string
	}{
		{
			name:     "numeric id",
			token:    "6",
			expected: "6",
		},
		{
			name:     "opaque id with allowed punctuation",
			token:    "user-42_a",
			expected: "user-42_a",
		},
		{
			name:     "surrounding spaces are trimmed",
			token:    "  1  ",
			expected: "1",
		},
		{
			name:        "empty token",
			token:       "",
			expectError: ErrEmptyIdentityToken,
		},
		{
			name:        "blank token",
			token:       "   ",
			expectError: ErrEmptyIdentityToken,
		},
		{
			name:        "token too long",
			token:       strings.Repeat("a", MaxIdentityTokenLength+1),
			expectError: ErrIdentityTokenTooLong,
		},
		{
			name:        "header injection attempt",
			token:       "1\r\nX-Admin: true",
			expectError: ErrIdentityTokenInvalidChars,
		},
		{
			name:        "space inside token",
			token:       "bearer 1",
			expectError: ErrIdentityTokenInvalidChars,
		},
		{
			name:        "non ascii letters",
			token:       "usér",
			expectError: ErrIdentityTokenInvalidChars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateIdentityToken(tt.token)

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				assert.Empty(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestIsValidTokenChar(t *testing.T) {
	tests := []struct {
		name     string
		char     rune
		expected bool
	}{
		{name: "lowercase letter", char: 'a', expected: true},
		{name: "uppercase letter", char: 'Z', expected: true},
		{name: "digit", char: '5', expected: true},
		{name: "hyphen", char: '-', expected: true},
		{name: "underscore", char: '_', expected: true},
		{name: "colon - invalid", char: ':', expected: false},
		{name: "slash - invalid", char: '/', expected: false},
		{name: "newline - invalid", char: '\n', expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isValidTokenChar(tt.char))
		})
	}
}

func TestMaxIdentityTokenLength(t *testing.T) {
	assert.Equal(t, 64, MaxIdentityTokenLength)
}

// BenchmarkValidateIdentityToken benchmarks the validation function
func BenchmarkValidateIdentityToken(b *testing.B) {
	token := "user-42_a"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ValidateIdentityToken(token)
	}
}
