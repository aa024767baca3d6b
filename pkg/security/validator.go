package security

import (
	"errors"
	"strings"
	"unicode"
)

const (
	// MaxIdentityTokenLength defines the maximum allowed length for an identity token
	MaxIdentityTokenLength = 64
)

var (
	// ErrEmptyIdentityToken is returned for blank tokens
	ErrEmptyIdentityToken = errors.New("identity token is empty")
	// ErrIdentityTokenTooLong is returned for tokens over MaxIdentityTokenLength
	ErrIdentityTokenTooLong = errors.New("identity token too long")
	// ErrIdentityTokenInvalidChars is returned for tokens with characters outside the allowed set
	ErrIdentityTokenInvalidChars = errors.New("identity token contains invalid characters")
)

// ValidateIdentityToken validates a caller-supplied identity token taken from the URL.
// The token ends up verbatim in an Authorization header, so only a conservative
// character set is accepted.
func ValidateIdentityToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyIdentityToken
	}

	if len(token) > MaxIdentityTokenLength {
		return "", ErrIdentityTokenTooLong
	}

	for _, char := range token {
		if !isValidTokenChar(char) {
			return "", ErrIdentityTokenInvalidChars
		}
	}

	return token, nil
}

// isValidTokenChar checks if a character is allowed in an identity token
func isValidTokenChar(char rune) bool {
	if char > unicode.MaxASCII {
		return false
	}
	return unicode.IsLetter(char) || unicode.IsDigit(char) || char == '-' || char == '_'
}
