package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		param    string
		expected Identity
	}{
		{name: "explicit id", param: "6", expected: "6"},
		{name: "trimmed id", param: " 5 ", expected: "5"},
		{name: "absent id", param: "", expected: DefaultIdentity},
		{name: "invalid id", param: "1; admin", expected: DefaultIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.param))
		})
	}
}

func TestDefaultIdentity(t *testing.T) {
	assert.Equal(t, Identity("1"), DefaultIdentity)
}

func TestAuthorizationHeader(t *testing.T) {
	name, value := AuthorizationHeader("6")
	assert.Equal(t, "Authorization", name)
	assert.Equal(t, "6", value)
}
