// Package identity resolves the acting identity for a dashboard request.
//
// The acting identity is asserted by the client itself: whatever id appears in
// the URL is forwarded to the directory as the Authorization header. This is a
// deliberate simplification, not authentication. AuthorizationHeader is the one
// place a real credential would be built.
package identity

import (
	"user-dashboard/pkg/security"
)

// DefaultIdentity is used when the navigation context carries no usable id.
const DefaultIdentity Identity = "1"

// HeaderName is the header the directory reads the acting identity from
const HeaderName = "Authorization"

// Identity is the acting user token for one navigation context.
type Identity string

// String returns the raw token
func (i Identity) String() string {
	return string(i)
}

// Resolve derives the acting identity from the route parameter.
// Absent or invalid tokens fall back to DefaultIdentity.
func Resolve(param string) Identity {
	token, err := security.ValidateIdentityToken(param)
	if err != nil {
		return DefaultIdentity
	}
	return Identity(token)
}

// AuthorizationHeader builds the credential sent with directory requests.
func AuthorizationHeader(id Identity) (name, value string) {
	return HeaderName, string(id)
}
