package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxNameLength is the longest display name the directory accepts
const MaxNameLength = 100

// ID is the directory's opaque user identifier.
// The backend may encode it as a JSON number or string; both decode to the same ID.
type ID string

// UnmarshalJSON accepts both `5` and `"5"`.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as text
func (id ID) String() string {
	return string(id)
}

// User represents a user record as served by the directory.
type User struct {
	ID     ID       `json:"id"`     // ID is assigned by the directory
	Name   string   `json:"name"`   // Name is the display name
	Roles  []string `json:"roles"`  // Roles is the ordered list of role tokens
	Groups []string `json:"groups"` // Groups is the ordered list of group tokens
}

// Normalize replaces absent roles and groups with empty sequences.
func (u *User) Normalize() {
	if u.Roles == nil {
		u.Roles = []string{}
	}
	if u.Groups == nil {
		u.Groups = []string{}
	}
}

// Fields is the full writable field set, sent as the create body.
type Fields struct {
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	Groups []string `json:"groups"`
}

// Patch is a partial update. Nil members are left out of the request body.
// The id is never part of a patch.
type Patch struct {
	Name   *string   `json:"name,omitempty"`
	Roles  *[]string `json:"roles,omitempty"`
	Groups *[]string `json:"groups,omitempty"`
}

// Patch converts a full field set into a patch touching every field
func (f Fields) Patch() Patch {
	name := f.Name
	roles := nonNil(f.Roles)
	groups := nonNil(f.Groups)
	return Patch{Name: &name, Roles: &roles, Groups: &groups}
}

// Draft is the free-text form of a user while it is being created or edited.
type Draft struct {
	Name   string
	Roles  string // comma-separated
	Groups string // comma-separated
}

// DraftFromUser pre-fills a draft with an existing user's values
func DraftFromUser(u User) Draft {
	return Draft{
		Name:   u.Name,
		Roles:  JoinTokens(u.Roles),
		Groups: JoinTokens(u.Groups),
	}
}

// Fields normalizes the draft into the payload sent to the directory.
func (d Draft) Fields() Fields {
	return Fields{
		Name:   d.Name,
		Roles:  SplitTokens(d.Roles),
		Groups: SplitTokens(d.Groups),
	}
}

// SplitTokens splits comma-separated text, trims each token and drops empty ones.
// Order and duplicates are preserved. The result is never nil.
func SplitTokens(raw string) []string {
	tokens := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// JoinTokens renders tokens the way the forms display them
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
