package web

import (
	"net/url"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
)

// DashboardPath is the page for an acting identity
func DashboardPath(id identity.Identity) string {
	return "/dashboard/" + url.PathEscape(id.String())
}

// RefreshPath reloads the list
func RefreshPath(id identity.Identity) string {
	return DashboardPath(id) + "/refresh"
}

// CreatePath submits the create form
func CreatePath(id identity.Identity) string {
	return DashboardPath(id) + "/users"
}

// UserPath submits the edit form for a user
func UserPath(id identity.Identity, userID domain.ID) string {
	return CreatePath(id) + "/" + url.PathEscape(userID.String())
}

// BeginEditPath opens the edit session for a user
func BeginEditPath(id identity.Identity, userID domain.ID) string {
	return UserPath(id, userID) + "/edit"
}

// DeletePath deletes a user
func DeletePath(id identity.Identity, userID domain.ID) string {
	return UserPath(id, userID) + "/delete"
}

// CancelEditPath closes the edit session
func CancelEditPath(id identity.Identity) string {
	return DashboardPath(id) + "/edit/cancel"
}
