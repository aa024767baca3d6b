package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/usecase/dashboard"
)

func render(t *testing.T, p Page) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, Dashboard(p).Render(&b))
	return b.String()
}

func readySnapshot() dashboard.Snapshot {
	return dashboard.Snapshot{
		Identity:  "6",
		ManagerID: "5",
		State:     dashboard.StateReady,
		Users: []domain.User{
			{ID: "1", Name: "Alice", Roles: []string{"ADMIN", "PERSONAL"}, Groups: []string{"GROUP_1"}},
			{ID: "2", Name: "Bob <b>", Roles: []string{}, Groups: []string{}},
		},
		Create: dashboard.FormState{Draft: domain.Draft{Roles: "PERSONAL", Groups: "GROUP_1"}},
	}
}

func TestDashboard_List(t *testing.T) {
	html := render(t, Page{View: readySnapshot()})

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "Create New User (Auth ID: 6)")
	assert.Contains(t, html, `<td>ADMIN, PERSONAL</td>`)
	assert.Contains(t, html, `action="/dashboard/6/users/1/edit"`)
	assert.Contains(t, html, `action="/dashboard/6/users/2/delete"`)
	assert.Contains(t, html, `value="PERSONAL"`)
	assert.Contains(t, html, "Bob &lt;b&gt;")
	assert.NotContains(t, html, "Bob <b>")
	assert.Contains(t, html, EmptyManagedMessage)
}

func TestDashboard_ErrorBannerKeepsList(t *testing.T) {
	snap := readySnapshot()
	snap.Error = "User 6 lacks VIEW permission"

	html := render(t, Page{View: snap})
	assert.Contains(t, html, "User 6 lacks VIEW permission")
	assert.Contains(t, html, "<td>Alice</td>")
}

func TestDashboard_Loading(t *testing.T) {
	snap := readySnapshot()
	snap.State = dashboard.StateLoading
	snap.Users = nil

	html := render(t, Page{View: snap})
	assert.Contains(t, html, "Loading...")
	assert.NotContains(t, html, "<table>")
}

func TestDashboard_EditReplacesList(t *testing.T) {
	snap := readySnapshot()
	snap.Editing = &dashboard.EditState{
		User: snap.Users[0],
		Form: dashboard.FormState{
			Draft:  domain.Draft{Name: "Alice", Roles: "ADMIN, PERSONAL", Groups: "GROUP_1"},
			Status: "Error: no EDIT permission",
		},
	}

	html := render(t, Page{View: snap})
	assert.Contains(t, html, "Edit User ID: 1 (Auth ID: 6)")
	assert.Contains(t, html, `action="/dashboard/6/users/1"`)
	assert.Contains(t, html, `action="/dashboard/6/edit/cancel"`)
	assert.Contains(t, html, `<p class="status-error">Error: no EDIT permission</p>`)
	assert.NotContains(t, html, "User List (GET /users)")
}

func TestDashboard_FieldErrors(t *testing.T) {
	snap := readySnapshot()
	snap.Create = dashboard.FormState{
		Draft:       domain.Draft{Roles: "PERSONAL", Groups: "GROUP_1"},
		Status:      "Error: name is required",
		FieldErrors: dashboard.FieldErrors{"name": "name is required"},
	}

	html := render(t, Page{View: snap})
	assert.Contains(t, html, `<span class="field-error">name is required</span>`)
	assert.Contains(t, html, `aria-invalid="true"`)
}

func TestDashboard_AlertsAndConfirmation(t *testing.T) {
	html := render(t, Page{
		View:    readySnapshot(),
		Alerts:  []string{"User 6 lacks DELETE permission"},
		Notices: []string{"Success: Updated user Alice"},
		Confirm: &Confirmation{UserID: "2", Message: "Are you sure you want to delete user ID 2?"},
	})

	assert.Contains(t, html, `<div class="alert" role="alert">User 6 lacks DELETE permission</div>`)
	assert.Contains(t, html, `<p class="status-ok" role="status">Success: Updated user Alice</p>`)
	assert.Contains(t, html, "Are you sure you want to delete user ID 2?")
	assert.Contains(t, html, `name="confirm" value="yes"`)
}

func TestDashboard_ManagedUsers(t *testing.T) {
	snap := readySnapshot()
	snap.Managed = []domain.User{{ID: "7", Name: "Carol", Groups: []string{"GROUP_1", "GROUP_2"}}}

	html := render(t, Page{View: snap})
	assert.Contains(t, html, "Managed Users (GET /users/managed/5)")
	assert.Contains(t, html, "<li>Carol (ID: 7, Groups: GROUP_1, GROUP_2)</li>")
	assert.NotContains(t, html, EmptyManagedMessage)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/dashboard/1", DashboardPath("1"))
	assert.Equal(t, "/dashboard/1/refresh", RefreshPath("1"))
	assert.Equal(t, "/dashboard/1/users/a%2Fb/delete", DeletePath("1", "a/b"))
}
