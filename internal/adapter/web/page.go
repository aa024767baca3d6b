package web

import (
	"strings"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
	"user-dashboard/internal/usecase/dashboard"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// EmptyManagedMessage is shown when the managed list has no entries
const EmptyManagedMessage = "No users managed or manager is not an ADMIN."

// Page is everything rendered by one dashboard response.
type Page struct {
	View    dashboard.Snapshot
	Alerts  []string
	Notices []string
	Confirm *Confirmation
}

// Confirmation is a pending delete waiting for an explicit yes
type Confirmation struct {
	UserID  domain.ID
	Message string
}

const styles = `
body { font-family: system-ui, sans-serif; padding: 20px; }
table { width: 100%; border-collapse: collapse; margin-top: 15px; }
th { background-color: #f2f2f2; text-align: left; }
tr { border-bottom: 1px solid #eee; }
.alert { border: 1px solid #c00; color: #c00; padding: 10px; margin-bottom: 10px; }
.confirm { border: 1px solid #e90; padding: 10px; margin-bottom: 10px; }
.create { border: 1px solid green; padding: 15px; margin-bottom: 20px; }
.edit { border: 2px solid #007bff; padding: 20px; margin: 20px 0; }
.status-error, .field-error { color: red; }
.status-ok { color: green; }
.actions { display: flex; gap: 5px; }
.actions form { display: inline; }
`

// Dashboard renders the full dashboard document.
func Dashboard(p Page) Node {
	snap := p.View
	id := snap.Identity

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text("Users Module CRUD App")),
				StyleEl(Raw(styles)),
			),
			Body(
				H1(Text("Users Module CRUD App")),
				P(
					Strong(Text("Dynamic Auth ID: ")),
					Code(Text(id.String())),
					Text(" is used for permissions based on the URL."),
				),
				alertList(p.Alerts),
				noticeList(p.Notices),
				confirmBox(id, p.Confirm),
				createForm(id, snap.Create),
				mainSection(snap),
				Hr(),
				managedSection(snap),
			),
		),
	)
}

func alertList(alerts []string) Node {
	if len(alerts) == 0 {
		return nil
	}
	return Div(
		Map(alerts, func(msg string) Node {
			return Div(Class("alert"), Role("alert"), Text(msg))
		}),
	)
}

func noticeList(notices []string) Node {
	if len(notices) == 0 {
		return nil
	}
	return Div(
		Map(notices, func(msg string) Node {
			return P(Class("status-ok"), Role("status"), Text(msg))
		}),
	)
}

func confirmBox(id identity.Identity, c *Confirmation) Node {
	if c == nil {
		return nil
	}
	return Div(
		Class("confirm"),
		P(Text(c.Message)),
		Form(
			Method("post"),
			Action(DeletePath(id, c.UserID)),
			Input(Type("hidden"), Name("confirm"), Value("yes")),
			Button(Type("submit"), Text("Yes, delete")),
		),
		A(Href(DashboardPath(id)), Text("Cancel")),
	)
}

func createForm(id identity.Identity, s dashboard.FormState) Node {
	return Form(
		Class("create"),
		Method("post"),
		Action(CreatePath(id)),
		H3(Text("Create New User (Auth ID: "+id.String()+")")),
		Div(
			Class("actions"),
			textInput("name", s.Draft.Name, "Name (Max 100)", s.FieldErrors),
			textInput("roles", s.Draft.Roles, "Roles (e.g., PERSONAL, ADMIN)", s.FieldErrors),
			textInput("groups", s.Draft.Groups, "Groups (e.g., GROUP_1, GROUP_2)", s.FieldErrors),
		),
		Button(Type("submit"), If(s.Pending, Disabled()), Text("Create User")),
		statusLine(s),
	)
}

func editForm(id identity.Identity, e *dashboard.EditState) Node {
	s := e.Form
	return Div(
		Class("edit"),
		H3(Text("Edit User ID: "+e.User.ID.String()+" (Auth ID: "+id.String()+")")),
		Form(
			Method("post"),
			Action(UserPath(id, e.User.ID)),
			labeled("Name:", textInput("name", s.Draft.Name, "", s.FieldErrors)),
			labeled("Roles (comma-separated):", textInput("roles", s.Draft.Roles, "", s.FieldErrors)),
			labeled("Groups (comma-separated):", textInput("groups", s.Draft.Groups, "", s.FieldErrors)),
			Button(Type("submit"), If(s.Pending, Disabled()), Text("Save Changes")),
			statusLine(s),
		),
		Form(
			Method("post"),
			Action(CancelEditPath(id)),
			Button(Type("submit"), Text("Cancel")),
		),
	)
}

func labeled(label string, input Node) Node {
	return Div(Label(Text(label)), input)
}

func textInput(name, value, placeholder string, errs dashboard.FieldErrors) Node {
	msg := errs[name]
	return Span(
		Input(
			Type("text"),
			Name(name),
			Value(value),
			Required(),
			If(placeholder != "", Placeholder(placeholder)),
			If(msg != "", Aria("invalid", "true")),
		),
		If(msg != "", Span(Class("field-error"), Text(msg))),
	)
}

func statusLine(s dashboard.FormState) Node {
	if s.Status == "" {
		return nil
	}
	class := "status-ok"
	if s.IsError() {
		class = "status-error"
	}
	return P(Class(class), Text(s.Status))
}

// mainSection renders either the open edit session or the user list.
func mainSection(snap dashboard.Snapshot) Node {
	id := snap.Identity
	if snap.Editing != nil {
		return editForm(id, snap.Editing)
	}

	if snap.State == dashboard.StateLoading && len(snap.Users) == 0 {
		return Div(Text("Loading..."))
	}

	return Div(
		H2(Text("User List (GET /users)")),
		Form(
			Method("post"),
			Action(RefreshPath(id)),
			Button(Type("submit"), Text("Refresh")),
		),
		If(snap.Error != "", Div(Class("alert"), Role("alert"), Text(snap.Error))),
		Table(
			THead(Tr(
				Th(Text("ID")),
				Th(Text("Name")),
				Th(Text("Roles")),
				Th(Text("Groups")),
				Th(Text("Actions")),
			)),
			TBody(Map(snap.Users, func(u domain.User) Node {
				return userRow(id, u)
			})),
		),
	)
}

func userRow(id identity.Identity, u domain.User) Node {
	return Tr(
		Td(Text(u.ID.String())),
		Td(Text(u.Name)),
		Td(Text(domain.JoinTokens(u.Roles))),
		Td(Text(domain.JoinTokens(u.Groups))),
		Td(
			Class("actions"),
			Form(
				Method("post"),
				Action(BeginEditPath(id, u.ID)),
				Button(Type("submit"), Text("Edit")),
			),
			Form(
				Method("post"),
				Action(DeletePath(id, u.ID)),
				Button(Type("submit"), Style("color: red"), Text("Delete")),
			),
		),
	)
}

func managedSection(snap dashboard.Snapshot) Node {
	var items Node
	if len(snap.Managed) == 0 {
		items = Li(Text(EmptyManagedMessage))
	} else {
		items = Map(snap.Managed, func(u domain.User) Node {
			return Li(Text(u.Name + " (ID: " + u.ID.String() + ", Groups: " + strings.Join(u.Groups, ", ") + ")"))
		})
	}

	return Div(
		H2(Text("Managed Users (GET /users/managed/"+snap.ManagerID+")")),
		P(Text("User ID " + snap.ManagerID + " manages the users in the groups it administers.")),
		Ul(items),
	)
}
