package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"maragu.dev/gomponents"

	"user-dashboard/internal/adapter/session"
	"user-dashboard/internal/adapter/web"
	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
	"user-dashboard/internal/usecase/dashboard"
	"user-dashboard/pkg/logger"
)

// Session keys
const (
	sessionIDKey     = "sid"
	flashAlerts      = "alerts"
	flashNotices     = "notices"
	flashConfirmID   = "confirm_id"
	flashConfirmText = "confirm_text"
)

// DashboardHandler serves the dashboard pages and form posts.
// Every mutating route redirects back to the dashboard (303 See Other).
type DashboardHandler struct {
	registry *session.Registry
	log      *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(registry *session.Registry, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{registry: registry, log: log}
}

// formPrompter answers delete confirmations from the posted form and collects alerts
type formPrompter struct {
	confirmed bool
	question  string
	alerts    []string
}

func (p *formPrompter) Confirm(message string) bool {
	p.question = message
	return p.confirmed
}

func (p *formPrompter) Alert(message string) {
	p.alerts = append(p.alerts, message)
}

// Root handles GET /
func (h *DashboardHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, web.DashboardPath(identity.DefaultIdentity))
}

// Show handles GET /dashboard/:userId
func (h *DashboardHandler) Show(c *gin.Context) {
	ctx, v, s := h.begin(c)

	v.Navigate(ctx, c.Param("userId"))

	page := web.Page{
		View:    v.Snapshot(),
		Alerts:  flashStrings(s, flashAlerts),
		Notices: flashStrings(s, flashNotices),
	}
	page.Confirm = confirmation(s)
	h.save(ctx, s)

	h.render(c, http.StatusOK, web.Dashboard(page))
}

// Refresh handles POST /dashboard/:userId/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	ctx, v, s := h.begin(c)
	id := v.Navigate(ctx, c.Param("userId"))

	v.Refresh(ctx)
	h.redirect(c, s, id)
}

// CreateUser handles POST /dashboard/:userId/users
func (h *DashboardHandler) CreateUser(c *gin.Context) {
	ctx, v, s := h.begin(c)
	id := v.Navigate(ctx, c.Param("userId"))

	// The outcome is recorded on the create form.
	if _, err := v.SubmitCreate(ctx, draftFromForm(c)); errors.Is(err, dashboard.ErrSubmitInProgress) {
		s.AddFlash("A create request is already in progress.", flashAlerts)
	}
	h.redirect(c, s, id)
}

// BeginEdit handles POST /dashboard/:userId/users/:id/edit
func (h *DashboardHandler) BeginEdit(c *gin.Context) {
	ctx, v, s := h.begin(c)
	id := v.Navigate(ctx, c.Param("userId"))

	userID := domain.ID(c.Param("id"))
	if err := v.BeginEdit(userID); err != nil {
		logger.WithContext(ctx, h.log).Warn("cannot open edit session", zap.String("target_id", userID.String()), zap.Error(err))
		s.AddFlash("User "+userID.String()+" is not in the current list.", flashAlerts)
	}
	h.redirect(c, s, id)
}

// UpdateUser handles POST /dashboard/:userId/users/:id
func (h *DashboardHandler) UpdateUser(c *gin.Context) {
	ctx, v, s := h.begin(c)
	id := v.Navigate(ctx, c.Param("userId"))

	userID := domain.ID(c.Param("id"))
	status, err := v.SubmitEdit(ctx, userID, draftFromForm(c))
	switch {
	case err == nil:
		s.AddFlash(status, flashNotices)
	case errors.Is(err, dashboard.ErrNoEditSession):
		s.AddFlash("No edit session is open for user "+userID.String()+".", flashAlerts)
	case errors.Is(err, dashboard.ErrSubmitInProgress):
		s.AddFlash("An update is already in progress.", flashAlerts)
	}
	h.redirect(c, s, id)
}

// CancelEdit handles POST /dashboard/:userId/edit/cancel
func (h *DashboardHandler) CancelEdit(c *gin.Context) {
	ctx, v, s := h.begin(c)
	id := v.Navigate(ctx, c.Param("userId"))

	v.CancelEdit()
	h.redirect(c, s, id)
}

// DeleteUser handles POST /dashboard/:userId/users/:id/delete.
// Without confirm=yes the dashboard asks for confirmation first.
func (h *DashboardHandler) DeleteUser(c *gin.Context) {
	ctx, v, s := h.begin(c)
	id := v.Navigate(ctx, c.Param("userId"))

	userID := domain.ID(c.Param("id"))
	p := &formPrompter{confirmed: c.PostForm("confirm") == "yes"}
	_ = v.Delete(ctx, userID, p)

	if !p.confirmed {
		s.AddFlash(userID.String(), flashConfirmID)
		s.AddFlash(p.question, flashConfirmText)
	}
	for _, msg := range p.alerts {
		s.AddFlash(msg, flashAlerts)
	}
	h.redirect(c, s, id)
}

// begin tags the request context with the acting identity and
// returns the session's view.
func (h *DashboardHandler) begin(c *gin.Context) (context.Context, *dashboard.View, sessions.Session) {
	ctx := logger.WithUserID(c.Request.Context(), identity.Resolve(c.Param("userId")).String())
	c.Request = c.Request.WithContext(ctx)

	s := sessions.Default(c)
	sid, _ := s.Get(sessionIDKey).(string)
	newID, v := h.registry.Acquire(sid)
	if newID != sid {
		s.Set(sessionIDKey, newID)
	}
	return ctx, v, s
}

func (h *DashboardHandler) redirect(c *gin.Context, s sessions.Session, id identity.Identity) {
	h.save(c.Request.Context(), s)
	c.Redirect(http.StatusSeeOther, web.DashboardPath(id))
}

func (h *DashboardHandler) save(ctx context.Context, s sessions.Session) {
	if err := s.Save(); err != nil {
		logger.WithContext(ctx, h.log).Warn("failed to save session", zap.Error(err))
	}
}

func (h *DashboardHandler) render(c *gin.Context, status int, node gomponents.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := node.Render(c.Writer); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("failed to render page", zap.Error(err))
	}
}

func draftFromForm(c *gin.Context) domain.Draft {
	return domain.Draft{
		Name:   c.PostForm("name"),
		Roles:  c.PostForm("roles"),
		Groups: c.PostForm("groups"),
	}
}

func flashStrings(s sessions.Session, key string) []string {
	var out []string
	for _, f := range s.Flashes(key) {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func confirmation(s sessions.Session) *web.Confirmation {
	ids := s.Flashes(flashConfirmID)
	texts := s.Flashes(flashConfirmText)
	if len(ids) == 0 || len(texts) == 0 {
		return nil
	}
	id, _ := ids[len(ids)-1].(string)
	text, _ := texts[len(texts)-1].(string)
	if id == "" {
		return nil
	}
	return &web.Confirmation{UserID: domain.ID(id), Message: text}
}
