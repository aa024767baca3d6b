package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
	apperrors "user-dashboard/pkg/errors"
	"user-dashboard/pkg/logger"
)

var (
	// ErrUserNotFound is returned when an edit is requested for a user missing from the collection.
	ErrUserNotFound = errors.New("user not found in current list")
	// ErrNoEditSession is returned when an edit is submitted for a user that is not being edited.
	ErrNoEditSession = errors.New("no edit session open for user")
)

// State is the load state of a view
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of a view for rendering.
type Snapshot struct {
	Identity  identity.Identity
	ManagerID string
	State     State
	Users     []domain.User
	Managed   []domain.User
	Error     string
	Create    FormState
	Editing   *EditState
}

// EditState is the open edit session, if any
type EditState struct {
	User domain.User
	Form FormState
}

// View is the list view of one dashboard session. It owns the fetched
// collection and the single optional edit session. State is guarded by mu,
// which is never held across a directory call.
type View struct {
	dir       Directory
	managerID string
	log       *zap.Logger
	create    *CreateForm

	mu       sync.Mutex
	identity identity.Identity
	started  bool
	state    State
	users    []domain.User
	managed  []domain.User
	errMsg   string
	edit     *EditForm
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
}

// NewView creates an unloaded view. managerID selects the managed users list.
func NewView(dir Directory, managerID string, log *zap.Logger) *View {
	v := &View{
		dir:       dir,
		managerID: managerID,
		log:       log,
		users:     []domain.User{},
		managed:   []domain.User{},
	}
	v.create = NewCreateForm(dir, log, v.Refresh)
	return v
}

// Navigate resolves the acting identity from the route parameter and loads
// the view when the identity differs from the current one.
func (v *View) Navigate(ctx context.Context, param string) identity.Identity {
	id := identity.Resolve(param)

	v.mu.Lock()
	same := v.started && v.identity == id
	v.mu.Unlock()

	if !same {
		v.load(ctx, id)
	}
	return id
}

// Refresh reloads the collection for the current identity.
func (v *View) Refresh(ctx context.Context) {
	v.mu.Lock()
	id := v.identity
	if !v.started {
		id = identity.DefaultIdentity
	}
	v.mu.Unlock()

	v.load(ctx, id)
}

// load fetches the primary and managed lists concurrently. A load superseded by
// a newer one, or finishing after Close, is cancelled and its results dropped.
func (v *View) load(parent context.Context, id identity.Identity) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	v.cancel = cancel
	v.identity = id
	v.started = true
	v.state = StateLoading
	v.mu.Unlock()
	defer cancel()

	log := logger.WithContext(ctx, v.log).With(zap.String("identity", id.String()))

	var (
		users   []domain.User
		listErr error
		managed []domain.User
	)

	var g errgroup.Group
	g.Go(func() error {
		users, listErr = v.dir.ListUsers(ctx, id)
		return nil
	})
	g.Go(func() error {
		var err error
		managed, err = v.dir.ListManagedUsers(ctx, v.managerID)
		if err != nil {
			log.Error("error fetching managed users", zap.String("manager_id", v.managerID), zap.Error(err))
			managed = []domain.User{}
		}
		return nil
	})
	_ = g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || gen != v.gen {
		log.Debug("discarding stale load", zap.Uint64("generation", gen))
		return
	}

	v.cancel = nil
	v.state = StateReady
	v.managed = managed
	if listErr != nil {
		log.Warn("failed to load users", zap.Error(listErr))
		v.errMsg = listErr.Error()
		return
	}
	v.users = users
	v.errMsg = ""
}

// Delete asks p for confirmation and deletes the user. The collection is only
// changed through the refresh that follows a successful delete.
func (v *View) Delete(ctx context.Context, userID domain.ID, p Prompter) error {
	if !p.Confirm(fmt.Sprintf("Are you sure you want to delete user ID %s?", userID)) {
		return nil
	}

	id := v.Identity()
	log := logger.WithContext(ctx, v.log).With(zap.String("target_id", userID.String()))
	log.Info("deleting user")

	err := v.dir.DeleteUser(ctx, id, userID)
	if err == nil {
		v.Refresh(ctx)
		return nil
	}

	log.Warn("failed to delete user", zap.Error(err))

	var authErr *apperrors.AuthorizationError
	var reqErr *apperrors.RequestError
	switch {
	case errors.As(err, &authErr):
		p.Alert(authErr.Message)
	case errors.As(err, &reqErr):
		p.Alert(fmt.Sprintf("Error: Failed to delete user. Status: %d", reqErr.Status))
	default:
		p.Alert("Error: " + err.Error())
	}
	return err
}

// BeginEdit opens an edit session for a user in the current collection,
// replacing any open session.
func (v *View) BeginEdit(userID domain.ID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, u := range v.users {
		if u.ID == userID {
			v.edit = NewEditForm(u, v.dir, v.log, v.completeEdit)
			return nil
		}
	}
	return ErrUserNotFound
}

// CancelEdit closes the edit session without any directory call.
func (v *View) CancelEdit() {
	v.mu.Lock()
	v.edit = nil
	v.mu.Unlock()
}

// SubmitCreate submits the create form acting as the current identity.
func (v *View) SubmitCreate(ctx context.Context, d domain.Draft) (*domain.User, error) {
	return v.create.Submit(ctx, v.Identity(), d)
}

// SubmitEdit submits the open edit session for userID. It returns the final
// form status, which is the only trace of a successful edit once the session closes.
func (v *View) SubmitEdit(ctx context.Context, userID domain.ID, d domain.Draft) (string, error) {
	v.mu.Lock()
	f := v.edit
	id := v.identity
	v.mu.Unlock()

	if f == nil || f.User().ID != userID {
		return "", ErrNoEditSession
	}

	_, err := f.Submit(ctx, id, d)
	return f.State().Status, err
}

// completeEdit closes the session that just succeeded and refreshes.
func (v *View) completeEdit(ctx context.Context, f *EditForm) {
	v.mu.Lock()
	if v.edit == f {
		v.edit = nil
	}
	v.mu.Unlock()

	v.Refresh(ctx)
}

// Identity returns the current acting identity
func (v *View) Identity() identity.Identity {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.started {
		return identity.DefaultIdentity
	}
	return v.identity
}

// Snapshot returns a copy of the view for rendering.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	s := Snapshot{
		Identity:  v.identity,
		ManagerID: v.managerID,
		State:     v.state,
		Users:     append([]domain.User(nil), v.users...),
		Managed:   append([]domain.User(nil), v.managed...),
		Error:     v.errMsg,
	}
	if !v.started {
		s.Identity = identity.DefaultIdentity
	}
	edit := v.edit
	v.mu.Unlock()

	s.Create = v.create.State()
	if edit != nil {
		s.Editing = &EditState{User: edit.User(), Form: edit.State()}
	}
	return s
}

// Close cancels any in-flight load. Later completions are discarded.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
