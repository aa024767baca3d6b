package dashboard

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
	apperrors "user-dashboard/pkg/errors"
	"user-dashboard/pkg/logger"
)

// Create form defaults, restored after every successful create
const (
	DefaultRoles  = "PERSONAL"
	DefaultGroups = "GROUP_1"
)

var (
	// ErrSubmitInProgress is returned when a form is submitted while its previous submission is pending.
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrInvalidDraft is returned when a draft fails local validation.
	ErrInvalidDraft = errors.New("invalid draft")
)

// draftInput is the validated shape of a draft
type draftInput struct {
	Name   string `form:"name" validate:"required,max=100"`
	Roles  string `form:"roles" validate:"required"`
	Groups string `form:"groups" validate:"required"`
}

// FieldErrors maps a form field name to its validation message
type FieldErrors map[string]string

// FormState is a point-in-time copy of a form for rendering.
type FormState struct {
	Draft       domain.Draft
	Status      string
	FieldErrors FieldErrors
	Pending     bool
}

// IsError reports whether the status describes a failure
func (s FormState) IsError() bool {
	return strings.HasPrefix(s.Status, "Error") || strings.HasPrefix(s.Status, "Network error")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// validateDraft checks a draft and returns per-field messages plus a one-line summary.
func validateDraft(v *validator.Validate, d domain.Draft) (FieldErrors, string) {
	err := v.Struct(draftInput{Name: d.Name, Roles: d.Roles, Groups: d.Groups})
	if err == nil {
		return nil, ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return FieldErrors{}, err.Error()
	}

	fields := make(FieldErrors, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", e.Field())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", e.Field())
		}
		fields[e.Field()] = msg
		messages = append(messages, msg)
	}
	return fields, strings.Join(messages, ", ")
}

// form holds the draft and status shared by the create and edit forms
type form struct {
	mu          sync.Mutex
	draft       domain.Draft
	status      string
	fieldErrors FieldErrors
	pending     bool
}

// begin validates and marks the form pending. It returns the fields to submit.
func (f *form) begin(v *validator.Validate, d domain.Draft, inFlight string) (domain.Fields, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending {
		return domain.Fields{}, ErrSubmitInProgress
	}

	f.draft = d
	if fields, summary := validateDraft(v, d); fields != nil {
		f.fieldErrors = fields
		f.status = "Error: " + summary
		return domain.Fields{}, fmt.Errorf("%w: %s", ErrInvalidDraft, summary)
	}

	f.fieldErrors = nil
	f.status = inFlight
	f.pending = true
	return d.Fields(), nil
}

func (f *form) finish(status string, reset *domain.Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = false
	f.status = status
	if reset != nil {
		f.draft = *reset
	}
}

func (f *form) state() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	var fieldErrors FieldErrors
	if f.fieldErrors != nil {
		fieldErrors = make(FieldErrors, len(f.fieldErrors))
		for k, v := range f.fieldErrors {
			fieldErrors[k] = v
		}
	}
	return FormState{Draft: f.draft, Status: f.status, FieldErrors: fieldErrors, Pending: f.pending}
}

// CreateForm submits new users and resets itself after each success.
type CreateForm struct {
	form
	dir       Directory
	validate  *validator.Validate
	log       *zap.Logger
	onCreated func(ctx context.Context)
}

// NewCreateForm creates a create form holding the default draft.
// onCreated runs after every successful create.
func NewCreateForm(dir Directory, log *zap.Logger, onCreated func(ctx context.Context)) *CreateForm {
	f := &CreateForm{dir: dir, validate: newValidator(), log: log, onCreated: onCreated}
	f.draft = defaultDraft()
	return f
}

func defaultDraft() domain.Draft {
	return domain.Draft{Name: "", Roles: DefaultRoles, Groups: DefaultGroups}
}

// Submit validates the draft and creates the user acting as id.
// On failure the draft is kept for correction.
func (f *CreateForm) Submit(ctx context.Context, id identity.Identity, d domain.Draft) (*domain.User, error) {
	log := logger.WithContext(ctx, f.log)

	fields, err := f.begin(f.validate, d, "Creating...")
	if err != nil {
		log.Warn("create submission rejected", zap.Error(err))
		return nil, err
	}

	log.Info("creating user", zap.String("name", fields.Name), zap.Strings("roles", fields.Roles), zap.Strings("groups", fields.Groups))

	created, err := f.dir.CreateUser(ctx, id, fields)
	if err != nil {
		log.Warn("failed to create user", zap.Error(err))
		f.finish(createFailureStatus(id, err), nil)
		return nil, err
	}

	reset := defaultDraft()
	f.finish(fmt.Sprintf("Success: Created user %s (ID: %s)", created.Name, created.ID), &reset)

	if f.onCreated != nil {
		f.onCreated(ctx)
	}
	return created, nil
}

// State returns a copy of the form for rendering
func (f *CreateForm) State() FormState {
	return f.state()
}

// EditForm edits one existing user. It is discarded when the edit session closes.
type EditForm struct {
	form
	user      domain.User
	dir       Directory
	validate  *validator.Validate
	log       *zap.Logger
	onUpdated func(ctx context.Context, f *EditForm)
}

// NewEditForm creates an edit form pre-filled from u.
// onUpdated runs after a successful update.
func NewEditForm(u domain.User, dir Directory, log *zap.Logger, onUpdated func(ctx context.Context, f *EditForm)) *EditForm {
	f := &EditForm{user: u, dir: dir, validate: newValidator(), log: log, onUpdated: onUpdated}
	f.draft = domain.DraftFromUser(u)
	return f
}

// User returns the user being edited, as it was when the session opened
func (f *EditForm) User() domain.User {
	return f.user
}

// Submit validates the draft and patches the user acting as id.
func (f *EditForm) Submit(ctx context.Context, id identity.Identity, d domain.Draft) (*domain.User, error) {
	log := logger.WithContext(ctx, f.log).With(zap.String("target_id", f.user.ID.String()))

	fields, err := f.begin(f.validate, d, "Updating...")
	if err != nil {
		log.Warn("edit submission rejected", zap.Error(err))
		return nil, err
	}

	log.Info("updating user", zap.String("name", fields.Name))

	updated, err := f.dir.UpdateUser(ctx, id, f.user.ID, fields.Patch())
	if err != nil {
		log.Warn("failed to update user", zap.Error(err))
		f.finish(editFailureStatus(err), nil)
		return nil, err
	}

	f.finish("Success: Updated user "+updated.Name, nil)

	if f.onUpdated != nil {
		f.onUpdated(ctx, f)
	}
	return updated, nil
}

// State returns a copy of the form for rendering
func (f *EditForm) State() FormState {
	return f.state()
}

func createFailureStatus(id identity.Identity, err error) string {
	if apperrors.IsNetwork(err) {
		return "Network error: " + err.Error()
	}
	msg, ok := apperrors.ServerMessage(err)
	if !ok {
		msg = "Failed to create user."
	}
	return fmt.Sprintf("Error (Auth ID %s): %s", id, msg)
}

func editFailureStatus(err error) string {
	if apperrors.IsNetwork(err) {
		return "Network error: " + err.Error()
	}
	msg, ok := apperrors.ServerMessage(err)
	if !ok {
		msg = "Failed to update user."
	}
	return "Error: " + msg
}
