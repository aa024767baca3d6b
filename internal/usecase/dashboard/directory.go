package dashboard

import (
	"context"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
)

// Directory defines the users backend operations the dashboard depends on.
// It is implemented by the directory adapter; tests use a mock.
type Directory interface {
	ListUsers(ctx context.Context, id identity.Identity) ([]domain.User, error)                                          // List all users visible to id
	ListManagedUsers(ctx context.Context, managerID string) ([]domain.User, error)                                      // List users managed by managerID
	CreateUser(ctx context.Context, id identity.Identity, fields domain.Fields) (*domain.User, error)                    // Create a user acting as id
	UpdateUser(ctx context.Context, id identity.Identity, userID domain.ID, patch domain.Patch) (*domain.User, error) // Partially update a user acting as id
	DeleteUser(ctx context.Context, id identity.Identity, userID domain.ID) error                                       // Delete a user acting as id
}

// Prompter is the synchronous confirmation and alert surface used by delete.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}
