package dashboard

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
)

// mockDirectory is a testify mock of Directory
type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) ListUsers(ctx context.Context, id identity.Identity) ([]domain.User, error) {
	args := m.Called(ctx, id)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockDirectory) ListManagedUsers(ctx context.Context, managerID string) ([]domain.User, error) {
	args := m.Called(ctx, managerID)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockDirectory) CreateUser(ctx context.Context, id identity.Identity, fields domain.Fields) (*domain.User, error) {
	args := m.Called(ctx, id, fields)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockDirectory) UpdateUser(ctx context.Context, id identity.Identity, userID domain.ID, patch domain.Patch) (*domain.User, error) {
	args := m.Called(ctx, id, userID, patch)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockDirectory) DeleteUser(ctx context.Context, id identity.Identity, userID domain.ID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// fakePrompter answers every confirmation with answer and records alerts
type fakePrompter struct {
	mu      sync.Mutex
	answer  bool
	prompts []string
	alerts  []string
}

func (p *fakePrompter) Confirm(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, message)
	return p.answer
}

func (p *fakePrompter) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, message)
}
