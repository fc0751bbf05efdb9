package identity

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Register(ctx context.Context, user *identity.User, profile *identity.ProfessionalProfile) error {
	args := m.Called(ctx, user, profile)
	return args.Error(0)
}

func (m *MockUserRepository) CountCreatedByRole(ctx context.Context, from, to time.Time) (map[identity.Role]int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(map[identity.Role]int64), args.Error(1)
}

// MockProfessionalRepository is a mock implementation of identity.ProfessionalRepository
type MockProfessionalRepository struct {
	mock.Mock
}

func (m *MockProfessionalRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.ProfessionalProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.ProfessionalProfile), args.Error(1)
}

func (m *MockProfessionalRepository) FindBySlug(ctx context.Context, slug string) (*identity.ProfessionalProfile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.ProfessionalProfile), args.Error(1)
}

func (m *MockProfessionalRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]identity.ProfessionalProfile, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).([]identity.ProfessionalProfile), args.Error(1)
}

func (m *MockProfessionalRepository) ExistsBySlug(ctx context.Context, slug string, excludeUserID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfessionalRepository) Save(ctx context.Context, profile *identity.ProfessionalProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockAddressRepository is a mock implementation of identity.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, address *identity.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func eventTypes(events []shared.DomainEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}
