package identity

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines persistence for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindAll supports filters "role" and "status" plus search on email/full name
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	Save(ctx context.Context, user *User) error
	// Register inserts a new user together with its shop profile, when given, atomically
	Register(ctx context.Context, user *User, profile *ProfessionalProfile) error
	// CountCreatedByRole returns new accounts per role created in [from, to)
	CountCreatedByRole(ctx context.Context, from, to time.Time) (map[Role]int64, error)
}

// ProfessionalRepository defines persistence for shop profiles
type ProfessionalRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*ProfessionalProfile, error)
	FindBySlug(ctx context.Context, slug string) (*ProfessionalProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]ProfessionalProfile, error)
	ExistsBySlug(ctx context.Context, slug string, excludeUserID uuid.UUID) (bool, error)
	Save(ctx context.Context, profile *ProfessionalProfile) error
}

// AddressRepository defines persistence for shipping addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Save(ctx context.Context, address *Address) error
	// Delete removes the address and, when it was the default, promotes the
	// user's newest remaining address atomically
	Delete(ctx context.Context, id uuid.UUID) error
	// SetDefault makes addressID the only default address of userID
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}
