package identity

import (
	"context"
	"errors"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages the signed-in user's own profile, shop and addresses
type AccountService struct {
	userRepo       identity.UserRepository
	profileRepo    identity.ProfessionalRepository
	addressRepo    identity.AddressRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfessionalRepository,
	addressRepo identity.AddressRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		addressRepo: addressRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// UpdateProfile changes the user's name and phone
func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.FullName, input.Phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user, nil)
	return &info, nil
}

// ChangePassword verifies the current password and stores the new one
func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return err
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, user); err != nil {
		s.logger.Warn("Failed to publish password change event", zap.Error(err))
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

// GetShop returns the professional's own shop profile
func (s *AccountService) GetShop(ctx context.Context, userID uuid.UUID) (*ShopInfo, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToShopInfo(profile)
	return &info, nil
}

// UpdateShop edits the professional's shop. Renaming the shop moves its slug.
func (s *AccountService) UpdateShop(ctx context.Context, userID uuid.UUID, input UpdateShopInput) (*ShopInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsProfessional() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only professionals have a shop")
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if profile, err = identity.NewProfessionalProfile(userID, input.ShopName); err != nil {
			return nil, err
		}
	}

	if err := profile.Update(input.ShopName, input.Bio, input.LogoURL); err != nil {
		return nil, err
	}
	slug, err := shared.UniqueSlug(ctx, profile.Slug, func(ctx context.Context, slug string) (bool, error) {
		return s.profileRepo.ExistsBySlug(ctx, slug, userID)
	})
	if err != nil {
		return nil, err
	}
	profile.Slug = slug

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	info := ToShopInfo(profile)
	return &info, nil
}

// ListAddresses returns the user's addresses, default first
func (s *AccountService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]AddressResponse, len(addresses))
	for i := range addresses {
		out[i] = ToAddressResponse(&addresses[i])
	}
	return out, nil
}

// CreateAddress adds an address. The user's first address becomes the default.
func (s *AccountService) CreateAddress(ctx context.Context, userID uuid.UUID, input identity.AddressInput) (*AddressResponse, error) {
	address, err := identity.NewAddress(userID, input)
	if err != nil {
		return nil, err
	}
	existing, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	address.IsDefault = len(existing) == 0

	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(address)
	return &resp, nil
}

// UpdateAddress edits one of the user's addresses
func (s *AccountService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input identity.AddressInput) (*AddressResponse, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if err := address.Update(input); err != nil {
		return nil, err
	}
	if err := s.addressRepo.Save(ctx, address); err != nil {
		return nil, err
	}
	resp := ToAddressResponse(address)
	return &resp, nil
}

// DeleteAddress removes an address. Deleting the default promotes the most
// recent remaining address.
func (s *AccountService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, address.ID)
}

// SetDefaultAddress makes the address the user's only default
func (s *AccountService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.SetDefault(ctx, userID, addressID)
}

// ownedAddress loads an address and hides other users' addresses as not found
func (s *AccountService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*identity.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !address.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}
	return address, nil
}
