package identity

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserAdminService implements admin account management
type UserAdminService struct {
	userRepo       identity.UserRepository
	profileRepo    identity.ProfessionalRepository
	blacklist      auth.TokenBlacklist
	revokeTTL      time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserAdminService creates a new UserAdminService. Suspending a user revokes
// every token issued to them for revokeTTL, normally the refresh token lifetime.
func NewUserAdminService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfessionalRepository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserAdminService {
	return &UserAdminService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		blacklist:   blacklist,
		revokeTTL:   revokeTTL,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserAdminService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListUsers returns a page of accounts filtered by role, status and search
func (s *UserAdminService) ListUsers(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserInfo], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.Role != "" {
		if !identity.Role(filter.Role).IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown account role")
		}
		f = f.WithFilter("role", filter.Role)
	}
	if filter.Status != "" {
		f = f.WithFilter("status", filter.Status)
	}

	users, total, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	var vendorIDs []uuid.UUID
	for i := range users {
		if users[i].IsProfessional() {
			vendorIDs = append(vendorIDs, users[i].ID)
		}
	}
	shops := make(map[uuid.UUID]*identity.ProfessionalProfile, len(vendorIDs))
	if len(vendorIDs) > 0 {
		profiles, err := s.profileRepo.FindByUserIDs(ctx, vendorIDs)
		if err != nil {
			return nil, err
		}
		for i := range profiles {
			shops[profiles[i].UserID] = &profiles[i]
		}
	}

	items := make([]UserInfo, len(users))
	for i := range users {
		items[i] = ToUserInfo(&users[i], shops[users[i].ID])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// SuspendUser blocks an account and revokes its outstanding tokens
func (s *UserAdminService) SuspendUser(ctx context.Context, input SuspendUserInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.Suspend(input.Reason); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUser(ctx, user.ID, s.revokeTTL); err != nil {
			// the suspension stands; CanLogin still blocks refresh
			s.logger.Error("Failed to revoke tokens of suspended user",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	if err := shared.PublishPending(ctx, s.eventPublisher, user); err != nil {
		s.logger.Warn("Failed to publish user status event", zap.Error(err))
	}
	s.logger.Info("User suspended", zap.String("user_id", user.ID.String()))

	info := ToUserInfo(user, nil)
	return &info, nil
}

// ReactivateUser lifts a suspension
func (s *UserAdminService) ReactivateUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, user); err != nil {
		s.logger.Warn("Failed to publish user status event", zap.Error(err))
	}
	s.logger.Info("User reactivated", zap.String("user_id", user.ID.String()))

	info := ToUserInfo(user, nil)
	return &info, nil
}
