package ordering

import (
	"context"
	"sort"

	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShippingZoneService manages shipping zones for admins
type ShippingZoneService struct {
	zoneRepo ordering.ShippingZoneRepository
	logger   *zap.Logger
}

// NewShippingZoneService creates a new ShippingZoneService
func NewShippingZoneService(zoneRepo ordering.ShippingZoneRepository, logger *zap.Logger) *ShippingZoneService {
	return &ShippingZoneService{zoneRepo: zoneRepo, logger: logger}
}

// List returns all zones, the default zone last
func (s *ShippingZoneService) List(ctx context.Context) ([]ShippingZoneResponse, error) {
	zones, err := s.zoneRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(zones, func(i, j int) bool {
		if zones[i].IsDefault != zones[j].IsDefault {
			return !zones[i].IsDefault
		}
		return zones[i].Code < zones[j].Code
	})
	out := make([]ShippingZoneResponse, len(zones))
	for i := range zones {
		out[i] = ToShippingZoneResponse(&zones[i])
	}
	return out, nil
}

// Get returns one zone
func (s *ShippingZoneService) Get(ctx context.Context, id uuid.UUID) (*ShippingZoneResponse, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToShippingZoneResponse(zone)
	return &resp, nil
}

// Create creates a zone. A new default zone replaces the previous one.
func (s *ShippingZoneService) Create(ctx context.Context, req ShippingZoneRequest) (*ShippingZoneResponse, error) {
	zone, err := ordering.NewShippingZone(req.input())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, zone); err != nil {
		return nil, err
	}
	s.logger.Info("Shipping zone created", zap.String("code", zone.Code), zap.Bool("default", zone.IsDefault))
	resp := ToShippingZoneResponse(zone)
	return &resp, nil
}

// Update replaces a zone's fields
func (s *ShippingZoneService) Update(ctx context.Context, id uuid.UUID, req ShippingZoneRequest) (*ShippingZoneResponse, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := zone.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, zone); err != nil {
		return nil, err
	}
	resp := ToShippingZoneResponse(zone)
	return &resp, nil
}

// Delete removes a zone. Placed orders keep the zone code they were priced with.
func (s *ShippingZoneService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.zoneRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.zoneRepo.Delete(ctx, id)
}

func (s *ShippingZoneService) save(ctx context.Context, zone *ordering.ShippingZone) error {
	exists, err := s.zoneRepo.ExistsByCode(ctx, zone.Code, zone.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A shipping zone with this code already exists")
	}
	if err := s.zoneRepo.Save(ctx, zone); err != nil {
		return err
	}
	if zone.IsDefault {
		return s.zoneRepo.ClearDefault(ctx, zone.ID)
	}
	return nil
}
