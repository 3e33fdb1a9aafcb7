package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// CommunityService handles community catalog operations
type CommunityService struct {
	communityRepo catalog.CommunityRepository
	logger        *zap.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(communityRepo catalog.CommunityRepository, logger *zap.Logger) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		logger:        logger,
	}
}

// Create creates a new enabled community
func (s *CommunityService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCommunityRequest) (*CommunityResponse, error) {
	existing, err := s.communityRepo.FindBySlug(ctx, tenantID, req.Slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A community with this slug already exists")
	}

	community, err := catalog.NewCommunity(tenantID, req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		community.SetDescription(req.Description)
	}
	community.SetAutoAcceptMembers(req.AutoAcceptMembers)

	if err := s.communityRepo.Save(ctx, community); err != nil {
		return nil, err
	}

	s.logger.Info("Community created",
		zap.String("community_id", community.ID.String()),
		zap.String("slug", community.Slug))

	response := ToCommunityResponse(community)
	return &response, nil
}

// GetByID retrieves a community by ID
func (s *CommunityService) GetByID(ctx context.Context, tenantID, communityID uuid.UUID) (*CommunityResponse, error) {
	community, err := s.communityRepo.FindByIDForTenant(ctx, tenantID, communityID)
	if err != nil {
		return nil, err
	}
	response := ToCommunityResponse(community)
	return &response, nil
}

// GetBySlug retrieves a community by slug
func (s *CommunityService) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*CommunityResponse, error) {
	community, err := s.communityRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	response := ToCommunityResponse(community)
	return &response, nil
}

// List retrieves communities with pagination
func (s *CommunityService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CommunityResponse, int64, error) {
	domainFilter := filter.domainFilter()

	communities, err := s.communityRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.communityRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCommunityResponses(communities), total, nil
}

// Update updates a community's editable fields
func (s *CommunityService) Update(ctx context.Context, tenantID, communityID uuid.UUID, req UpdateCommunityRequest) (*CommunityResponse, error) {
	community, err := s.communityRepo.FindByIDForTenant(ctx, tenantID, communityID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" || len(*req.Name) > 200 {
			return nil, shared.NewDomainError("INVALID_NAME", "Name must be between 1 and 200 characters")
		}
		community.Name = *req.Name
	}
	if req.Description != nil {
		community.SetDescription(*req.Description)
	}
	if req.AutoAcceptMembers != nil {
		community.SetAutoAcceptMembers(*req.AutoAcceptMembers)
	}

	if err := s.communityRepo.Save(ctx, community); err != nil {
		return nil, err
	}

	response := ToCommunityResponse(community)
	return &response, nil
}

// SetEnabled enables or disables new enrollment into the community
func (s *CommunityService) SetEnabled(ctx context.Context, tenantID, communityID uuid.UUID, enabled bool) error {
	community, err := s.communityRepo.FindByIDForTenant(ctx, tenantID, communityID)
	if err != nil {
		return err
	}

	if enabled {
		community.Enable()
	} else {
		community.Disable()
	}

	if err := s.communityRepo.Save(ctx, community); err != nil {
		return err
	}

	s.logger.Info("Community availability changed",
		zap.String("community_id", communityID.String()),
		zap.Bool("enabled", enabled))

	return nil
}
