package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

// ListingStore is the persistence surface for marketplace listings.
type ListingStore interface {
	Create(ctx context.Context, l model.Listing) error
	FindByID(ctx context.Context, id string) (model.Listing, error)
	List(ctx context.Context) ([]model.Listing, error)
	Delete(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string, verifierID string, at time.Time) error
}

// EquipmentStore is the persistence surface for equipment certification
// requests.
type EquipmentStore interface {
	Create(ctx context.Context, e model.EquipmentRequest) error
	List(ctx context.Context) ([]model.EquipmentRequest, error)
	Delete(ctx context.Context, id string) error
	MarkVerified(ctx context.Context, id string, verifierID string, at time.Time) error
}

// MarketService owns marketplace listings and equipment requests.
// Ownership deletion and superuser deletion are separate operations with
// separate endpoints, so audit logs can tell them apart.
type MarketService struct {
	listings  ListingStore
	equipment EquipmentStore
	now       func() time.Time
}

func NewMarketService(listings ListingStore, equipment EquipmentStore) *MarketService {
	return &MarketService{
		listings:  listings,
		equipment: equipment,
		now:       time.Now,
	}
}

func (s *MarketService) ListListings(ctx context.Context) ([]model.Listing, error) {
	return s.listings.List(ctx)
}

func (s *MarketService) GetListing(ctx context.Context, id string) (model.Listing, error) {
	l, err := s.listings.FindByID(ctx, id)
	if errors.Is(err, model.ErrListingNotFound) {
		return model.Listing{}, apierror.NotFound("listing")
	}
	return l, err
}

func (s *MarketService) CreateListing(ctx context.Context, ownerID string, req model.CreateListingRequest) (model.Listing, error) {
	req.Normalize()
	if reasons := req.Validate(); len(reasons) > 0 {
		return model.Listing{}, apierror.Validation(reasons)
	}

	listing := model.Listing{
		ID:        uuid.NewString(),
		CropName:  req.CropName,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Location:  req.Location,
		Contact:   req.Contact,
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return model.Listing{}, fmt.Errorf("create listing: %w", err)
	}

	return listing, nil
}

// DeleteOwnListing removes a listing on behalf of its owner. A non-owner
// is refused even with a valid token; superusers use the dedicated
// superuser deletion instead of bypassing this check.
func (s *MarketService) DeleteOwnListing(ctx context.Context, claims *model.Claims, id string) error {
	listing, err := s.listings.FindByID(ctx, id)
	if errors.Is(err, model.ErrListingNotFound) {
		return apierror.NotFound("listing")
	}
	if err != nil {
		return err
	}

	if listing.OwnerID != claims.UserID {
		return apierror.Forbidden()
	}

	return s.listings.Delete(ctx, id)
}

// VerifyListing sets the verification flag with timestamp and verifier id.
// Callers must already be superuser-gated at the route boundary.
func (s *MarketService) VerifyListing(ctx context.Context, verifierID string, id string) (time.Time, error) {
	at := s.now().UTC()
	err := s.listings.MarkVerified(ctx, id, verifierID, at)
	if errors.Is(err, model.ErrListingNotFound) {
		return time.Time{}, apierror.NotFound("listing")
	}
	return at, err
}

// AdminDeleteListing is the privileged deletion, distinct from owner
// deletion.
func (s *MarketService) AdminDeleteListing(ctx context.Context, id string) error {
	err := s.listings.Delete(ctx, id)
	if errors.Is(err, model.ErrListingNotFound) {
		return apierror.NotFound("listing")
	}
	return err
}

func (s *MarketService) CreateEquipmentRequest(ctx context.Context, createdBy string, req model.EquipmentRequestInput) (model.EquipmentRequest, error) {
	if reasons := req.Validate(); len(reasons) > 0 {
		return model.EquipmentRequest{}, apierror.Validation(reasons)
	}

	request := model.EquipmentRequest{
		ID:             uuid.NewString(),
		EquipmentID:    req.EquipmentID,
		EquipmentName:  req.EquipmentName,
		Brand:          req.Brand,
		Origin:         req.Origin,
		ComplianceInfo: req.ComplianceInfo,
		CreatedBy:      createdBy,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.equipment.Create(ctx, request); err != nil {
		return model.EquipmentRequest{}, fmt.Errorf("create equipment request: %w", err)
	}

	return request, nil
}

func (s *MarketService) ListEquipmentRequests(ctx context.Context) ([]model.EquipmentRequest, error) {
	return s.equipment.List(ctx)
}

func (s *MarketService) VerifyEquipment(ctx context.Context, verifierID string, id string) (time.Time, error) {
	at := s.now().UTC()
	err := s.equipment.MarkVerified(ctx, id, verifierID, at)
	if errors.Is(err, model.ErrEquipmentNotFound) {
		return time.Time{}, apierror.NotFound("equipment request")
	}
	return at, err
}

func (s *MarketService) AdminDeleteEquipment(ctx context.Context, id string) error {
	err := s.equipment.Delete(ctx, id)
	if errors.Is(err, model.ErrEquipmentNotFound) {
		return apierror.NotFound("equipment request")
	}
	return err
}
