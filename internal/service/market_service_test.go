package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

type fakeListingStore struct {
	listings map[string]model.Listing
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: map[string]model.Listing{}}
}

func (f *fakeListingStore) Create(_ context.Context, l model.Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeListingStore) FindByID(_ context.Context, id string) (model.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return model.Listing{}, model.ErrListingNotFound
	}
	return l, nil
}

func (f *fakeListingStore) List(_ context.Context) ([]model.Listing, error) {
	out := make([]model.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeListingStore) Delete(_ context.Context, id string) error {
	if _, ok := f.listings[id]; !ok {
		return model.ErrListingNotFound
	}
	delete(f.listings, id)
	return nil
}

func (f *fakeListingStore) MarkVerified(_ context.Context, id string, verifierID string, at time.Time) error {
	l, ok := f.listings[id]
	if !ok {
		return model.ErrListingNotFound
	}
	l.Verified = true
	l.VerifiedAt = &at
	l.VerifiedBy = &verifierID
	f.listings[id] = l
	return nil
}

type fakeEquipmentStore struct {
	requests map[string]model.EquipmentRequest
}

func newFakeEquipmentStore() *fakeEquipmentStore {
	return &fakeEquipmentStore{requests: map[string]model.EquipmentRequest{}}
}

func (f *fakeEquipmentStore) Create(_ context.Context, e model.EquipmentRequest) error {
	f.requests[e.ID] = e
	return nil
}

func (f *fakeEquipmentStore) List(_ context.Context) ([]model.EquipmentRequest, error) {
	out := make([]model.EquipmentRequest, 0, len(f.requests))
	for _, e := range f.requests {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEquipmentStore) Delete(_ context.Context, id string) error {
	if _, ok := f.requests[id]; !ok {
		return model.ErrEquipmentNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeEquipmentStore) MarkVerified(_ context.Context, id string, verifierID string, at time.Time) error {
	e, ok := f.requests[id]
	if !ok {
		return model.ErrEquipmentNotFound
	}
	e.Verified = true
	e.VerifiedAt = &at
	e.VerifiedBy = &verifierID
	f.requests[id] = e
	return nil
}

func validListingInput() model.CreateListingRequest {
	return model.CreateListingRequest{
		CropName: "Wheat",
		Quantity: "20 quintals",
		Price:    2100,
		Location: "Hubli",
		Contact:  "9876543210",
	}
}

func TestCreateListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores the listing with the caller as owner", func(t *testing.T) {
		store := newFakeListingStore()
		svc := NewMarketService(store, newFakeEquipmentStore())

		listing, err := svc.CreateListing(ctx, "user-1", validListingInput())
		require.NoError(t, err)
		require.NotEmpty(t, listing.ID)
		require.Equal(t, "user-1", listing.OwnerID)
		require.False(t, listing.Verified)
		require.Len(t, store.listings, 1)
	})

	t.Run("collects every violated rule", func(t *testing.T) {
		svc := NewMarketService(newFakeListingStore(), newFakeEquipmentStore())

		_, err := svc.CreateListing(ctx, "user-1", model.CreateListingRequest{Price: -5})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION_FAILED", apiErr.Code)
		require.Contains(t, apiErr.Details, "crop_name is required")
		require.Contains(t, apiErr.Details, "price must be a positive number")
		require.Contains(t, apiErr.Details, "contact is required")
	})
}

func TestDeleteOwnListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		store := newFakeListingStore()
		svc := NewMarketService(store, newFakeEquipmentStore())
		listing, err := svc.CreateListing(ctx, "user-1", validListingInput())
		require.NoError(t, err)

		err = svc.DeleteOwnListing(ctx, &model.Claims{UserID: "user-1"}, listing.ID)
		require.NoError(t, err)
		require.Empty(t, store.listings)
	})

	t.Run("non-owner is refused even with a valid token", func(t *testing.T) {
		store := newFakeListingStore()
		svc := NewMarketService(store, newFakeEquipmentStore())
		listing, err := svc.CreateListing(ctx, "user-1", validListingInput())
		require.NoError(t, err)

		err = svc.DeleteOwnListing(ctx, &model.Claims{UserID: "user-2", Role: model.RoleSuperuser}, listing.ID)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "FORBIDDEN", apiErr.Code)
		require.Len(t, store.listings, 1)
	})

	t.Run("missing listing is not found", func(t *testing.T) {
		svc := NewMarketService(newFakeListingStore(), newFakeEquipmentStore())

		err := svc.DeleteOwnListing(ctx, &model.Claims{UserID: "user-1"}, "ghost")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "NOT_FOUND", apiErr.Code)
	})
}

func TestVerifyListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("records verifier and timestamp", func(t *testing.T) {
		store := newFakeListingStore()
		svc := NewMarketService(store, newFakeEquipmentStore())
		fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		listing, err := svc.CreateListing(ctx, "user-1", validListingInput())
		require.NoError(t, err)

		at, err := svc.VerifyListing(ctx, "admin-1", listing.ID)
		require.NoError(t, err)
		require.Equal(t, fixed, at)

		stored := store.listings[listing.ID]
		require.True(t, stored.Verified)
		require.Equal(t, "admin-1", *stored.VerifiedBy)
		require.Equal(t, fixed, *stored.VerifiedAt)
	})

	t.Run("missing listing is not found", func(t *testing.T) {
		svc := NewMarketService(newFakeListingStore(), newFakeEquipmentStore())

		_, err := svc.VerifyListing(ctx, "admin-1", "ghost")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "NOT_FOUND", apiErr.Code)
	})
}

func TestEquipmentRequests(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create requires equipment name", func(t *testing.T) {
		svc := NewMarketService(newFakeListingStore(), newFakeEquipmentStore())

		_, err := svc.CreateEquipmentRequest(ctx, "user-1", model.EquipmentRequestInput{Brand: "Mahindra"})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	})

	t.Run("create then verify then delete", func(t *testing.T) {
		store := newFakeEquipmentStore()
		svc := NewMarketService(newFakeListingStore(), store)

		request, err := svc.CreateEquipmentRequest(ctx, "user-1", model.EquipmentRequestInput{
			EquipmentName:  "Rotavator",
			Brand:          "Mahindra",
			Origin:         "India",
			ComplianceInfo: "BIS certified",
		})
		require.NoError(t, err)
		require.Equal(t, "user-1", request.CreatedBy)

		_, err = svc.VerifyEquipment(ctx, "admin-1", request.ID)
		require.NoError(t, err)
		require.True(t, store.requests[request.ID].Verified)

		err = svc.AdminDeleteEquipment(ctx, request.ID)
		require.NoError(t, err)
		require.Empty(t, store.requests)
	})
}
