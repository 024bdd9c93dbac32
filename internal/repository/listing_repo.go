package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agri-assist-api/internal/model"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `id, crop_name, quantity, price, location, contact, owner_id,
	created_at, verified, verified_at, verified_by`

func scanListing(row pgx.Row) (model.Listing, error) {
	var l model.Listing
	err := row.Scan(&l.ID, &l.CropName, &l.Quantity, &l.Price, &l.Location, &l.Contact,
		&l.OwnerID, &l.CreatedAt, &l.Verified, &l.VerifiedAt, &l.VerifiedBy)
	return l, err
}

func (r *ListingRepository) Create(ctx context.Context, l model.Listing) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO listings (id, crop_name, quantity, price, location, contact, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.CropName, l.Quantity, l.Price, l.Location, l.Contact, l.OwnerID, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (model.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Listing{}, model.ErrListingNotFound
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("find listing by id: %w", err)
	}
	return l, nil
}

func (r *ListingRepository) List(ctx context.Context) ([]model.Listing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) MarkVerified(ctx context.Context, id string, verifierID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE listings SET verified = true, verified_at = $2, verified_by = $3 WHERE id = $1`,
		id, at, verifierID)
	if err != nil {
		return fmt.Errorf("mark listing verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}
