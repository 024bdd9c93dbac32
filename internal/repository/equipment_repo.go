package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agri-assist-api/internal/model"
)

type EquipmentRepository struct {
	pool *pgxpool.Pool
}

func NewEquipmentRepository(pool *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{pool: pool}
}

const equipmentColumns = `id, equipment_id, equipment_name, brand, origin, compliance_info,
	created_by, created_at, verified, verified_at, verified_by`

func scanEquipment(row pgx.Row) (model.EquipmentRequest, error) {
	var e model.EquipmentRequest
	err := row.Scan(&e.ID, &e.EquipmentID, &e.EquipmentName, &e.Brand, &e.Origin,
		&e.ComplianceInfo, &e.CreatedBy, &e.CreatedAt, &e.Verified, &e.VerifiedAt, &e.VerifiedBy)
	return e, err
}

func (r *EquipmentRepository) Create(ctx context.Context, e model.EquipmentRequest) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO equipment_requests
		 (id, equipment_id, equipment_name, brand, origin, compliance_info, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.EquipmentID, e.EquipmentName, e.Brand, e.Origin, e.ComplianceInfo, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create equipment request: %w", err)
	}
	return nil
}

func (r *EquipmentRepository) List(ctx context.Context) ([]model.EquipmentRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+equipmentColumns+` FROM equipment_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list equipment requests: %w", err)
	}
	defer rows.Close()

	requests := make([]model.EquipmentRequest, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment request: %w", err)
		}
		requests = append(requests, e)
	}
	return requests, rows.Err()
}

func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM equipment_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete equipment request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) MarkVerified(ctx context.Context, id string, verifierID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE equipment_requests SET verified = true, verified_at = $2, verified_by = $3 WHERE id = $1`,
		id, at, verifierID)
	if err != nil {
		return fmt.Errorf("mark equipment verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEquipmentNotFound
	}
	return nil
}
