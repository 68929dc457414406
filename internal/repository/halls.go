package repository

import (
	"context"
	"database/sql"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type HallRepository struct {
	db *database.DB
}

func NewHallRepository(db *database.DB) *HallRepository {
	return &HallRepository{db: db}
}

func (r *HallRepository) Create(ctx context.Context, hall *models.Hall) error {
	query := `
		INSERT INTO halls (owner_id, name, description, city, state, address, price_per_hour, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		hall.OwnerID,
		hall.Name,
		hall.Description,
		hall.City,
		hall.State,
		hall.Address,
		hall.PricePerHour,
		hall.IsActive,
	).Scan(&hall.ID, &hall.CreatedAt, &hall.UpdatedAt)
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*models.Hall, error) {
	hall := &models.Hall{}
	query := `
		SELECT id, owner_id, name, description, city, state, address,
		       price_per_hour, is_active, created_at, updated_at
		FROM halls
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&hall.ID,
		&hall.OwnerID,
		&hall.Name,
		&hall.Description,
		&hall.City,
		&hall.State,
		&hall.Address,
		&hall.PricePerHour,
		&hall.IsActive,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return hall, err
}

func (r *HallRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Hall, error) {
	query := `
		SELECT id, owner_id, name, description, city, state, address,
		       price_per_hour, is_active, created_at, updated_at
		FROM halls
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var halls []models.Hall
	for rows.Next() {
		var hall models.Hall
		err := rows.Scan(
			&hall.ID,
			&hall.OwnerID,
			&hall.Name,
			&hall.Description,
			&hall.City,
			&hall.State,
			&hall.Address,
			&hall.PricePerHour,
			&hall.IsActive,
			&hall.CreatedAt,
			&hall.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		halls = append(halls, hall)
	}

	return halls, rows.Err()
}
