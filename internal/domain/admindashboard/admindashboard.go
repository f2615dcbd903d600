package admindashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) GetOverview(ctx context.Context) (*Overview, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM stores),
			(SELECT COUNT(*) FROM ratings)
	`

	var o Overview
	err := r.db.QueryRow(ctx, q).Scan(
		&o.TotalUsers,
		&o.TotalStores,
		&o.TotalRatings,
	)
	if err != nil {
		return nil, fmt.Errorf("get admin overview: %w", err)
	}

	return &o, nil
}
