package ratings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Upsert(ctx context.Context, rating *Rating) (created bool, err error)
	GetStoreView(ctx context.Context, storeID, userID int64) (*StoreView, error)
	GetOwnerFeedback(ctx context.Context, ownerID int64) (*OwnerFeedback, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// Upsert writes a user's rating for a store in a single atomic
// statement. The UNIQUE (user_id, store_id) key makes two concurrent
// submissions by the same user converge on one row instead of racing a
// select-then-insert pair. A fresh row has created_at = updated_at, so
// the RETURNING clause distinguishes a first submission from a
// resubmission without a second round trip.
func (r *Repository) Upsert(ctx context.Context, rating *Rating) (bool, error) {
	query := `
        INSERT INTO ratings (user_id, store_id, rating)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, store_id)
        DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
        RETURNING created_at, updated_at, (created_at = updated_at) AS created
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var created bool
	err := r.db.QueryRow(ctx, query,
		rating.UserID,
		rating.StoreID,
		rating.Rating,
	).Scan(&rating.CreatedAt, &rating.UpdatedAt, &created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, ErrStoreNotFound
		}
		return false, err
	}
	return created, nil
}

func (r *Repository) GetStoreView(ctx context.Context, storeID, userID int64) (*StoreView, error) {
	query := `
        SELECT s.id, s.name, s.email, s.address, s.owner_id,
               COALESCE(ROUND(AVG(r.rating), 1), 0)::float8 AS average_rating,
               (SELECT rating FROM ratings WHERE user_id = $1 AND store_id = s.id) AS user_rating
        FROM stores s
        LEFT JOIN ratings r ON r.store_id = s.id
        WHERE s.id = $2
        GROUP BY s.id
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var view StoreView
	err := r.db.QueryRow(ctx, query, userID, storeID).Scan(
		&view.ID,
		&view.Name,
		&view.Email,
		&view.Address,
		&view.OwnerID,
		&view.AverageRating,
		&view.UserRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (r *Repository) GetOwnerFeedback(ctx context.Context, ownerID int64) (*OwnerFeedback, error) {
	query := `
        SELECT s.id, s.name, u.name, u.email, r.rating, r.updated_at
        FROM ratings r
        JOIN users u ON u.id = r.user_id
        JOIN stores s ON s.id = r.store_id
        WHERE s.owner_id = $1
        ORDER BY r.updated_at DESC
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := OwnerFeedback{Ratings: make([]OwnerRating, 0)}
	for rows.Next() {
		var or OwnerRating
		if err := rows.Scan(
			&or.StoreID,
			&or.StoreName,
			&or.UserName,
			&or.Email,
			&or.Rating,
			&or.UpdatedAt,
		); err != nil {
			return nil, err
		}
		feedback.Ratings = append(feedback.Ratings, or)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	avgQuery := `
        SELECT COALESCE(ROUND(AVG(r.rating), 1), 0)::float8
        FROM ratings r
        JOIN stores s ON s.id = r.store_id
        WHERE s.owner_id = $1
    `
	if err := r.db.QueryRow(ctx, avgQuery, ownerID).Scan(&feedback.AverageRating); err != nil {
		return nil, err
	}
	return &feedback, nil
}
