package stores

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnknownOwner = errors.New("owner account does not exist")

var QueryTimeoutDuration = time.Second * 5

type Repo interface {
	Create(ctx context.Context, store *Store) error
	GetByID(ctx context.Context, storeID int64) (*Store, error)
	List(ctx context.Context, filters Filters) ([]Store, error)
	Update(ctx context.Context, store *Store) error
	Delete(ctx context.Context, storeID int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repo {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, store *Store) error {
	query := `
        INSERT INTO stores (name, email, address, owner_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownOwner
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, storeID int64) (*Store, error) {
	query := `
        SELECT id, name, email, address, owner_id, created_at, updated_at
        FROM stores
        WHERE id = $1
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var store Store
	err := r.db.QueryRow(ctx, query, storeID).Scan(
		&store.ID,
		&store.Name,
		&store.Email,
		&store.Address,
		&store.OwnerID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

func (r *Repository) List(ctx context.Context, filters Filters) ([]Store, error) {
	query := `
        SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
               COALESCE(ROUND(AVG(r.rating), 1), 0)::float8 AS average_rating
        FROM stores s
        LEFT JOIN ratings r ON r.store_id = s.id
        WHERE ($1 = '' OR s.name ILIKE '%' || $1 || '%')
          AND ($2 = '' OR s.email ILIKE '%' || $2 || '%')
          AND ($3 = '' OR s.address ILIKE '%' || $3 || '%')
        GROUP BY s.id
        ORDER BY s.id DESC
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, filters.Name, filters.Email, filters.Address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Store, 0)
	for rows.Next() {
		var store Store
		if err := rows.Scan(
			&store.ID,
			&store.Name,
			&store.Email,
			&store.Address,
			&store.OwnerID,
			&store.CreatedAt,
			&store.UpdatedAt,
			&store.AverageRating,
		); err != nil {
			return nil, err
		}
		list = append(list, store)
	}
	return list, rows.Err()
}

func (r *Repository) Update(ctx context.Context, store *Store) error {
	query := `
        UPDATE stores
        SET name = $1, email = $2, address = $3, owner_id = $4, updated_at = now()
        WHERE id = $5
    `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
		store.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownOwner
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, storeID int64) error {
	query := `DELETE FROM stores WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, storeID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
