package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateResetToken(ctx context.Context, email, resetToken string, resetTokenExpires time.Time) error
	GetByResetToken(ctx context.Context, resetToken string) (*User, error)
	List(ctx context.Context, filters Filters, limit, offset int) ([]User, int, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	query := `
	  INSERT INTO users (name, email, password, address, role)
	  VALUES ($1, $2, $3, $4, $5)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(
		ctx, query, user.Name, user.Email, user.Password.hash, user.Address, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_key" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `
	  SELECT id, name, email, password, address, role,
	         reset_password_token, reset_password_expires, created_at, updated_at
	  FROM users
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var user User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Address,
		&user.Role,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
	  SELECT id, name, email, password, address, role,
	         reset_password_token, reset_password_expires, created_at, updated_at
	  FROM users
	  WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var user User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Address,
		&user.Role,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update persists the password hash and reset-token columns of an
// existing account. The other identity fields are immutable here.
func (r *Repository) Update(ctx context.Context, user *User) error {
	query := `
	  UPDATE users
	  SET password = $1, reset_password_token = $2, reset_password_expires = $3, updated_at = now()
	  WHERE id = $4
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query,
		user.Password.hash,
		user.ResetPasswordToken,
		user.ResetPasswordExpires,
		user.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateResetToken(ctx context.Context, email, resetToken string, resetTokenExpires time.Time) error {
	query := `
	  UPDATE users
	  SET reset_password_token = $1, reset_password_expires = $2, updated_at = now()
	  WHERE email = $3
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, query, resetToken, resetTokenExpires, email)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetByResetToken(ctx context.Context, resetToken string) (*User, error) {
	query := `
	  SELECT id, name, email, password, address, role,
	         reset_password_token, reset_password_expires, created_at, updated_at
	  FROM users
	  WHERE reset_password_token = $1 AND reset_password_token <> ''
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var user User
	err := r.db.QueryRow(ctx, query, resetToken).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Address,
		&user.Role,
		&user.ResetPasswordToken,
		&user.ResetPasswordExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) List(ctx context.Context, filters Filters, limit, offset int) ([]User, int, error) {
	query := `
	  SELECT id, name, email, address, role, created_at, COUNT(*) OVER() AS total
	  FROM users
	  WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
	    AND ($2 = '' OR email ILIKE '%' || $2 || '%')
	    AND ($3 = '' OR role = $3)
	  ORDER BY id DESC
	  LIMIT $4 OFFSET $5
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, filters.Name, filters.Email, filters.Role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		list  = make([]User, 0)
		total int
	)
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Address,
			&user.Role,
			&user.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		list = append(list, user)
	}
	return list, total, rows.Err()
}
