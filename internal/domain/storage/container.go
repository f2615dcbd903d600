package storage

import (
	"ratehub/internal/domain/admindashboard"
	"ratehub/internal/domain/ratings"
	"ratehub/internal/domain/stores"
	"ratehub/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	Users          users.Store
	Stores         stores.Repo
	Ratings        ratings.Store
	AdminDashboard admindashboard.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:          users.NewRepository(db),
		Stores:         stores.NewRepository(db),
		Ratings:        ratings.NewRepository(db),
		AdminDashboard: admindashboard.NewRepository(db),
	}
}
