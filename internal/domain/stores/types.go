package stores

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("store not found")

type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	OwnerID   *int64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Recomputed on every list read, never stored.
	AverageRating float64 `json:"average_rating"`
}

// Filters narrows the store listing; all three are substring matches
// and empty fields are ignored.
type Filters struct {
	Name    string
	Email   string
	Address string
}
