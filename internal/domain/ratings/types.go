package ratings

import (
	"errors"
	"time"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	QueryTimeoutDuration = time.Second * 5
)

type Rating struct {
	UserID    int64     `json:"user_id"`
	StoreID   int64     `json:"store_id"`
	Rating    int       `json:"rating"` // 1-5
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreView is a store joined with its rating aggregate plus the
// calling user's own rating, or nil when they have not rated it.
type StoreView struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	OwnerID       *int64  `json:"owner_id"`
	AverageRating float64 `json:"average_rating"`
	UserRating    *int    `json:"user_rating"`
}

type OwnerRating struct {
	StoreID   int64     `json:"store_id"`
	StoreName string    `json:"store_name"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerFeedback aggregates every rating across all of an owner's
// stores. AverageRating is one mean over all rows combined, not a
// per-store mean of means.
type OwnerFeedback struct {
	AverageRating float64       `json:"average_rating"`
	Ratings       []OwnerRating `json:"ratings"`
}
