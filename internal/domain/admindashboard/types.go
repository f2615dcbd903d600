package admindashboard

import "context"

type Overview struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

type Store interface {
	GetOverview(ctx context.Context) (*Overview, error)
}
