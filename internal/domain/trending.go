package domain

import "time"

// TrendingSet is the payload published by the trending job. It lives only
// in the cache and is regenerated wholesale by every run.
type TrendingSet struct {
	MovieIDs    []int     `json:"movie_ids"`
	Source      string    `json:"source"`
	Algorithm   string    `json:"algorithm"`
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id"`
}
