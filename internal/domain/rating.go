package domain

import "context"

type Rating struct {
	ID      int
	UserID  int
	MovieID int
	Score   int
}

const (
	MinScore = 1
	MaxScore = 10
)

type RatingRepository interface {
	// Upsert inserts the rating, or updates the score in place when the
	// (user, movie) pair already exists.
	Upsert(ctx context.Context, rating *Rating) error

	// CoRatedMovies returns movies other than seedMovieID that users who
	// scored seedMovieID at or above threshold also scored at or above
	// threshold, ranked by the number of distinct such users.
	CoRatedMovies(ctx context.Context, seedMovieID, threshold, limit int) ([]*Movie, error)
}
