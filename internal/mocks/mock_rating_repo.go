package mocks

import (
	"context"

	"github.com/ferhatdonmez/movie-discovery/internal/domain"
)

type MockRatingRepo struct {
	domain.RatingRepository
	UpsertFunc        func(ctx context.Context, rating *domain.Rating) error
	CoRatedMoviesFunc func(ctx context.Context, seedMovieID, threshold, limit int) ([]*domain.Movie, error)
}

func (m *MockRatingRepo) Upsert(ctx context.Context, rating *domain.Rating) error {
	return m.UpsertFunc(ctx, rating)
}

func (m *MockRatingRepo) CoRatedMovies(ctx context.Context, seedMovieID, threshold, limit int) ([]*domain.Movie, error) {
	return m.CoRatedMoviesFunc(ctx, seedMovieID, threshold, limit)
}
