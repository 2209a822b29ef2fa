package mocks

import (
	"context"

	"github.com/ferhatdonmez/movie-discovery/internal/domain"
)

type MockGenreRepo struct {
	domain.GenreRepository
	GetAllFunc func(ctx context.Context) ([]*domain.Genre, error)
}

func (m *MockGenreRepo) GetAll(ctx context.Context) ([]*domain.Genre, error) {
	return m.GetAllFunc(ctx)
}
