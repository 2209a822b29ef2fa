package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/ferhatdonmez/movie-discovery/api"
	"github.com/ferhatdonmez/movie-discovery/internal/catalog"
	"github.com/ferhatdonmez/movie-discovery/internal/domain"
	"github.com/ferhatdonmez/movie-discovery/internal/mocks"
	"github.com/google/go-cmp/cmp"
)

func TestGetMovieRecommendations(t *testing.T) {
	seed := &domain.Movie{ID: 1, Title: "Seed", Genres: []string{}}

	tests := []struct {
		name           string
		movieID        string
		url            string
		getByIdFunc    func(context.Context, int) (*domain.Movie, error)
		coRatedFunc    func(context.Context, int, int, int) ([]*domain.Movie, error)
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.RecommendationsResponse
	}{
		{
			name:    "co-rated movies with default limit",
			movieID: "1",
			url:     "/movies/1/recommendations",
			getByIdFunc: func(ctx context.Context, id int) (*domain.Movie, error) {
				return seed, nil
			},
			coRatedFunc: func(ctx context.Context, seedMovieID, threshold, limit int) ([]*domain.Movie, error) {
				if seedMovieID != 1 {
					t.Errorf("seedMovieID = %d, want 1", seedMovieID)
				}
				if threshold != catalog.StrongRatingThreshold {
					t.Errorf("threshold = %d, want %d", threshold, catalog.StrongRatingThreshold)
				}
				if limit != catalog.DefaultRecommendationLimit {
					t.Errorf("limit = %d, want %d", limit, catalog.DefaultRecommendationLimit)
				}
				return []*domain.Movie{
					{ID: 5, Title: "Movie 5", AverageRating: 9.1, RatingCount: 3, Genres: []string{"Drama"}},
				}, nil
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.RecommendationsResponse{
				SeedMovieId: 1,
				Items: []api.MovieSummary{
					{Id: 5, Title: "Movie 5", AverageRating: 9.1, RatingCount: 3, Genres: []string{"Drama"}},
				},
			},
		},
		{
			name:    "explicit limit is honored",
			movieID: "1",
			url:     "/movies/1/recommendations?limit=2",
			getByIdFunc: func(ctx context.Context, id int) (*domain.Movie, error) {
				return seed, nil
			},
			coRatedFunc: func(ctx context.Context, seedMovieID, threshold, limit int) ([]*domain.Movie, error) {
				if limit != 2 {
					t.Errorf("limit = %d, want 2", limit)
				}
				return []*domain.Movie{}, nil
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.RecommendationsResponse{
				SeedMovieId: 1,
				Items:       []api.MovieSummary{},
			},
		},
		{
			name:           "limit above the ceiling is a bad request",
			movieID:        "1",
			url:            "/movies/1/recommendations?limit=50",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "limit must be an integer between 1 and 20",
		},
		{
			name:    "missing seed movie is not found",
			movieID: "99",
			url:     "/movies/99/recommendations",
			getByIdFunc: func(ctx context.Context, id int) (*domain.Movie, error) {
				return nil, domain.ErrRecordNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:    "store failure is a server error",
			movieID: "1",
			url:     "/movies/1/recommendations",
			getByIdFunc: func(ctx context.Context, id int) (*domain.Movie, error) {
				return seed, nil
			},
			coRatedFunc: func(ctx context.Context, seedMovieID, threshold, limit int) ([]*domain.Movie, error) {
				return nil, errors.New("connection lost")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication()

			movieRepo := &mocks.MockMovieRepo{GetByIdFunc: tt.getByIdFunc}
			ratingRepo := &mocks.MockRatingRepo{CoRatedMoviesFunc: tt.coRatedFunc}
			app.recommender = catalog.NewRecommender(movieRepo, ratingRepo, &mocks.StubCache{}, app.logger)

			w, r := executeRequest(t, http.MethodGet, tt.url, nil)
			r = withURLParam(r, "movieId", tt.movieID)

			app.GetMovieRecommendations(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			checkErrorMessage(t, w, w.Code, tt.wantErrMessage)

			if tt.wantResponse != nil {
				var got api.RecommendationsResponse
				if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if diff := cmp.Diff(*tt.wantResponse, got); diff != "" {
					t.Errorf("response mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
