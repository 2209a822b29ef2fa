package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ferhatdonmez/movie-discovery/internal/cache"
	"github.com/ferhatdonmez/movie-discovery/internal/domain"
)

const (
	// StrongRatingThreshold is the fixed score from which a rating counts
	// as a strong positive signal for co-rating recommendations.
	StrongRatingThreshold = 8

	DefaultRecommendationLimit = 5

	// Recommendation entries live under the movies namespace so the same
	// write-path sweep that clears listings clears them too.
	recsKeyPrefix = "movies:recs:"

	recsTTL = 60 * time.Second
)

// Recommender ranks movies by co-rating overlap: movies that users who
// rated the seed strongly also rated strongly, ordered by how many
// distinct users did so.
type Recommender struct {
	movies  domain.MovieRepository
	ratings domain.RatingRepository
	cache   cache.Cache
	logger  *slog.Logger
}

func NewRecommender(
	movies domain.MovieRepository,
	ratings domain.RatingRepository,
	cache cache.Cache,
	logger *slog.Logger) *Recommender {

	return &Recommender{
		movies:  movies,
		ratings: ratings,
		cache:   cache,
		logger:  logger,
	}
}

// Recommend returns at most limit movies co-rated with seedMovieID. A seed
// with no strong ratings yields an empty slice; a seed that does not exist
// at all yields domain.ErrRecordNotFound.
func (r *Recommender) Recommend(ctx context.Context, seedMovieID, limit int) ([]*domain.Movie, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	if _, err := r.movies.GetById(ctx, seedMovieID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%d:limit:%d", recsKeyPrefix, seedMovieID, limit)

	payload, err := r.cache.Get(ctx, key)
	if err == nil {
		var movies []*domain.Movie

		if err := json.Unmarshal(payload, &movies); err != nil {
			return nil, fmt.Errorf("corrupt recommendation cache entry %s: %w", key, err)
		}

		return movies, nil
	}

	if !errors.Is(err, cache.ErrMiss) {
		r.logger.Warn("recommendation cache read failed, falling back to store", "key", key, "error", err)
	}

	movies, err := r.ratings.CoRatedMovies(ctx, seedMovieID, StrongRatingThreshold, limit)
	if err != nil {
		return nil, err
	}

	payload, err = json.Marshal(movies)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, payload, recsTTL); err != nil {
		r.logger.Warn("recommendation cache write failed", "key", key, "error", err)
	}

	return movies, nil
}
