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
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	// TrendingKey is the single cache entry owned by the trending job.
	// It sits outside the movies namespace on purpose: the write-path
	// sweep must never touch it.
	TrendingKey = "trending_movies"

	trendingTTL = time.Hour

	DefaultTrendingSize = 5
)

// Ranker selects and orders the candidate movie ids for a trending run.
// The ranking algorithm is a pluggable strategy, not a fixed property of
// the job.
type Ranker interface {
	Rank(ctx context.Context, n int) ([]int, error)
	Name() string
}

// RandomSampleRanker picks an unweighted random sample of the catalog. It
// is a stand-in for a real popularity ranking, kept as the default.
type RandomSampleRanker struct {
	movies domain.MovieRepository
}

func NewRandomSampleRanker(movies domain.MovieRepository) *RandomSampleRanker {
	return &RandomSampleRanker{movies: movies}
}

func (r *RandomSampleRanker) Rank(ctx context.Context, n int) ([]int, error) {
	return r.movies.RandomSampleIDs(ctx, n)
}

func (r *RandomSampleRanker) Name() string {
	return "random_db_sample"
}

// TopRatedRanker orders candidates by their aggregate average rating.
type TopRatedRanker struct {
	movies domain.MovieRepository
}

func NewTopRatedRanker(movies domain.MovieRepository) *TopRatedRanker {
	return &TopRatedRanker{movies: movies}
}

func (r *TopRatedRanker) Rank(ctx context.Context, n int) ([]int, error) {
	return r.movies.TopRatedIDs(ctx, n)
}

func (r *TopRatedRanker) Name() string {
	return "top_rated"
}

// TrendingJob precomputes the trending set out of band and publishes it
// into the cache. It only ever reads the store and overwrites its own
// cache key, so it is safe to run concurrently with request traffic.
type TrendingJob struct {
	ranker Ranker
	cache  cache.Cache
	logger *slog.Logger
	source string
	size   int

	refreshes metric.Int64Counter
}

func NewTrendingJob(ranker Ranker, cache cache.Cache, logger *slog.Logger) *TrendingJob {
	meter := otel.Meter("github.com/ferhatdonmez/movie-discovery/internal/catalog")

	refreshes, _ := meter.Int64Counter("trending_refreshes_total")

	return &TrendingJob{
		ranker:    ranker,
		cache:     cache,
		logger:    logger,
		source:    "scheduler",
		size:      DefaultTrendingSize,
		refreshes: refreshes,
	}
}

// Refresh regenerates the trending set unconditionally. An empty catalog
// is a no-op: a stale or absent entry beats overwriting with nothing.
func (j *TrendingJob) Refresh(ctx context.Context) error {
	ids, err := j.ranker.Rank(ctx, j.size)
	if err != nil {
		return fmt.Errorf("trending ranking failed: %w", err)
	}

	if len(ids) == 0 {
		j.logger.Info("trending refresh skipped, no candidate movies")
		return nil
	}

	set := domain.TrendingSet{
		MovieIDs:    ids,
		Source:      j.source,
		Algorithm:   j.ranker.Name(),
		GeneratedAt: time.Now().UTC(),
		RunID:       uuid.NewString(),
	}

	payload, err := json.Marshal(set)
	if err != nil {
		return err
	}

	if err := j.cache.Set(ctx, TrendingKey, payload, trendingTTL); err != nil {
		return err
	}

	j.refreshes.Add(ctx, 1)
	j.logger.Info("trending cache updated",
		"algorithm", set.Algorithm,
		"runId", set.RunID,
		"movieIds", set.MovieIDs)

	return nil
}

// Run refreshes immediately and then on every tick until ctx is canceled.
func (j *TrendingJob) Run(ctx context.Context, interval time.Duration) {
	if err := j.Refresh(ctx); err != nil {
		j.logger.Error("trending refresh failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("trending job stopped")
			return
		case <-ticker.C:
			if err := j.Refresh(ctx); err != nil {
				j.logger.Error("trending refresh failed", "error", err)
			}
		}
	}
}

// Trending serves the published set. A cold or expired key returns an
// empty set; the read path never falls back to a synchronous store query.
func (j *TrendingJob) Trending(ctx context.Context) (*domain.TrendingSet, error) {
	payload, err := j.cache.Get(ctx, TrendingKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			j.logger.Warn("trending cache read failed", "error", err)
		}

		return &domain.TrendingSet{MovieIDs: []int{}}, nil
	}

	var set domain.TrendingSet

	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("corrupt trending cache entry: %w", err)
	}

	return &set, nil
}
