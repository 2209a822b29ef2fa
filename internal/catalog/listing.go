package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ferhatdonmez/movie-discovery/internal/cache"
	"github.com/ferhatdonmez/movie-discovery/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	listingTTL = 60 * time.Second

	listingKeyPrefix = "movies:list:"

	// Pattern for the coarse invalidation sweep. Covers listing and
	// recommendation entries but deliberately not the trending key,
	// which is owned by the trending job alone.
	movieKeysPattern = "movies:*"
)

// Page is the cached unit of the listing service: one page of movies plus
// its pagination metadata.
type Page struct {
	Movies   []*domain.Movie
	Metadata *domain.Metadata
}

// ListingService implements the cache-aside read path over the aggregate
// listing query. Cache failures degrade to the store; the store stays the
// single source of truth and every cache entry is disposable.
type ListingService struct {
	movies domain.MovieRepository
	cache  cache.Cache
	logger *slog.Logger

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

func NewListingService(movies domain.MovieRepository, cache cache.Cache, logger *slog.Logger) *ListingService {
	meter := otel.Meter("github.com/ferhatdonmez/movie-discovery/internal/catalog")

	cacheHits, _ := meter.Int64Counter("listing_cache_hits_total")
	cacheMisses, _ := meter.Int64Counter("listing_cache_misses_total")

	return &ListingService{
		movies:      movies,
		cache:       cache,
		logger:      logger,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
	}
}

func (s *ListingService) GetPage(ctx context.Context, filters domain.MovieFilters) (*Page, error) {
	key := listingKey(filters)

	payload, err := s.cache.Get(ctx, key)
	if err == nil {
		var page Page

		// A payload that exists but does not decode means the cache is
		// corrupted. That must surface as an error, never as an empty page.
		if err := json.Unmarshal(payload, &page); err != nil {
			return nil, fmt.Errorf("corrupt listing cache entry %s: %w", key, err)
		}

		s.cacheHits.Add(ctx, 1)

		return &page, nil
	}

	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("listing cache read failed, falling back to store", "key", key, "error", err)
	}

	s.cacheMisses.Add(ctx, 1)

	movies, metadata, err := s.movies.GetAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Movies:   movies,
		Metadata: metadata,
	}

	payload, err = json.Marshal(page)
	if err != nil {
		return nil, err
	}

	// The response is already computed; a failed cache write only costs
	// the next request a store round trip.
	if err := s.cache.Set(ctx, key, payload, listingTTL); err != nil {
		s.logger.Warn("listing cache write failed", "key", key, "error", err)
	}

	return page, nil
}

// OnMovieCreated must be called synchronously after every successful
// movie insert, before the response is returned, so a subsequent read in
// the same causal chain cannot observe stale listings.
func (s *ListingService) OnMovieCreated(ctx context.Context, movieID int) {
	s.invalidate(ctx, movieID)
}

func (s *ListingService) OnMovieUpdated(ctx context.Context, movieID int) {
	s.invalidate(ctx, movieID)
}

func (s *ListingService) OnMovieDeleted(ctx context.Context, movieID int) {
	s.invalidate(ctx, movieID)
}

// OnRatingChanged covers both first-time ratings and in-place re-ratings;
// either moves the derived average, so cached pages are stale.
func (s *ListingService) OnRatingChanged(ctx context.Context, movieID int) {
	s.invalidate(ctx, movieID)
}

func (s *ListingService) invalidate(ctx context.Context, movieID int) {
	err := s.cache.DeletePattern(ctx, movieKeysPattern)
	if err != nil {
		// The write itself succeeded, so the request must not fail here.
		// Remaining stale entries are bounded by the listing TTL.
		s.logger.Error("listing cache invalidation failed", "movieId", movieID, "error", err)
	}
}

// listingKey builds a deterministic key from every field of the filter
// tuple. Unset optional fields map to the bare sentinel "-" while set
// values carry a "v:" discriminator, so no user-supplied value can
// collide with absence (a search for the literal text "-" keys as
// "term:v:-", never "term:-").
func listingKey(filters domain.MovieFilters) string {
	minRating := "-"
	if filters.MinRating != nil {
		minRating = "v:" + strconv.FormatFloat(*filters.MinRating, 'f', -1, 64)
	}

	term := "-"
	if filters.Term != "" {
		term = "v:" + strings.ToLower(filters.Term)
	}

	return fmt.Sprintf("%spage:%d:size:%d:sort:%s:order:%s:min:%s:term:%s",
		listingKeyPrefix,
		filters.Page,
		filters.PageSize,
		filters.Sort,
		filters.Order,
		minRating,
		term,
	)
}
