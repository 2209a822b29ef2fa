package integration_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"testing"

	"github.com/ferhatdonmez/movie-discovery/internal/cache"
	"github.com/ferhatdonmez/movie-discovery/internal/domain"
	"github.com/ferhatdonmez/movie-discovery/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "movie_discovery"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

type BaseSuite struct {
	suite.Suite
	db             *pgxpool.Pool
	redis          *redis.Client
	cache          cache.Cache
	movieRepo      domain.MovieRepository
	ratingRepo     domain.RatingRepository
	genreRepo      domain.GenreRepository
	logger         *slog.Logger
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer

	db, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	if err != nil {
		log.Printf("failed to create connection pool: %s", err)
		return
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisContainer.ConnectionString})

	s.db = db
	s.redis = rdb
	s.cache = cache.NewRedisCache(rdb)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.movieRepo = repository.NewPostgresMovieRepository(db)
	s.ratingRepo = repository.NewPostgresRatingRepository(db)
	s.genreRepo = repository.NewPostgresGenreRepository(db)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// resetState truncates every table and flushes the cache so each test
// starts from a clean slate.
func (s *BaseSuite) resetState(t testing.TB) {
	ctx := context.Background()

	_, err := s.db.Exec(ctx, `
		TRUNCATE ratings, movie_genres, movies, genres, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	require.NoError(t, s.redis.FlushAll(ctx).Err())
}

func (s *BaseSuite) insertUser(t testing.TB, email string) int {
	var id int
	err := s.db.QueryRow(context.Background(),
		`INSERT INTO users (email) VALUES ($1) RETURNING id`, email).Scan(&id)
	require.NoError(t, err)

	return id
}

func (s *BaseSuite) insertMovie(t testing.TB, title string, year int) int {
	var id int
	err := s.db.QueryRow(context.Background(),
		`INSERT INTO movies (title, description, release_year)
		 VALUES ($1, $2, $3) RETURNING id`,
		title, fmt.Sprintf("Description of %s", title), year).Scan(&id)
	require.NoError(t, err)

	return id
}

func (s *BaseSuite) insertGenre(t testing.TB, name string) int {
	var id int
	err := s.db.QueryRow(context.Background(),
		`INSERT INTO genres (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)

	return id
}

func (s *BaseSuite) insertRating(t testing.TB, userID, movieID, score int) {
	_, err := s.db.Exec(context.Background(),
		`INSERT INTO ratings (user_id, movie_id, score) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, movie_id) DO UPDATE SET score = EXCLUDED.score`,
		userID, movieID, score)
	require.NoError(t, err)
}
