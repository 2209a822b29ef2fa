package repository

import (
	"context"
	"errors"

	"github.com/ferhatdonmez/movie-discovery/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRatingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRatingRepository(db *pgxpool.Pool) *PostgresRatingRepository {
	return &PostgresRatingRepository{
		db: db,
	}
}

// Upsert relies on the (user_id, movie_id) unique constraint: re-rating a
// movie updates the existing row instead of inserting a second one.
func (p *PostgresRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (user_id, movie_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = now()
		RETURNING id`

	err := p.db.QueryRow(ctx, query, rating.UserID, rating.MovieID, rating.Score).Scan(&rating.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.ErrRecordNotFound
		}
		return err
	}

	return nil
}

// CoRatedMovies is the co-occurrence query behind recommendations: the
// self-join pairs every strong rating of the seed movie with the same
// user's other strong ratings, and candidates are ranked by how many
// distinct users produced such a pair. Movie id ascending breaks ties so
// the ordering is deterministic.
func (p *PostgresRatingRepository) CoRatedMovies(
	ctx context.Context,
	seedMovieID, threshold, limit int) ([]*domain.Movie, error) {

	query := `
		SELECT m.id, m.title, m.description, m.release_year,
			m.video_url, m.thumbnail_url, m.is_published,
			COALESCE(ROUND(agg.avg_score::numeric, 1)::float8, 0),
			COALESCE(agg.rating_count, 0),
			COALESCE(
				(SELECT array_agg(g.name ORDER BY g.name)
				 FROM movie_genres mg
				 JOIN genres g ON g.id = mg.genre_id
				 WHERE mg.movie_id = m.id),
				'{}')
		FROM ratings r1
		JOIN ratings r2 ON r2.user_id = r1.user_id AND r2.movie_id <> r1.movie_id
		JOIN movies m ON m.id = r2.movie_id
		LEFT JOIN (
			SELECT movie_id, AVG(score) AS avg_score, COUNT(*) AS rating_count
			FROM ratings
			GROUP BY movie_id
		) agg ON agg.movie_id = m.id
		WHERE r1.movie_id = $1 AND r1.score >= $2 AND r2.score >= $2
		GROUP BY m.id, agg.avg_score, agg.rating_count
		ORDER BY COUNT(DISTINCT r2.user_id) DESC, m.id ASC
		LIMIT $3`

	rows, err := p.db.Query(ctx, query, seedMovieID, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.ReleaseYear,
			&movie.VideoUrl,
			&movie.ThumbnailUrl,
			&movie.Published,
			&movie.AverageRating,
			&movie.RatingCount,
			&movie.Genres,
		)

		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}
