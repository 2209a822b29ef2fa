package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ferhatdonmez/movie-discovery/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

// likePatternReplacer neutralizes LIKE metacharacters so a search term
// always matches as a literal substring ('\' is Postgres' default escape
// character).
var likePatternReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(term string) string {
	return likePatternReplacer.Replace(term)
}

// GetAll runs the aggregate listing query. Ratings are pre-aggregated in a
// derived table so the min-rating filter applies to the computed average
// (HAVING semantics), and the row total comes from count(*) OVER() on the
// same result set, which keeps the total and the row predicate in lockstep
// by construction.
//
// Movies with no ratings carry a NULL average internally and sort last
// regardless of direction; the exposed average is coalesced to 0.
func (p *PostgresMovieRepository) GetAll(
	ctx context.Context,
	filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {

	query := fmt.Sprintf(`
		SELECT count(*) OVER(),
			m.id, m.title, m.description, m.release_year,
			m.video_url, m.thumbnail_url, m.is_published,
			COALESCE(ROUND(r.avg_score::numeric, 1)::float8, 0),
			COALESCE(r.rating_count, 0),
			COALESCE(
				(SELECT array_agg(g.name ORDER BY g.name)
				 FROM movie_genres mg
				 JOIN genres g ON g.id = mg.genre_id
				 WHERE mg.movie_id = m.id),
				'{}')
		FROM movies m
		LEFT JOIN (
			SELECT movie_id, AVG(score) AS avg_score, COUNT(*) AS rating_count
			FROM ratings
			GROUP BY movie_id
		) r ON r.movie_id = m.id
		WHERE ($1 = '' OR m.title ILIKE '%%' || $1 || '%%' OR m.description ILIKE '%%' || $1 || '%%')
			AND ($2::float8 IS NULL OR COALESCE(r.avg_score, 0) >= $2)
		ORDER BY %s %s NULLS LAST, m.id ASC
		LIMIT $3 OFFSET $4`, filters.SortColumn(), filters.SortDirection())

	term := escapeLikePattern(filters.Term)

	rows, err := p.db.Query(ctx, query, term, filters.MinRating, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
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
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}
	rows.Close()

	// A page past the end yields no rows, so the window total never
	// materializes; recount under the same predicate so the metadata still
	// reports the real total.
	if len(movies) == 0 && filters.Offset() > 0 {
		countQuery := `
			SELECT count(*)
			FROM movies m
			LEFT JOIN (
				SELECT movie_id, AVG(score) AS avg_score
				FROM ratings
				GROUP BY movie_id
			) r ON r.movie_id = m.id
			WHERE ($1 = '' OR m.title ILIKE '%' || $1 || '%' OR m.description ILIKE '%' || $1 || '%')
				AND ($2::float8 IS NULL OR COALESCE(r.avg_score, 0) >= $2)`

		if err := p.db.QueryRow(ctx, countQuery, term, filters.MinRating).Scan(&totalRecords); err != nil {
			return nil, nil, err
		}
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT m.id, m.title, m.description, m.release_year,
			m.video_url, m.thumbnail_url, m.is_published,
			COALESCE(ROUND(r.avg_score::numeric, 1)::float8, 0),
			COALESCE(r.rating_count, 0),
			COALESCE(
				(SELECT array_agg(g.name ORDER BY g.name)
				 FROM movie_genres mg
				 JOIN genres g ON g.id = mg.genre_id
				 WHERE mg.movie_id = m.id),
				'{}')
		FROM movies m
		LEFT JOIN (
			SELECT movie_id, AVG(score) AS avg_score, COUNT(*) AS rating_count
			FROM ratings
			GROUP BY movie_id
		) r ON r.movie_id = m.id
		WHERE m.id = $1`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie, genreIDs []int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO movies (title, description, release_year, video_url, thumbnail_url, is_published)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`

		err := tx.QueryRow(
			ctx,
			query,
			movie.Title,
			movie.Description,
			movie.ReleaseYear,
			movie.VideoUrl,
			movie.ThumbnailUrl,
			movie.Published).Scan(&movie.ID)

		if err != nil {
			return err
		}

		if len(genreIDs) == 0 {
			return nil
		}

		rows := make([][]any, 0, len(genreIDs))
		for _, genreID := range genreIDs {
			rows = append(rows, []any{movie.ID, genreID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"movie_genres"},
			[]string{"movie_id", "genre_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return domain.ErrRecordNotFound
			}
			return err
		}

		return nil
	})
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, description = $2, release_year = $3,
			video_url = $4, thumbnail_url = $5, is_published = $6,
			updated_at = now()
		WHERE id = $7
		RETURNING id`

	err := p.db.QueryRow(
		ctx,
		query,
		movie.Title,
		movie.Description,
		movie.ReleaseYear,
		movie.VideoUrl,
		movie.ThumbnailUrl,
		movie.Published,
		movie.ID).Scan(&movie.ID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}
		return err
	}

	return nil
}

// Delete removes the movie together with its ratings and genre links. The
// cascade runs in the application, inside one transaction, so the write
// path can invalidate caches only after a fully consistent removal.
func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM ratings WHERE movie_id = $1`, id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, id)
		if err != nil {
			return err
		}

		var deletedID int
		err = tx.QueryRow(ctx, `DELETE FROM movies WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		return nil
	})
}

func (p *PostgresMovieRepository) RandomSampleIDs(ctx context.Context, n int) ([]int, error) {
	query := `SELECT id FROM movies ORDER BY random() LIMIT $1`

	rows, err := p.db.Query(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (p *PostgresMovieRepository) TopRatedIDs(ctx context.Context, n int) ([]int, error) {
	query := `
		SELECT m.id
		FROM movies m
		LEFT JOIN (
			SELECT movie_id, AVG(score) AS avg_score
			FROM ratings
			GROUP BY movie_id
		) r ON r.movie_id = m.id
		ORDER BY r.avg_score DESC NULLS LAST, m.id ASC
		LIMIT $1`

	rows, err := p.db.Query(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]int, error) {
	ids := []int{}

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
