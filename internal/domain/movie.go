package domain

import (
	"context"
	"strings"
)

type Movie struct {
	ID            int
	Title         string
	Description   string
	ReleaseYear   int
	VideoUrl      string
	ThumbnailUrl  string
	Published     bool
	AverageRating float64
	RatingCount   int
	Genres        []string
}

const (
	SortById     = "id"
	SortByTitle  = "title"
	SortByRating = "rating"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type MovieFilters struct {
	Page      int
	PageSize  int
	Term      string
	Sort      string
	Order     string
	MinRating *float64
}

// SortColumn maps the sort field to a whitelisted SQL expression. The
// rating sort targets the aggregated average, not a raw column.
func (f MovieFilters) SortColumn() string {
	switch f.Sort {
	case SortByTitle:
		return "m.title"
	case SortByRating:
		return "r.avg_score"
	default:
		return "m.id"
	}
}

func (f MovieFilters) SortDirection() string {
	if strings.EqualFold(f.Order, OrderDesc) {
		return "DESC"
	}

	return "ASC"
}

func (f MovieFilters) Limit() int {
	return f.PageSize
}

func (f MovieFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type MovieRepository interface {
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie, genreIDs []int) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
	RandomSampleIDs(ctx context.Context, n int) ([]int, error)
	TopRatedIDs(ctx context.Context, n int) ([]int, error)
}
