// Package api holds the request and response shapes of the HTTP surface.
package api

import "time"

type MovieSummary struct {
	Id            int      `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ReleaseYear   int      `json:"release_year"`
	VideoUrl      string   `json:"video_url"`
	ThumbnailUrl  string   `json:"thumbnail_url"`
	Published     bool     `json:"is_published"`
	AverageRating float64  `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`
	Genres        []string `json:"genres"`
}

type MovieListResponse struct {
	Items []MovieSummary `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}

type GetMoviesParams struct {
	Page      *int     `validate:"omitempty,gte=1"`
	PageSize  *int     `validate:"omitempty,gte=1,lte=100"`
	Sort      *string  `validate:"omitempty,oneof=id title rating"`
	Order     *string  `validate:"omitempty,oneof=asc desc"`
	MinRating *float64 `validate:"omitempty,gte=0,lte=10"`
	Term      *string  `validate:"omitempty,max=100"`
}

type CreateMovieRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	ReleaseYear  int    `json:"release_year" validate:"required,gte=1888,lte=2100"`
	VideoUrl     string `json:"video_url" validate:"required,url"`
	ThumbnailUrl string `json:"thumbnail_url" validate:"required,url"`
	Published    bool   `json:"is_published"`
	GenreIds     []int  `json:"genre_ids" validate:"omitempty,dive,gte=1"`
}

type UpdateMovieRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	ReleaseYear  int    `json:"release_year" validate:"required,gte=1888,lte=2100"`
	VideoUrl     string `json:"video_url" validate:"required,url"`
	ThumbnailUrl string `json:"thumbnail_url" validate:"required,url"`
	Published    bool   `json:"is_published"`
}

type RateMovieRequest struct {
	UserId int `json:"user_id" validate:"required,gte=1"`
	Score  int `json:"score" validate:"required,gte=1,lte=10"`
}

type RatingResponse struct {
	Id      int `json:"id"`
	UserId  int `json:"user_id"`
	MovieId int `json:"movie_id"`
	Score   int `json:"score"`
}

type RecommendationsResponse struct {
	SeedMovieId int            `json:"seed_movie_id"`
	Items       []MovieSummary `json:"items"`
}

type TrendingResponse struct {
	MovieIds    []int     `json:"movie_ids"`
	Source      string    `json:"source,omitempty"`
	Algorithm   string    `json:"algorithm,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitzero"`
	RunId       string    `json:"run_id,omitempty"`
}

type GenreResponse struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type GenreListResponse struct {
	Genres []GenreResponse `json:"genres"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors"`
	RequestId        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}
