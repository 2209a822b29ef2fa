package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ferhatdonmez/movie-discovery/api"
	"github.com/ferhatdonmez/movie-discovery/internal/catalog"
	"github.com/ferhatdonmez/movie-discovery/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	DefaultSort     = domain.SortById
	DefaultOrder    = domain.OrderAsc
)

func (app *application) GetMovies(w http.ResponseWriter, r *http.Request) {
	params, err := parseGetMoviesParams(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := toMovieFilters(params)

	page, err := app.listings.GetPage(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieListResponse(page), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieSummary(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.CreateMovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := &domain.Movie{
		Title:        input.Title,
		Description:  input.Description,
		ReleaseYear:  input.ReleaseYear,
		VideoUrl:     input.VideoUrl,
		ThumbnailUrl: input.ThumbnailUrl,
		Published:    input.Published,
	}

	err = app.movieRepo.Create(r.Context(), movie, input.GenreIds)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, fmt.Errorf("one or more genres do not exist"))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Invalidate before responding so a client that reads its own write
	// never sees a cached page without the new movie.
	app.listings.OnMovieCreated(r.Context(), movie.ID)

	created, err := app.movieRepo.GetById(r.Context(), movie.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := http.Header{
		"Location": []string{fmt.Sprintf("/movies/%d", movie.ID)},
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieSummary(created), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateMovieRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := &domain.Movie{
		ID:           movieID,
		Title:        input.Title,
		Description:  input.Description,
		ReleaseYear:  input.ReleaseYear,
		VideoUrl:     input.VideoUrl,
		ThumbnailUrl: input.ThumbnailUrl,
		Published:    input.Published,
	}

	err = app.movieRepo.Update(r.Context(), movie)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.listings.OnMovieUpdated(r.Context(), movieID)

	updated, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieSummary(updated), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movieRepo.Delete(r.Context(), movieID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.listings.OnMovieDeleted(r.Context(), movieID)

	w.WriteHeader(http.StatusNoContent)
}

func parseGetMoviesParams(r *http.Request) (api.GetMoviesParams, error) {
	params := api.GetMoviesParams{}
	query := r.URL.Query()

	intParams := map[string]**int{
		"page":     &params.Page,
		"pageSize": &params.PageSize,
	}

	for name, dst := range intParams {
		if raw := query.Get(name); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				return params, fmt.Errorf("invalid %s parameter", name)
			}
			*dst = &value
		}
	}

	if raw := query.Get("minRating"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("invalid minRating parameter")
		}
		params.MinRating = &value
	}

	if raw := query.Get("sort"); raw != "" {
		params.Sort = &raw
	}
	if raw := query.Get("order"); raw != "" {
		params.Order = &raw
	}
	if raw := query.Get("term"); raw != "" {
		params.Term = &raw
	}

	return params, nil
}

func toMovieFilters(params api.GetMoviesParams) domain.MovieFilters {
	filters := domain.MovieFilters{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Sort:     DefaultSort,
		Order:    DefaultOrder,
	}

	if params.Page != nil {
		filters.Page = *params.Page
	}
	if params.PageSize != nil {
		filters.PageSize = *params.PageSize
	}
	if params.Sort != nil {
		filters.Sort = *params.Sort
	}
	if params.Order != nil {
		filters.Order = *params.Order
	}
	if params.MinRating != nil {
		filters.MinRating = params.MinRating
	}
	if params.Term != nil {
		filters.Term = *params.Term
	}

	return filters
}

func toMovieListResponse(page *catalog.Page) api.MovieListResponse {
	return api.MovieListResponse{
		Items: toMovieSummaries(page.Movies),
		Total: page.Metadata.TotalRecords,
		Page:  page.Metadata.CurrentPage,
		Size:  page.Metadata.PageSize,
		Pages: page.Metadata.LastPage,
	}
}

func toMovieSummaries(movies []*domain.Movie) []api.MovieSummary {
	summaries := make([]api.MovieSummary, len(movies))

	for i, movie := range movies {
		summaries[i] = toMovieSummary(movie)
	}

	return summaries
}

func toMovieSummary(movie *domain.Movie) api.MovieSummary {
	if movie == nil {
		return api.MovieSummary{}
	}

	genres := movie.Genres
	if genres == nil {
		genres = []string{}
	}

	return api.MovieSummary{
		Id:            movie.ID,
		Title:         movie.Title,
		Description:   movie.Description,
		ReleaseYear:   movie.ReleaseYear,
		VideoUrl:      movie.VideoUrl,
		ThumbnailUrl:  movie.ThumbnailUrl,
		Published:     movie.Published,
		AverageRating: movie.AverageRating,
		RatingCount:   movie.RatingCount,
		Genres:        genres,
	}
}
