package app

import (
	"errors"
	"net/http"

	"github.com/ferhatdonmez/movie-discovery/api"
	"github.com/ferhatdonmez/movie-discovery/internal/domain"
)

// RateMovie upserts the caller's rating for a movie. Re-rating updates the
// existing score in place; either way the derived averages move, so the
// listing cache is swept before the response goes out.
func (app *application) RateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.RateMovieRequest

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

	rating := &domain.Rating{
		UserID:  input.UserId,
		MovieID: movieID,
		Score:   input.Score,
	}

	err = app.ratingRepo.Upsert(r.Context(), rating)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.listings.OnRatingChanged(r.Context(), movieID)

	resp := api.RatingResponse{
		Id:      rating.ID,
		UserId:  rating.UserID,
		MovieId: rating.MovieID,
		Score:   rating.Score,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
