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

const maxRecommendationLimit = 20

func (app *application) GetMovieRecommendations(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	limit := catalog.DefaultRecommendationLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxRecommendationLimit {
			app.badRequestResponse(w, r, fmt.Errorf("limit must be an integer between 1 and %d", maxRecommendationLimit))
			return
		}
	}

	movies, err := app.recommender.Recommend(r.Context(), movieID, limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.RecommendationsResponse{
		SeedMovieId: movieID,
		Items:       toMovieSummaries(movies),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
