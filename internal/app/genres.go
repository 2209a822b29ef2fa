package app

import (
	"net/http"

	"github.com/ferhatdonmez/movie-discovery/api"
)

func (app *application) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := app.genreRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.GenreListResponse{
		Genres: make([]api.GenreResponse, len(genres)),
	}

	for i, genre := range genres {
		resp.Genres[i] = api.GenreResponse{
			Id:   genre.ID,
			Name: genre.Name,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
