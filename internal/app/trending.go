package app

import (
	"net/http"

	"github.com/ferhatdonmez/movie-discovery/api"
)

// GetTrending serves the precomputed trending set. A cold cache yields an
// empty list; the handler never queries the store.
func (app *application) GetTrending(w http.ResponseWriter, r *http.Request) {
	set, err := app.trending.Trending(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TrendingResponse{
		MovieIds:    set.MovieIDs,
		Source:      set.Source,
		Algorithm:   set.Algorithm,
		GeneratedAt: set.GeneratedAt,
		RunId:       set.RunID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
