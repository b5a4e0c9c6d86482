package main

import "net/http"

type healthResponse struct {
	Status         string `json:"status"`
	CatalogVersion string `json:"catalogVersion"`
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:         "ok",
		CatalogVersion: app.catalog.Version(),
	})
}
