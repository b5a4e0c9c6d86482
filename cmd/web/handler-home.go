package main

import (
	"github.com/ceotarot/ceotarot/internal/models"
	"net/http"
)

type homeTemplateData struct {
	Base      BaseTemplateData
	Scenarios []models.Scenario
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		Base:      app.newBaseTemplateData(r),
		Scenarios: app.catalog.All(),
	}

	app.render(w, r, http.StatusOK, "home", data)
}
