package main

import (
	"github.com/ceotarot/ceotarot/ui"
	"github.com/justinas/alice"
	"io/fs"
	"net/http"
	"time"
)

func (app *application) routes(timeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	// The JSON API is called cross origin. It has no session and no CSRF check.
	api := alice.New(app.cors, app.localize)
	mux.Handle("/api/subscribe", api.ThenFunc(app.subscribeAPI))

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, app.commonContext, app.localize)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /scenarios/{id}/select", session.ThenFunc(app.selectScenario))
	mux.Handle("GET /scenarios/{id}", session.ThenFunc(app.reading))
	mux.Handle("GET /scenarios/{id}/card-image", session.ThenFunc(app.cardImage))
	mux.Handle("POST /scenarios/{id}/image-ready", session.ThenFunc(app.imageReady))
	mux.Handle("POST /scenarios/{id}/flip", session.ThenFunc(app.flip))
	mux.Handle("POST /scenarios/{id}/continue", session.ThenFunc(app.continueReading))
	mux.Handle("POST /reset", session.ThenFunc(app.reset))
	mux.Handle("POST /subscribe", session.ThenFunc(app.subscribeForm))

	common := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders)
	return common.Then(timeoutHandler(mux, timeout))
}
