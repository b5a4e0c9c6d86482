package main

import (
	"encoding/json"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/i18n"
	"github.com/ceotarot/ceotarot/internal/reveal"
	"github.com/ceotarot/ceotarot/internal/subscribe"
	"log/slog"
	"net/http"
)

// subscribeAPI is the JSON endpoint behind POST /api/subscribe. Preflight requests succeed and any
// other method is rejected with a JSON error body.
func (app *application) subscribeAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		app.writeJSON(w, r, http.StatusMethodNotAllowed, subscribe.Result{
			Success: false,
			Message: "",
			Error:   i18n.T(ctx, i18n.MsgSubscribeMethodNotAllowed),
		})
		return
	}

	var req subscribe.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		err = subscribe.InternalError(errors.Wrap(err, "decode subscribe request"))
		app.logger.LogAttrs(ctx, slog.LevelError, "invalid subscribe request", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, subscribe.Result{
			Success: false,
			Message: "",
			Error:   i18n.T(ctx, i18n.MsgSubscribeServerError),
		})
		return
	}

	res, err := app.subscriptions.Submit(ctx, req)
	app.writeJSON(w, r, subscribeStatus(err), res)
}

// subscribeForm handles the subscription form on the reading page. htmx requests get the result
// fragment, plain form posts get the reading page re-rendered with the result.
func (app *application) subscribeForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := subscribe.Request{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}
	res, err := app.subscriptions.Submit(ctx, req)

	if app.htmx.NewHandler(w, r).IsHxRequest() {
		// htmx does not swap error responses, so validation failures are rendered with 200.
		app.renderPartial(w, r, http.StatusOK, "reading", "subscribe-result", res)
		return
	}

	st := app.revealState(ctx)
	s, getErr := app.catalog.Get(st.ScenarioID)
	if getErr != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := readingTemplateData{
		revealTemplateData: newRevealTemplateData(s, reveal.Resume(s, st, nil), -1),
		Base:               app.newBaseTemplateData(r),
		Subscribe:          &res,
	}
	app.render(w, r, subscribeStatus(err), "reading", data)
}

func subscribeStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, subscribe.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
