package main

import (
	"github.com/ceotarot/ceotarot/internal/catalog"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/ceotarot/ceotarot/internal/reveal"
	"github.com/ceotarot/ceotarot/internal/subscribe"
	"log/slog"
	"net/http"
	"strconv"
)

type revealTemplateData struct {
	Scenario     models.Scenario
	Phase        string
	Flipped      bool
	ImageReady   bool
	Lines        []reveal.Line
	FirstNewLine int
	Done         bool
}

type readingTemplateData struct {
	revealTemplateData
	Base      BaseTemplateData
	Subscribe *subscribe.Result
}

func newRevealTemplateData(s models.Scenario, m *reveal.Machine, firstNewLine int) revealTemplateData {
	st := m.State()
	return revealTemplateData{
		Scenario:     s,
		Phase:        m.Phase().String(),
		Flipped:      st.Flipped,
		ImageReady:   st.ImageReady,
		Lines:        m.Lines(),
		FirstNewLine: firstNewLine,
		Done:         m.Done(),
	}
}

func readingPath(s models.Scenario) string {
	return "/scenarios/" + s.ID
}

// scenario resolves the {id} path value. It writes a 404 and returns false for unknown scenarios.
func (app *application) scenario(w http.ResponseWriter, r *http.Request) (models.Scenario, bool) {
	s, err := app.catalog.Get(r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, catalog.ErrScenarioNotFound) {
			app.serverError(w, r, err)
			return s, false
		}
		app.notFound(w, r)
		return s, false
	}
	return s, true
}

// redirect sends the browser to target. htmx requests get an HX-Redirect so that the whole page is replaced.
func (app *application) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// selectScenario starts a new reading of the chosen scenario.
func (app *application) selectScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := app.scenario(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	app.putRevealState(ctx, reveal.New(s, nil).State())
	app.logger.LogAttrs(ctx, slog.LevelInfo, "scenario selected", slog.String("scenario", s.ID))
	app.redirect(w, r, readingPath(s))
}

func (app *application) reading(w http.ResponseWriter, r *http.Request) {
	s, ok := app.scenario(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	st := app.revealState(ctx)
	m := reveal.Resume(s, st, nil)
	if st.ScenarioID != s.ID {
		// Opened from a shared link without selecting first.
		app.putRevealState(ctx, m.State())
	}

	data := readingTemplateData{
		revealTemplateData: newRevealTemplateData(s, m, -1),
		Base:               app.newBaseTemplateData(r),
		Subscribe:          nil,
	}
	app.render(w, r, http.StatusOK, "reading", data)
}

// cardImage serves the card artwork or redirects to it.
func (app *application) cardImage(w http.ResponseWriter, r *http.Request) {
	s, ok := app.scenario(w, r)
	if !ok {
		return
	}
	img := app.cardImages.CardImage(r.Context(), s)
	if img.URL != "" {
		http.Redirect(w, r, img.URL, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(img.PNG)
}

func (app *application) imageReady(w http.ResponseWriter, r *http.Request) {
	app.step(w, r, func(m *reveal.Machine) {
		m.MarkImageReady()
	})
}

func (app *application) flip(w http.ResponseWriter, r *http.Request) {
	app.step(w, r, func(m *reveal.Machine) {
		m.Flip()
	})
}

func (app *application) continueReading(w http.ResponseWriter, r *http.Request) {
	// Missing or garbage heights fall back to the minimum step.
	viewportHeight, _ := strconv.Atoi(r.PostFormValue("viewport_height"))
	app.step(w, r, func(m *reveal.Machine) {
		m.Continue(viewportHeight)
	})
}

// step applies a transition to the visitor's reading and stores the result. htmx requests get the
// re-rendered reveal section and the audio cue, other requests are redirected back to the reading.
func (app *application) step(w http.ResponseWriter, r *http.Request, transition func(*reveal.Machine)) {
	s, ok := app.scenario(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var sound reveal.Sound
	m := reveal.Resume(s, app.revealState(ctx), func(played reveal.Sound) {
		sound = played
	})
	previous := m.RevealedLines()
	transition(m)
	app.putRevealState(ctx, m.State())

	if !app.htmx.NewHandler(w, r).IsHxRequest() {
		http.Redirect(w, r, readingPath(s), http.StatusSeeOther)
		return
	}

	if sound != "" {
		soundTrigger(w, sound)
	}
	firstNewLine := -1
	if m.RevealedLines() > previous {
		firstNewLine = m.FirstNewLine(previous)
	}
	app.renderPartial(w, r, http.StatusOK, "reading", "reveal", newRevealTemplateData(s, m, firstNewLine))
}

// reset forgets the reading and goes back to the scenario list.
func (app *application) reset(w http.ResponseWriter, r *http.Request) {
	app.clearRevealState(r.Context())
	app.redirect(w, r, "/")
}
