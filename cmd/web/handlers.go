package main

import (
	"bytes"
	"fmt"
	"github.com/ceotarot/ceotarot/internal/contexthelpers"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/ssr"
	"github.com/ceotarot/ceotarot/ui"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

// placeholderFuncs are needed at parse time. They are overridden per request in execute.
var placeholderFuncs = template.FuncMap{ //nolint:gochecknoglobals // read only
	"nonce": func() template.HTMLAttr {
		panic("not implemented")
	},
	"csrf": func() template.HTML {
		panic("not implemented")
	},
	"csrfToken": func() string {
		panic("not implemented")
	},
}

// parseTemplates parses one template set per directory in ui/templates/pages. Each set contains
// the base layout, all partials and the page files, which have to define "title" and "page".
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.ReadDir(ui.Files, "templates/pages")
	if err != nil {
		return nil, errors.Wrap(err, "read pages dir")
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if !page.IsDir() {
			continue
		}
		name := page.Name()
		var t *template.Template
		if t, err = template.New(name).Funcs(placeholderFuncs).ParseFS(ui.Files,
			"templates/base.gohtml",
			"templates/partials/*.gohtml",
			fmt.Sprintf("templates/pages/%s/*.gohtml", name),
		); err != nil {
			return nil, errors.Wrap(err, "parse page template", slog.String("page", name))
		}
		templates[name] = t
	}
	return templates, nil
}

// execute runs the named template of a page set with the request scoped functions.
func (app *application) execute(r *http.Request, page string, name string, data any) (*bytes.Buffer, error) {
	base, ok := app.templates[page]
	if !ok {
		return nil, errors.New("unknown page template", slog.String("page", page))
	}

	// The parsed set is shared between requests and is never executed itself.
	t, err := base.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone template", slog.String("page", page))
	}

	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrfToken := contexthelpers.CSRFToken(ctx)
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", template.HTMLEscapeString(csrfToken))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // the token is escaped above.
		},
		"csrfToken": func() string {
			return csrfToken
		},
	})

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		return nil, errors.Wrap(err, "execute template", slog.String("page", page), slog.String("template", name))
	}
	return buf, nil
}

// render writes a full page. The custom elements are expanded before the response is written.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	buf, err := app.execute(r, page, "base", data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	out := new(bytes.Buffer)
	if err = ssr.ReplaceCustomElementsDocument(out, buf); err != nil {
		app.serverError(w, r, errors.Wrap(err, "replace custom elements", slog.String("page", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}

// renderPartial writes a single named template of a page set as an HTML fragment for htmx swaps.
func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, status int, page string, name string, data any) {
	buf, err := app.execute(r, page, name, data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	out := new(bytes.Buffer)
	if err = ssr.ReplaceCustomElements(out, buf); err != nil {
		app.serverError(w, r, errors.Wrap(err, "replace custom elements", slog.String("template", name)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}
