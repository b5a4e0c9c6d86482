package main

import (
	"github.com/ceotarot/ceotarot/internal/i18n"
	"net/http"
)

type shareTemplateData struct {
	Title  string
	Text   string
	URL    string
	Copied string
}

// BaseTemplateData is embedded in every page's template data as Base.
type BaseTemplateData struct {
	Lang  string
	Share shareTemplateData
}

func (app *application) newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	return BaseTemplateData{
		Lang: i18n.Language(ctx).String(),
		Share: shareTemplateData{
			Title:  i18n.T(ctx, i18n.MsgShareTitle),
			Text:   i18n.T(ctx, i18n.MsgShareText),
			URL:    app.shareURL,
			Copied: i18n.T(ctx, i18n.MsgShareCopied),
		},
	}
}
