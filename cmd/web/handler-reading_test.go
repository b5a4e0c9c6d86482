package main

import (
	"context"
	"encoding/json"
	"github.com/PuerkitoBio/goquery"
	"github.com/ceotarot/ceotarot/internal/e2etest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	neturl "net/url"
	"testing"
)

const (
	scenarioID  = "cashflow"
	readingURL  = "/scenarios/" + scenarioID
	selectURL   = readingURL + "/select"
	flipURL     = readingURL + "/flip"
	continueURL = readingURL + "/continue"
	imageURL    = readingURL + "/image-ready"
)

// postReveal posts an htmx transition with the CSRF token of the reading page and returns the
// response and the swapped fragment.
func postReveal(t *testing.T, client *e2etest.Client, csrfToken string, path string, values neturl.Values) (*http.Response, *goquery.Document) {
	t.Helper()
	if values == nil {
		values = neturl.Values{}
	}
	values.Set("csrf_token", csrfToken)
	resp, err := client.PostForm(context.Background(), path, values, true)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp, doc
}

func playedSound(t *testing.T, resp *http.Response) string {
	t.Helper()
	trigger := resp.Header.Get("HX-Trigger")
	if trigger == "" {
		return ""
	}
	var events map[string]string
	require.NoError(t, json.Unmarshal([]byte(trigger), &events))
	return events["play-sound"]
}

func Test_application_revealFlow(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	home, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	csrfToken, err := e2etest.ExtractCSRFToken(home, selectURL)
	require.NoError(t, err)

	resp, err := client.PostForm(ctx, selectURL, neturl.Values{"csrf_token": {csrfToken}}, false)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, readingURL, resp.Header.Get("Location"))

	doc, err := client.GetDoc(ctx, readingURL)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("#reveal.phase-back").Length())
	flipButton := doc.Find("#flip-button")
	require.Equal(t, 1, flipButton.Length())
	_, disabled := flipButton.Attr("disabled")
	assert.True(t, disabled, "flip is disabled until the image is ready")
	assert.Equal(t, 0, doc.Find("p.line").Length(), "content is rendered only after the flip")

	csrfToken, err = e2etest.ExtractCSRFToken(doc, flipURL)
	require.NoError(t, err)

	t.Run("flip before the image is ready does nothing", func(t *testing.T) {
		resp, fragment := postReveal(t, client, csrfToken, flipURL, nil)
		assert.Empty(t, playedSound(t, resp))
		assert.Equal(t, 1, fragment.Find("#reveal.phase-back").Length())
	})

	resp, fragment := postReveal(t, client, csrfToken, imageURL, nil)
	assert.Empty(t, playedSound(t, resp))
	flipButton = fragment.Find("#flip-button")
	_, disabled = flipButton.Attr("disabled")
	assert.False(t, disabled)
	assert.Equal(t, 1, flipButton.Filter("button.btn-gold").Length())

	resp, fragment = postReveal(t, client, csrfToken, flipURL, nil)
	assert.Equal(t, "card-flip", playedSound(t, resp))
	require.Equal(t, 1, fragment.Find("#reveal.phase-flipped").Length())
	lines := fragment.Find("p.line")
	total := lines.Length()
	require.Positive(t, total)
	assert.Equal(t, total, fragment.Find("p.line.masked").Length(), "nothing is revealed by the flip")
	assert.Equal(t, 1, fragment.Find(".glass-panel.rational").Length())

	t.Run("second flip is a no-op", func(t *testing.T) {
		resp, _ := postReveal(t, client, csrfToken, flipURL, nil)
		assert.Empty(t, playedSound(t, resp))
	})

	// 300px viewport reveals ten lines per step.
	resp, fragment = postReveal(t, client, csrfToken, continueURL, neturl.Values{"viewport_height": {"300"}})
	assert.Equal(t, "page-turn", playedSound(t, resp))
	revealed := total - fragment.Find("p.line.masked").Length()
	assert.Equal(t, min(10, total), revealed)
	firstNew, _ := fragment.Find("article.emotional").Attr("data-first-new-line")
	assert.Equal(t, "0", firstNew)

	for steps := 0; fragment.Find("#continue-button").Length() > 0; steps++ {
		require.Less(t, steps, total, "reveal never finished")
		resp, fragment = postReveal(t, client, csrfToken, continueURL, nil)
		assert.Equal(t, "page-turn", playedSound(t, resp))
	}
	assert.Equal(t, 0, fragment.Find("p.line.masked").Length())

	t.Run("continue after the end does nothing", func(t *testing.T) {
		resp, _ := postReveal(t, client, csrfToken, continueURL, nil)
		assert.Empty(t, playedSound(t, resp))
	})

	t.Run("reading survives a reload", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, readingURL)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Find("#reveal.phase-flipped").Length())
		assert.Equal(t, 0, doc.Find("p.line.masked").Length())
	})

	t.Run("reset starts over", func(t *testing.T) {
		resp, err := client.PostForm(ctx, "/reset", neturl.Values{"csrf_token": {csrfToken}}, false)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		doc, err := client.GetDoc(ctx, readingURL)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Find("#reveal.phase-back").Length())
	})
}

func Test_application_revealWithoutHTMX(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	doc, err := client.GetDoc(ctx, readingURL)
	require.NoError(t, err)
	csrfToken, err := e2etest.ExtractCSRFToken(doc, flipURL)
	require.NoError(t, err)

	for _, path := range []string{imageURL, flipURL} {
		resp, postErr := client.PostForm(ctx, path, neturl.Values{"csrf_token": {csrfToken}}, false)
		require.NoError(t, postErr)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, readingURL, resp.Header.Get("Location"))
	}

	doc, err = client.GetDoc(ctx, readingURL)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#reveal.phase-flipped").Length())
}

func Test_application_revealErrors(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.Client()

	t.Run("unknown scenario", func(t *testing.T) {
		resp, err := client.Get(ctx, "/scenarios/does-not-exist")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing CSRF token", func(t *testing.T) {
		resp, err := client.PostForm(ctx, flipURL, neturl.Values{}, true)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("card image placeholder", func(t *testing.T) {
		resp, err := client.Get(ctx, readingURL+"/card-image")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Location"))
	})
}
