package main

import (
	"context"
	"encoding/json"
	"github.com/ceotarot/ceotarot/internal/e2etest"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/logging"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// TestPages checks that the scenario list renders and the first reading can be opened.
func TestPages(ctx context.Context, client *e2etest.Client) error {
	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get home")
	}
	form := doc.Find("form.scenario-select").First()
	id, ok := form.Attr("data-scenario")
	if !ok {
		return errors.New("no scenarios listed")
	}
	if _, err = client.GetDoc(ctx, "/scenarios/"+id); err != nil {
		return errors.Wrap(err, "get reading", slog.String("scenario", id))
	}
	return nil
}

// TestSubscribeAPI sends an invalid subscription, which must be rejected without reaching any sink.
func TestSubscribeAPI(ctx context.Context, client *e2etest.Client) error {
	resp, err := client.PostJSON(ctx, http.MethodPost, "/api/subscribe", map[string]string{
		"name":  "smoketest",
		"email": "not-an-email",
	})
	if err != nil {
		return errors.Wrap(err, "post subscribe")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusBadRequest {
		return errors.New("unexpected status", slog.Int("status", resp.StatusCode))
	}
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if body.Success || body.Error == "" {
		return errors.New("validation error missing from response")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second) //nolint:mnd // 30 seconds
	defer cancel()

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1) //nolint:gocritic // cancel is not needed when exiting
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error waiting for health", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPages(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing pages", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestSubscribeAPI(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing subscribe API", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
}
