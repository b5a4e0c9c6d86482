package main

import (
	"context"
	"encoding/json"
	"github.com/ceotarot/ceotarot/internal/e2etest"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "CEOTAROT_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

// startTestServer starts the web server on a free port and stops it when the test ends.
func startTestServer(t *testing.T, overrides ...override) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv,
		func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
			return runWith(ctx, logger, lookupEnv, overrides...)
		})
	require.NoError(t, err)
	return server
}

// recordingSink stands in for the spreadsheet ledger and the email notifier.
type recordingSink struct {
	name string
	err  error

	mu    sync.Mutex
	leads []models.Lead
}

func (s *recordingSink) Name() string     { return s.name }
func (s *recordingSink) Configured() bool { return true }

func (s *recordingSink) record(lead models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, lead)
	return s.err
}

func (s *recordingSink) Append(_ context.Context, lead models.Lead) error { return s.record(lead) }
func (s *recordingSink) Notify(_ context.Context, lead models.Lead) error { return s.record(lead) }

func (s *recordingSink) recorded() []models.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Lead(nil), s.leads...)
}

func withSinks(ledger *recordingSink, notifier *recordingSink) override {
	return func(d *dependencies) {
		d.ledger = ledger
		d.notifier = notifier
	}
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
