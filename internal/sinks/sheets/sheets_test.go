package sheets_test

import (
	"context"
	"encoding/json"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/ceotarot/ceotarot/internal/sinks/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew_unconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  sheets.Config
	}{
		{name: "empty", cfg: sheets.Config{}},
		{name: "no credentials", cfg: sheets.Config{SheetID: "abc"}},
		{name: "email without key", cfg: sheets.Config{SheetID: "abc", ServiceAccountEmail: "a@b.iam"}},
		{name: "credentials without sheet", cfg: sheets.Config{CredentialsJSON: "{}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := sheets.New(context.Background(), tt.cfg)
			require.NoError(t, err)
			require.False(t, l.Configured())
			require.Error(t, l.Append(context.Background(), models.Lead{}))
		})
	}
}

func TestNew_invalidCredentials(t *testing.T) {
	_, err := sheets.New(context.Background(), sheets.Config{SheetID: "abc", CredentialsJSON: "not json"})
	require.Error(t, err)
}

func TestLedger_Append(t *testing.T) {
	type appendBody struct {
		Values [][]string `json:"values"`
	}
	var (
		gotPath  string
		gotQuery string
		gotBody  appendBody
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	}))
	defer srv.Close()

	l, err := sheets.NewWithOptions(context.Background(), sheets.Config{SheetID: "sheet-123"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	require.True(t, l.Configured())
	require.Equal(t, "sheets", l.Name())

	lead := models.Lead{
		SubmittedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Name:        "김사장",
		Email:       "ceo@example.com",
	}
	require.NoError(t, l.Append(context.Background(), lead))

	require.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
	require.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	require.Contains(t, gotPath, sheets.DefaultRange)
	require.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	require.Equal(t, [][]string{{"2025-01-02T03:04:05Z", "김사장", "ceo@example.com"}}, gotBody.Values)
}

func TestLedger_AppendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	}))
	defer srv.Close()

	l, err := sheets.NewWithOptions(context.Background(), sheets.Config{SheetID: "sheet-123", Range: "Sheet1!A:C"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	err = l.Append(context.Background(), models.Lead{SubmittedAt: time.Now(), Name: "n", Email: "e@x"})
	require.ErrorContains(t, err, "permission")
}
