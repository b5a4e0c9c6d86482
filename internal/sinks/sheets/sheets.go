// Package sheets appends leads as rows to a Google spreadsheet.
package sheets

import (
	"context"
	"encoding/json"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"log/slog"
	"strings"
)

const (
	// DefaultRange targets the first three columns of the first sheet regardless of its name.
	DefaultRange = "A:C"

	tokenURI = "https://oauth2.googleapis.com/token" //nolint:gosec // not a credential
)

// Config holds the spreadsheet id and one of the two supported credential forms.
type Config struct {
	SheetID string
	Range   string
	// CredentialsJSON is a complete service account key file.
	CredentialsJSON string
	// ServiceAccountEmail and PrivateKey are used when CredentialsJSON is empty.
	ServiceAccountEmail string
	// PrivateKey may contain literal "\n" sequences as commonly stored in env files.
	PrivateKey string
}

func (c Config) hasCredentials() bool {
	return c.CredentialsJSON != "" || (c.ServiceAccountEmail != "" && c.PrivateKey != "")
}

// Ledger appends leads to a spreadsheet.
type Ledger struct {
	sheetID string
	rng     string
	values  *sheets.SpreadsheetsValuesService
}

// New creates a Ledger from cfg. Without a sheet id or credentials the Ledger is returned
// unconfigured and no client is created.
func New(ctx context.Context, cfg Config) (*Ledger, error) {
	if cfg.SheetID == "" || !cfg.hasCredentials() {
		return &Ledger{sheetID: "", rng: "", values: nil}, nil
	}
	var (
		credentials []byte
		err         error
	)
	if credentials, err = credentialsJSON(cfg); err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, cfg,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// NewWithOptions creates a Ledger whose client is built from opts only. The credential fields of
// cfg are ignored.
func NewWithOptions(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Ledger, error) {
	var (
		srv *sheets.Service
		err error
	)
	if srv, err = sheets.NewService(ctx, opts...); err != nil {
		return nil, errors.Wrap(err, "new sheets service")
	}
	rng := cfg.Range
	if rng == "" {
		rng = DefaultRange
	}
	return &Ledger{sheetID: cfg.SheetID, rng: rng, values: srv.Spreadsheets.Values}, nil
}

func credentialsJSON(cfg Config) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		if !json.Valid([]byte(cfg.CredentialsJSON)) {
			return nil, errors.New("google credentials are not valid JSON")
		}
		return []byte(cfg.CredentialsJSON), nil
	}
	key := map[string]string{
		"type":         "service_account",
		"client_email": cfg.ServiceAccountEmail,
		"private_key":  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"token_uri":    tokenURI,
	}
	b, err := json.Marshal(key)
	if err != nil {
		return nil, errors.Wrap(err, "marshal service account key")
	}
	return b, nil
}

func (l *Ledger) Name() string {
	return "sheets"
}

func (l *Ledger) Configured() bool {
	return l != nil && l.values != nil && l.sheetID != ""
}

// Append adds one row of timestamp, name and email.
func (l *Ledger) Append(ctx context.Context, lead models.Lead) error {
	if !l.Configured() {
		return errors.New("sheets ledger not configured")
	}
	row := lead.Row()
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{values}} //nolint:exhaustruct // API struct
	_, err := l.values.Append(l.sheetID, l.rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrap(err, "append row", slog.String("range", l.rng))
	}
	return nil
}
