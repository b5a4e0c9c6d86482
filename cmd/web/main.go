package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/ceotarot/ceotarot/internal/ai"
	"github.com/ceotarot/ceotarot/internal/catalog"
	"github.com/ceotarot/ceotarot/internal/envstruct"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/logging"
	"github.com/ceotarot/ceotarot/internal/pprofserver"
	"github.com/ceotarot/ceotarot/internal/repositories"
	"github.com/ceotarot/ceotarot/internal/reveal"
	"github.com/ceotarot/ceotarot/internal/sinks/email"
	"github.com/ceotarot/ceotarot/internal/sinks/sheets"
	"github.com/ceotarot/ceotarot/internal/sqlite"
	"github.com/ceotarot/ceotarot/internal/subscribe"
	"github.com/ceotarot/ceotarot/internal/telemetry"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"
)

func init() {
	gob.Register(reveal.State{})
}

type application struct {
	logger         *slog.Logger
	catalog        *catalog.Catalog
	cardImages     *ai.Client
	subscriptions  *subscribe.Service
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	templates      map[string]*template.Template
	shareURL       string
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"CEOTAROT_ADDR" envDefault:"localhost:4000"`
	// PprofAddr enables the profiler when set. Keep it on loopback, e.g. localhost:6060.
	PprofAddr string `env:"CEOTAROT_PPROF_ADDR" envDefault:""`
	// CatalogPath overrides the embedded scenario catalog.
	CatalogPath string `env:"CEOTAROT_CATALOG_PATH" envDefault:""`
	ShareURL    string `env:"CEOTAROT_SHARE_URL" envDefault:"https://www.ceotarot.space/"`
	// SinkTimeout bounds each outbound ledger or email call.
	SinkTimeout time.Duration `env:"CEOTAROT_SINK_TIMEOUT" envDefault:"5s"`
	// LedgerSQLiteURL keeps leads in SQLite when no spreadsheet is configured. Use ":memory:" for tests.
	LedgerSQLiteURL string `env:"CEOTAROT_LEDGER_SQLITE_URL" envDefault:""`
	OTelEndpoint    string `env:"CEOTAROT_OTEL_ENDPOINT" envDefault:""`

	GoogleSheetID             string `env:"GOOGLE_SHEET_ID" envDefault:""`
	GoogleSheetRange          string `env:"GOOGLE_SHEET_RANGE" envDefault:"A:C"`
	GoogleCredentials         string `env:"GOOGLE_CREDENTIALS" envDefault:""`
	GoogleServiceAccountEmail string `env:"GOOGLE_SERVICE_ACCOUNT_EMAIL" envDefault:""`
	GooglePrivateKey          string `env:"GOOGLE_PRIVATE_KEY" envDefault:""`

	ResendAPIKey    string `env:"RESEND_API_KEY" envDefault:""`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL" envDefault:""`
	ResendFromName  string `env:"RESEND_FROM_NAME" envDefault:"CEO멘탈코치"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
}

// dependencies are the sinks of the subscription service. Tests replace them with fakes.
type dependencies struct {
	ledger   subscribe.Ledger
	notifier subscribe.Notifier
}

type override func(*dependencies)

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	return runWith(ctx, logger, lookupEnv)
}

func runWith(
	ctx context.Context,
	logger *slog.Logger,
	lookupEnv func(string) (string, bool),
	overrides ...override,
) error {
	var (
		cfg       config
		err       error
		cat       *catalog.Catalog
		deps      dependencies
		templates map[string]*template.Template
		shutdown  func(context.Context) error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PprofAddr != "" {
		if _, err = pprofserver.Launch(ctx, cfg.PprofAddr, logger); err != nil {
			return errors.Wrap(err, "launch pprof server")
		}
	}

	if shutdown, err = telemetry.Setup(ctx, "ceotarot", cfg.OTelEndpoint); err != nil {
		return errors.Wrap(err, "setup telemetry")
	}
	defer func() {
		if shutdownErr := shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to flush traces",
				errors.SlogError(errors.Wrap(shutdownErr, "telemetry shutdown")))
		}
	}()

	if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
		return errors.Wrap(err, "load catalog")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded catalog",
		slog.String("version", cat.Version()), slog.Int("scenarios", cat.Len()))

	if deps, err = newDependencies(ctx, cfg, logger); err != nil {
		return err
	}
	for _, o := range overrides {
		o(&deps)
	}

	if templates, err = parseTemplates(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	// Reveal state is per visitor and short-lived, so it stays in memory.
	sessionManager := scs.New()
	sessionManager.Store = memstore.New()
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // half a day
	sessionManager.Cookie.Name = "ceotarot_session"
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	subscriptions := subscribe.NewService(deps.ledger, deps.notifier, logger, subscribe.WithSinkTimeout(cfg.SinkTimeout))
	logger.LogAttrs(ctx, slog.LevelInfo, "configured sinks",
		slog.Bool("ledger", subscriptions.LedgerConfigured()),
		slog.Bool("notifier", subscriptions.NotifierConfigured()))

	app := application{
		logger:         logger,
		catalog:        cat,
		cardImages:     ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, logger),
		subscriptions:  subscriptions,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		templates:      templates,
		shareURL:       cfg.ShareURL,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// newDependencies builds the sinks from configuration. The spreadsheet wins over SQLite as the
// ledger when both are configured.
func newDependencies(ctx context.Context, cfg config, logger *slog.Logger) (dependencies, error) {
	var (
		deps     dependencies
		ledger   *sheets.Ledger
		notifier *email.Notifier
		db       *sqlite.Database
		err      error
	)
	if ledger, err = sheets.New(ctx, sheets.Config{
		SheetID:             cfg.GoogleSheetID,
		Range:               cfg.GoogleSheetRange,
		CredentialsJSON:     cfg.GoogleCredentials,
		ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
		PrivateKey:          cfg.GooglePrivateKey,
	}); err != nil {
		return deps, errors.Wrap(err, "new sheets ledger")
	}
	deps.ledger = ledger

	if !ledger.Configured() && cfg.LedgerSQLiteURL != "" {
		if db, err = sqlite.Open(ctx, cfg.LedgerSQLiteURL, logger); err != nil {
			return deps, errors.Wrap(err, "open lead database")
		}
		go func() {
			<-ctx.Done()
			_ = db.Close()
		}()
		deps.ledger = repositories.NewLeadRepository(db, logger)
	}

	if notifier, err = email.New(email.Config{
		APIKey:    cfg.ResendAPIKey,
		FromEmail: cfg.ResendFromEmail,
		FromName:  cfg.ResendFromName,
		BaseURL:   "",
	}); err != nil {
		return deps, errors.Wrap(err, "new email notifier")
	}
	deps.notifier = notifier
	return deps, nil
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)

	// The .env file is optional, real deployments use the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
