// Package leads reads the subscriptions kept in the SQLite ledger.
package leads

import (
	"fmt"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/logging"
	"github.com/ceotarot/ceotarot/internal/repositories"
	"github.com/ceotarot/ceotarot/internal/sqlite"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
	"time"
)

var Group = &cobra.Group{
	ID:    "leads",
	Title: "Lead operations",
}

func init() {
	List.Flags().String("sqlite-url", os.Getenv("CEOTAROT_LEDGER_SQLITE_URL"), "lead database")
	List.Flags().Int("limit", 50, "maximum number of leads to show") //nolint:mnd // one screen
}

var List = &cobra.Command{
	Use:     "ls",
	GroupID: "leads",
	Short:   "List the newest leads",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			url   string
			limit int
			db    *sqlite.Database
			err   error
		)
		if url, err = cmd.Flags().GetString("sqlite-url"); err != nil {
			return errors.Wrap(err, "invalid sqlite-url flag")
		}
		if url == "" {
			return errors.New("no lead database, set --sqlite-url or CEOTAROT_LEDGER_SQLITE_URL")
		}
		if limit, err = cmd.Flags().GetInt("limit"); err != nil {
			return errors.Wrap(err, "invalid limit flag")
		}

		ctx := cmd.Context()
		logger := logging.NewLogger(cmd.ErrOrStderr(), slog.LevelWarn)
		if db, err = sqlite.Open(ctx, url, logger); err != nil {
			return errors.Wrap(err, "open lead database")
		}
		defer func() {
			_ = db.Close()
		}()

		leads, err := repositories.NewLeadRepository(db, logger).List(ctx, limit)
		if err != nil {
			return errors.Wrap(err, "list leads")
		}
		out := cmd.OutOrStdout()
		for _, l := range leads {
			_, _ = fmt.Fprintln(out, color.HiBlackString(l.SubmittedAt.Local().Format(time.DateTime))+"  "+
				color.HiWhiteString(l.Name)+"  "+color.CyanString(l.Email))
		}
		_, _ = fmt.Fprintf(out, "%d leads\n", len(leads))
		return nil
	},
}
