package repositories

import (
	"context"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/ceotarot/ceotarot/internal/sqlite"
	"log/slog"
	"time"
)

// LeadRepository keeps leads in the local SQLite database. It serves as the ledger when no
// spreadsheet is configured.
type LeadRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewLeadRepository(db *sqlite.Database, logger *slog.Logger) *LeadRepository {
	return &LeadRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LeadRepository) Name() string {
	return "sqlite"
}

func (r *LeadRepository) Configured() bool {
	return r != nil && r.db != nil
}

// Append stores lead.
func (r *LeadRepository) Append(ctx context.Context, lead models.Lead) error {
	row := lead.Row()
	stmt := `INSERT INTO leads (submitted_at, name, email) VALUES (?, ?, ?)`
	if _, err := r.db.ReadWrite.ExecContext(ctx, stmt, row[0], row[1], row[2]); err != nil {
		return errors.Wrap(err, "insert lead")
	}
	return nil
}

type leadRow struct {
	SubmittedAt string `db:"submitted_at"`
	Name        string `db:"name"`
	Email       string `db:"email"`
}

// List returns the most recent leads first, at most limit of them.
func (r *LeadRepository) List(ctx context.Context, limit int) ([]models.Lead, error) {
	var rows []leadRow
	stmt := `SELECT submitted_at, name, email FROM leads ORDER BY submitted_at DESC, id DESC LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select leads")
	}
	leads := make([]models.Lead, 0, len(rows))
	for _, row := range rows {
		submittedAt, err := time.Parse(time.RFC3339, row.SubmittedAt)
		if err != nil {
			return nil, errors.Wrap(err, "parse submitted_at", slog.String("value", row.SubmittedAt))
		}
		leads = append(leads, models.Lead{SubmittedAt: submittedAt, Name: row.Name, Email: row.Email})
	}
	return leads, nil
}
