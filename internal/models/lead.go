package models

import "time"

// Lead is a captured name and email pair from a site visitor.
type Lead struct {
	SubmittedAt time.Time `db:"submitted_at"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
}

// Row returns the lead as a ledger row in the canonical column order: timestamp, name, email.
func (l Lead) Row() []string {
	return []string{l.SubmittedAt.UTC().Format(time.RFC3339), l.Name, l.Email}
}
