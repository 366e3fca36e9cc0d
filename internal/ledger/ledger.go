// Package ledger mirrors task state into an external spreadsheet so
// non-technical staff can follow appointments without touching the API.
// The mirror is best-effort: the database stays authoritative and every
// caller treats a failed ledger write as a logged warning, never as an
// operation failure.
package ledger

import "context"

// Ledger one denormalized row per task in an external tabular sink.
// Rows are located by scanning the terminal key cell for the task id;
// the sink has no index.
type Ledger interface {
	// Append adds a new row at the end of the sheet.
	Append(ctx context.Context, row []string) error

	// Overwrite replaces, in place, the first row whose key cell equals
	// taskID. No matching row means no change at all: the row is NOT
	// created. A task whose append was lost stays absent from the ledger
	// until deliberate repair.
	Overwrite(ctx context.Context, taskID string, row []string) error

	// Tombstone rewrites the matched row with its key cell set to the
	// DELETED marker, keeping every other cell so the ledger retains its
	// own audit trail. No-op when no row matches.
	Tombstone(ctx context.Context, taskID string) error
}
