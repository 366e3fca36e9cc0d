package domain

import "time"

// TaskHistory audit record of one status transition (maps to the
// task_history table). Entries are immutable once written; they are only
// removed by the cascade when the owning task is deleted.
type TaskHistory struct {
	// Primary key
	HistoryID string `db:"history_id" json:"history_id"` // UUID, PRIMARY KEY

	// Owning task
	TaskID string `db:"task_id" json:"task_id"` // UUID, NOT NULL, FK to tasks ON DELETE CASCADE

	// PreviousStatus is nil only for the creation entry.
	PreviousStatus *string `db:"previous_status" json:"previous_status"` // VARCHAR(30), nullable
	NewStatus      string  `db:"new_status" json:"new_status"`           // VARCHAR(30), NOT NULL

	ChangedAt   time.Time `db:"changed_at" json:"changed_at"` // TIMESTAMPTZ, NOT NULL
	ChangedBy   string    `db:"changed_by" json:"changed_by"` // defaults to 'system'
	Description string    `db:"description" json:"description,omitempty"`
}

// SystemActor is recorded as changed_by when no actor is specified.
const SystemActor = "system"
