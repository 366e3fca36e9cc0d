package repository

import (
	"context"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"
)

// TasksRepository transactional store for tasks and their audit history.
//
// CreateTask and UpdateTask persist the task row and append the history
// entry inside one transaction: either both become visible or neither.
// The spreadsheet ledger is explicitly outside that boundary.
type TasksRepository interface {
	// CreateTask inserts the task and its creation history entry.
	// Fills TaskID, CreatedAt, UpdatedAt on the task and HistoryID,
	// TaskID, ChangedAt on the entry.
	CreateTask(ctx context.Context, task *domain.Task, entry *domain.TaskHistory) error

	// GetTask returns the task or domain.ErrTaskNotFound.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// UpdateTask overwrites every mutable column and appends one history
	// entry. Refreshes UpdatedAt on the task and fills HistoryID,
	// ChangedAt on the entry. Returns domain.ErrTaskNotFound when absent.
	UpdateTask(ctx context.Context, task *domain.Task, entry *domain.TaskHistory) error

	// DeleteTask removes the task; history rows cascade with it.
	// Returns domain.ErrTaskNotFound when absent.
	DeleteTask(ctx context.Context, taskID string) error

	// ListTasks returns all tasks ordered by created_at. Attribute
	// filtering happens in the service layer; listings are a full scan.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// ListTasksByPatient returns tasks referencing one patient identifier.
	ListTasksByPatient(ctx context.Context, patientIdentifier string) ([]*domain.Task, error)

	// ListTasksByPatients returns tasks whose patient identifier is in
	// the given set. An empty set yields an empty slice, no error.
	ListTasksByPatients(ctx context.Context, patientIdentifiers []string) ([]*domain.Task, error)

	// ListHistory returns the audit trail ordered by changed_at ascending.
	// Does not check task existence; callers decide 404 semantics.
	ListHistory(ctx context.Context, taskID string) ([]*domain.TaskHistory, error)

	// TaskExists reports whether a task row exists.
	TaskExists(ctx context.Context, taskID string) (bool, error)
}
