package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"

	"github.com/lib/pq"
)

// PostgresTasksRepository tasks/history repository backed by PostgreSQL.
type PostgresTasksRepository struct {
	db *sql.DB
}

// NewPostgresTasksRepository creates the Postgres tasks repository.
func NewPostgresTasksRepository(db *sql.DB) *PostgresTasksRepository {
	return &PostgresTasksRepository{db: db}
}

var _ TasksRepository = (*PostgresTasksRepository)(nil)

const taskColumns = `
	task_id::text,
	patient_identifier,
	appointment_type,
	specialty,
	authorization_code,
	order_code,
	filing_code,
	priority,
	specification_notes,
	progress_notes,
	status,
	request_date,
	appointment_date,
	appointment_time,
	doctor,
	appointment_address,
	appointment_place,
	appointment_info,
	confirmation_text,
	created_at,
	updated_at`

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.TaskID,
		&t.PatientIdentifier,
		&t.AppointmentType,
		&t.Specialty,
		&t.AuthorizationCode,
		&t.OrderCode,
		&t.FilingCode,
		&t.Priority,
		&t.SpecificationNotes,
		&t.ProgressNotes,
		&t.Status,
		&t.RequestDate,
		&t.AppointmentDate,
		&t.AppointmentTime,
		&t.Doctor,
		&t.AppointmentAddress,
		&t.AppointmentPlace,
		&t.AppointmentInfo,
		&t.ConfirmationText,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask inserts the task and its creation history entry in one
// transaction.
func (r *PostgresTasksRepository) CreateTask(ctx context.Context, task *domain.Task, entry *domain.TaskHistory) error {
	if task.PatientIdentifier == "" {
		return fmt.Errorf("patient_identifier is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (
			patient_identifier,
			appointment_type,
			specialty,
			authorization_code,
			order_code,
			filing_code,
			priority,
			specification_notes,
			progress_notes,
			status,
			request_date,
			appointment_date,
			appointment_time,
			doctor,
			appointment_address,
			appointment_place,
			appointment_info,
			confirmation_text
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING task_id::text, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		task.PatientIdentifier,
		task.AppointmentType,
		task.Specialty,
		task.AuthorizationCode,
		task.OrderCode,
		task.FilingCode,
		task.Priority,
		task.SpecificationNotes,
		task.ProgressNotes,
		task.Status,
		task.RequestDate,
		task.AppointmentDate,
		task.AppointmentTime,
		task.Doctor,
		task.AppointmentAddress,
		task.AppointmentPlace,
		task.AppointmentInfo,
		task.ConfirmationText,
	).Scan(&task.TaskID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	entry.TaskID = task.TaskID
	if err := insertHistoryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task creation: %w", err)
	}
	return nil
}

// GetTask returns the task or domain.ErrTaskNotFound.
func (r *PostgresTasksRepository) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask overwrites every mutable column and appends the history
// entry in one transaction.
func (r *PostgresTasksRepository) UpdateTask(ctx context.Context, task *domain.Task, entry *domain.TaskHistory) error {
	if task.TaskID == "" {
		return domain.ErrTaskNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks
		SET
			appointment_type = $2,
			specialty = $3,
			authorization_code = $4,
			order_code = $5,
			filing_code = $6,
			priority = $7,
			specification_notes = $8,
			progress_notes = $9,
			status = $10,
			request_date = $11,
			appointment_date = $12,
			appointment_time = $13,
			doctor = $14,
			appointment_address = $15,
			appointment_place = $16,
			appointment_info = $17,
			confirmation_text = $18,
			updated_at = now()
		WHERE task_id = $1
		RETURNING updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		task.TaskID,
		task.AppointmentType,
		task.Specialty,
		task.AuthorizationCode,
		task.OrderCode,
		task.FilingCode,
		task.Priority,
		task.SpecificationNotes,
		task.ProgressNotes,
		task.Status,
		task.RequestDate,
		task.AppointmentDate,
		task.AppointmentTime,
		task.Doctor,
		task.AppointmentAddress,
		task.AppointmentPlace,
		task.AppointmentInfo,
		task.ConfirmationText,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	entry.TaskID = task.TaskID
	if err := insertHistoryTx(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task update: %w", err)
	}
	return nil
}

// DeleteTask removes the task; history rows go with it via
// ON DELETE CASCADE.
func (r *PostgresTasksRepository) DeleteTask(ctx context.Context, taskID string) error {
	if taskID == "" {
		return domain.ErrTaskNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ListTasks returns all tasks ordered by creation time.
func (r *PostgresTasksRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at`
	return r.queryTasks(ctx, query)
}

// ListTasksByPatient returns tasks for one patient identifier.
func (r *PostgresTasksRepository) ListTasksByPatient(ctx context.Context, patientIdentifier string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE patient_identifier = $1 ORDER BY created_at`
	return r.queryTasks(ctx, query, patientIdentifier)
}

// ListTasksByPatients returns tasks whose patient identifier is in the set.
func (r *PostgresTasksRepository) ListTasksByPatients(ctx context.Context, patientIdentifiers []string) ([]*domain.Task, error) {
	if len(patientIdentifiers) == 0 {
		return []*domain.Task{}, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE patient_identifier = ANY($1) ORDER BY created_at`
	return r.queryTasks(ctx, query, pq.Array(patientIdentifiers))
}

func (r *PostgresTasksRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// ListHistory returns the audit trail ordered by changed_at ascending.
func (r *PostgresTasksRepository) ListHistory(ctx context.Context, taskID string) ([]*domain.TaskHistory, error) {
	query := `
		SELECT
			history_id::text,
			task_id::text,
			previous_status,
			new_status,
			changed_at,
			changed_by,
			description
		FROM task_history
		WHERE task_id = $1
		ORDER BY changed_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	defer rows.Close()

	entries := []*domain.TaskHistory{}
	for rows.Next() {
		var e domain.TaskHistory
		var previous sql.NullString
		if err := rows.Scan(
			&e.HistoryID,
			&e.TaskID,
			&previous,
			&e.NewStatus,
			&e.ChangedAt,
			&e.ChangedBy,
			&e.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if previous.Valid {
			e.PreviousStatus = &previous.String
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task history: %w", err)
	}
	return entries, nil
}

// TaskExists reports whether a task row exists.
func (r *PostgresTasksRepository) TaskExists(ctx context.Context, taskID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tasks WHERE task_id = $1)`, taskID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", err)
	}
	return exists, nil
}

func insertHistoryTx(ctx context.Context, tx *sql.Tx, entry *domain.TaskHistory) error {
	if entry.ChangedBy == "" {
		entry.ChangedBy = domain.SystemActor
	}

	var previous any
	if entry.PreviousStatus != nil {
		previous = *entry.PreviousStatus
	}

	query := `
		INSERT INTO task_history (
			task_id,
			previous_status,
			new_status,
			changed_by,
			description
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING history_id::text, changed_at
	`

	err := tx.QueryRowContext(ctx, query,
		entry.TaskID,
		previous,
		entry.NewStatus,
		entry.ChangedBy,
		entry.Description,
	).Scan(&entry.HistoryID, &entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}
