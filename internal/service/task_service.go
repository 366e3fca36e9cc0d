package service

import (
	"context"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"
	"github.com/xiomaraocampoh/prubaserviconli/internal/ledger"
	"github.com/xiomaraocampoh/prubaserviconli/internal/repository"

	"go.uber.org/zap"
)

// TaskService task lifecycle orchestration: validates the patient
// against the remote registry, writes task + history atomically, then
// mirrors the row into the spreadsheet ledger best-effort.
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	UpdateTask(ctx context.Context, taskID string, req UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) error

	ListTasks(ctx context.Context, filters TaskFilters) ([]*TaskResponse, error)
	FindTasksByPatient(ctx context.Context, patientIdentifier string) ([]*TaskResponse, error)
	FindTasksByPatientName(ctx context.Context, namePattern string) ([]*TaskResponse, error)

	GetTaskHistory(ctx context.Context, taskID string) ([]*domain.TaskHistory, error)
}

// taskService implementation
type taskService struct {
	tasks     repository.TasksRepository
	directory PatientDirectory
	mirror    ledger.Ledger
	logger    *zap.Logger
}

// NewTaskService creates a TaskService instance.
func NewTaskService(tasks repository.TasksRepository, directory PatientDirectory, mirror ledger.Ledger, logger *zap.Logger) TaskService {
	return &taskService{
		tasks:     tasks,
		directory: directory,
		mirror:    mirror,
		logger:    logger,
	}
}

// ============================================
// Request/Response DTOs
// ============================================

// TaskFields the full mutable surface of a task. Updates are full
// replace: every field is written as received, including empty ones, so
// callers must resend complete state.
type TaskFields struct {
	AppointmentType    string `json:"appointment_type"`
	Specialty          string `json:"specialty"`
	AuthorizationCode  string `json:"authorization_code"`
	OrderCode          string `json:"order_code"`
	FilingCode         string `json:"filing_code"`
	Priority           string `json:"priority"`
	SpecificationNotes string `json:"specification_notes"`
	ProgressNotes      string `json:"progress_notes"`
	Status             string `json:"status"`
	RequestDate        string `json:"request_date"`
	AppointmentDate    string `json:"appointment_date"`
	AppointmentTime    string `json:"appointment_time"`
	Doctor             string `json:"doctor"`
	AppointmentAddress string `json:"appointment_address"`
	AppointmentPlace   string `json:"appointment_place"`
	AppointmentInfo    string `json:"appointment_info"`
	ConfirmationText   string `json:"confirmation_text"`
}

// CreateTaskRequest create payload. Status comes verbatim from the
// client; this layer never substitutes a default.
type CreateTaskRequest struct {
	PatientIdentifier string `json:"patient_identifier"`
	TaskFields
}

// UpdateTaskRequest full-replace update payload. The patient reference
// is immutable after creation.
type UpdateTaskRequest struct {
	TaskFields
}

// TaskFilters attribute filters combined as a conjunction; empty fields
// do not filter.
type TaskFilters struct {
	Status          string
	Priority        string
	AppointmentType string
}

// TaskResponse task enriched with the current patient projection.
// Patient is null when read-path enrichment was degraded by a registry
// failure; the task data itself is always authoritative.
type TaskResponse struct {
	domain.Task
	Patient *domain.PatientSummary `json:"patient"`
}

func (f TaskFields) validate() error {
	if f.AppointmentType == "" {
		return domain.NewValidationError("appointment_type", "must not be empty")
	}
	if f.Priority == "" {
		return domain.NewValidationError("priority", "must not be empty")
	}
	if f.Status == "" {
		return domain.NewValidationError("status", "must not be empty")
	}
	return nil
}

func (f TaskFields) applyTo(task *domain.Task) {
	task.AppointmentType = f.AppointmentType
	task.Specialty = f.Specialty
	task.AuthorizationCode = f.AuthorizationCode
	task.OrderCode = f.OrderCode
	task.FilingCode = f.FilingCode
	task.Priority = f.Priority
	task.SpecificationNotes = f.SpecificationNotes
	task.ProgressNotes = f.ProgressNotes
	task.Status = f.Status
	task.RequestDate = f.RequestDate
	task.AppointmentDate = f.AppointmentDate
	task.AppointmentTime = f.AppointmentTime
	task.Doctor = f.Doctor
	task.AppointmentAddress = f.AppointmentAddress
	task.AppointmentPlace = f.AppointmentPlace
	task.AppointmentInfo = f.AppointmentInfo
	task.ConfirmationText = f.ConfirmationText
}

// ============================================
// Operations
// ============================================

// CreateTask validates the patient exists, persists task + creation
// history entry atomically, then appends the ledger row best-effort.
func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if req.PatientIdentifier == "" {
		return nil, domain.NewValidationError("patient_identifier", "must not be empty")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Hard dependency on the registry here: an unknown patient or an
	// unreachable registry aborts creation outright.
	patient, err := s.directory.FetchByID(ctx, req.PatientIdentifier)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{PatientIdentifier: req.PatientIdentifier}
	req.applyTo(task)

	entry := &domain.TaskHistory{
		PreviousStatus: nil, // creation event
		NewStatus:      task.Status,
		Description:    "Task created",
	}

	if err := s.tasks.CreateTask(ctx, task, entry); err != nil {
		return nil, err
	}

	if err := s.mirror.Append(ctx, ledger.BuildRow(task, patient)); err != nil {
		s.logger.Warn("ledger append failed, local record remains authoritative",
			zap.String("task_id", task.TaskID),
			zap.Error(err),
		)
	}

	return &TaskResponse{Task: *task, Patient: patient}, nil
}

// GetTask loads the task and re-fetches the patient for enrichment.
// A registry failure degrades to a null patient projection.
func (s *taskService) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &TaskResponse{Task: *task, Patient: s.fetchPatientLenient(ctx, task)}, nil
}

// UpdateTask overwrites every mutable field, appends one history entry
// unconditionally (even when status did not change), then overwrites
// the ledger row keyed by task id.
func (s *taskService) UpdateTask(ctx context.Context, taskID string, req UpdateTaskRequest) (*TaskResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	existing, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	previousStatus := existing.Status
	task := existing
	req.applyTo(task)

	entry := &domain.TaskHistory{
		PreviousStatus: &previousStatus,
		NewStatus:      task.Status,
		Description:    "Task updated",
	}

	if err := s.tasks.UpdateTask(ctx, task, entry); err != nil {
		return nil, err
	}

	patient := s.fetchPatientLenient(ctx, task)
	if patient != nil {
		if err := s.mirror.Overwrite(ctx, task.TaskID, ledger.BuildRow(task, patient)); err != nil {
			s.logger.Warn("ledger overwrite failed, local record remains authoritative",
				zap.String("task_id", task.TaskID),
				zap.Error(err),
			)
		}
	} else {
		// Without patient data the row cannot be rebuilt; leave the last
		// consistent version in place rather than blanking its cells.
		s.logger.Warn("skipping ledger overwrite, patient enrichment unavailable",
			zap.String("task_id", task.TaskID),
			zap.String("patient_identifier", task.PatientIdentifier),
		)
	}

	return &TaskResponse{Task: *task, Patient: patient}, nil
}

// DeleteTask removes the task (history cascades) and tombstones the
// ledger row best-effort.
func (s *taskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	if err := s.mirror.Tombstone(ctx, taskID); err != nil {
		s.logger.Warn("ledger tombstone failed, local record remains authoritative",
			zap.String("task_id", taskID),
			zap.Error(err),
		)
	}
	return nil
}

// ListTasks loads all tasks and filters in memory. Fine at current
// volumes; revisit before the task table outgrows a single scan.
func (s *taskService) ListTasks(ctx context.Context, filters TaskFilters) ([]*TaskResponse, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	out := []*TaskResponse{}
	for _, task := range tasks {
		if filters.Status != "" && task.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && task.Priority != filters.Priority {
			continue
		}
		if filters.AppointmentType != "" && task.AppointmentType != filters.AppointmentType {
			continue
		}
		out = append(out, &TaskResponse{Task: *task, Patient: s.fetchPatientLenient(ctx, task)})
	}
	return out, nil
}

// FindTasksByPatient returns tasks referencing the given identifier.
func (s *taskService) FindTasksByPatient(ctx context.Context, patientIdentifier string) ([]*TaskResponse, error) {
	tasks, err := s.tasks.ListTasksByPatient(ctx, patientIdentifier)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, tasks), nil
}

// FindTasksByPatientName resolves matching patient identifiers in the
// registry first, then loads tasks for that set. Zero matches is an
// empty result, not an error. Registry resolution itself is a hard
// dependency of this query, so its failure does propagate.
func (s *taskService) FindTasksByPatientName(ctx context.Context, namePattern string) ([]*TaskResponse, error) {
	ids, err := s.directory.SearchIDsByName(ctx, namePattern)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*TaskResponse{}, nil
	}

	tasks, err := s.tasks.ListTasksByPatients(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, tasks), nil
}

// GetTaskHistory returns the audit trail ordered by changed_at ascending.
func (s *taskService) GetTaskHistory(ctx context.Context, taskID string) ([]*domain.TaskHistory, error) {
	exists, err := s.tasks.TaskExists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrTaskNotFound
	}
	return s.tasks.ListHistory(ctx, taskID)
}

// enrichAll joins each task with its current patient projection, one
// registry fetch per task. Batching would need a bulk endpoint the
// patient service does not offer.
func (s *taskService) enrichAll(ctx context.Context, tasks []*domain.Task) []*TaskResponse {
	out := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, &TaskResponse{Task: *task, Patient: s.fetchPatientLenient(ctx, task)})
	}
	return out
}

// fetchPatientLenient is the degraded-enrichment path for reads: any
// registry failure (down, or the patient since removed) yields a nil
// projection and a warning instead of failing the whole read.
func (s *taskService) fetchPatientLenient(ctx context.Context, task *domain.Task) *domain.PatientSummary {
	patient, err := s.directory.FetchByID(ctx, task.PatientIdentifier)
	if err != nil {
		s.logger.Warn("patient enrichment degraded",
			zap.String("task_id", task.TaskID),
			zap.String("patient_identifier", task.PatientIdentifier),
			zap.Error(err),
		)
		return nil
	}
	return patient
}
