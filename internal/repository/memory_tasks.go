package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"

	"github.com/google/uuid"
)

// MemoryTasksRepository in-memory TasksRepository for tests and local
// runs without a database. Same contract as the Postgres implementation,
// including the atomic task+history writes.
type MemoryTasksRepository struct {
	mu      sync.RWMutex
	tasks   map[string]domain.Task
	history map[string][]domain.TaskHistory // taskID -> entries, append order
	clock   func() time.Time
}

func NewMemoryTasksRepository() *MemoryTasksRepository {
	return &MemoryTasksRepository{
		tasks:   map[string]domain.Task{},
		history: map[string][]domain.TaskHistory{},
		clock:   time.Now,
	}
}

var _ TasksRepository = (*MemoryTasksRepository)(nil)

func (r *MemoryTasksRepository) CreateTask(_ context.Context, task *domain.Task, entry *domain.TaskHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	task.TaskID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.TaskID] = *task

	r.appendHistoryLocked(task.TaskID, entry, now)
	return nil
}

func (r *MemoryTasksRepository) GetTask(_ context.Context, taskID string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r *MemoryTasksRepository) UpdateTask(_ context.Context, task *domain.Task, entry *domain.TaskHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.TaskID]
	if !ok {
		return domain.ErrTaskNotFound
	}

	now := r.clock()
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = now
	r.tasks[task.TaskID] = *task

	r.appendHistoryLocked(task.TaskID, entry, now)
	return nil
}

func (r *MemoryTasksRepository) DeleteTask(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	delete(r.history, taskID) // cascade
	return nil
}

func (r *MemoryTasksRepository) ListTasks(_ context.Context) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(domain.Task) bool { return true }), nil
}

func (r *MemoryTasksRepository) ListTasksByPatient(_ context.Context, patientIdentifier string) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(t domain.Task) bool {
		return t.PatientIdentifier == patientIdentifier
	}), nil
}

func (r *MemoryTasksRepository) ListTasksByPatients(_ context.Context, patientIdentifiers []string) ([]*domain.Task, error) {
	if len(patientIdentifiers) == 0 {
		return []*domain.Task{}, nil
	}
	members := make(map[string]struct{}, len(patientIdentifiers))
	for _, id := range patientIdentifiers {
		members[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collectLocked(func(t domain.Task) bool {
		_, ok := members[t.PatientIdentifier]
		return ok
	}), nil
}

func (r *MemoryTasksRepository) ListHistory(_ context.Context, taskID string) ([]*domain.TaskHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.history[taskID]
	out := make([]*domain.TaskHistory, 0, len(entries))
	for i := range entries {
		e := entries[i]
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChangedAt.Before(out[j].ChangedAt)
	})
	return out, nil
}

func (r *MemoryTasksRepository) TaskExists(_ context.Context, taskID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tasks[taskID]
	return ok, nil
}

func (r *MemoryTasksRepository) collectLocked(keep func(domain.Task) bool) []*domain.Task {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if keep(t) {
			c := t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *MemoryTasksRepository) appendHistoryLocked(taskID string, entry *domain.TaskHistory, at time.Time) {
	entry.HistoryID = uuid.NewString()
	entry.TaskID = taskID
	entry.ChangedAt = at
	if entry.ChangedBy == "" {
		entry.ChangedBy = domain.SystemActor
	}
	r.history[taskID] = append(r.history[taskID], *entry)
}
