package repository

import (
	"context"
	"testing"
	"time"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memTask(patientID string) *domain.Task {
	return &domain.Task{
		PatientIdentifier: patientID,
		AppointmentType:   domain.AppointmentExam,
		Priority:          domain.PriorityMedium,
		Status:            domain.StatusReceived,
	}
}

func memEntry(newStatus string) *domain.TaskHistory {
	return &domain.TaskHistory{NewStatus: newStatus, Description: "task created"}
}

func TestMemoryCreateAssignsIDsAndTimestamps(t *testing.T) {
	repo := NewMemoryTasksRepository()
	ctx := context.Background()

	task := memTask("P1")
	entry := memEntry(domain.StatusReceived)
	require.NoError(t, repo.CreateTask(ctx, task, entry))

	assert.NotEmpty(t, task.TaskID)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.NotEmpty(t, entry.HistoryID)
	assert.Equal(t, task.TaskID, entry.TaskID)
	assert.Equal(t, domain.SystemActor, entry.ChangedBy)
}

func TestMemoryUpdatePreservesCreatedAt(t *testing.T) {
	repo := NewMemoryTasksRepository()
	ctx := context.Background()

	task := memTask("P1")
	require.NoError(t, repo.CreateTask(ctx, task, memEntry(domain.StatusReceived)))
	createdAt := task.CreatedAt

	task.Status = domain.StatusInProgress
	task.CreatedAt = time.Time{} // callers may not carry it; the repo restores it
	require.NoError(t, repo.UpdateTask(ctx, task, memEntry(domain.StatusInProgress)))

	got, err := repo.GetTask(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestMemoryUpdateUnknownTask(t *testing.T) {
	repo := NewMemoryTasksRepository()
	task := memTask("P1")
	task.TaskID = "missing"
	err := repo.UpdateTask(context.Background(), task, memEntry(domain.StatusInProgress))
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestMemoryDeleteCascadesHistory(t *testing.T) {
	repo := NewMemoryTasksRepository()
	ctx := context.Background()

	task := memTask("P1")
	require.NoError(t, repo.CreateTask(ctx, task, memEntry(domain.StatusReceived)))
	require.NoError(t, repo.DeleteTask(ctx, task.TaskID))

	_, err := repo.GetTask(ctx, task.TaskID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	entries, err := repo.ListHistory(ctx, task.TaskID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, repo.DeleteTask(ctx, task.TaskID), domain.ErrTaskNotFound)
}

func TestMemoryListOrderedByCreation(t *testing.T) {
	repo := NewMemoryTasksRepository()
	ctx := context.Background()

	ts := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	}

	for _, pid := range []string{"P1", "P2", "P1"} {
		require.NoError(t, repo.CreateTask(ctx, memTask(pid), memEntry(domain.StatusReceived)))
	}

	all, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.Before(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.Before(all[2].CreatedAt))

	mine, err := repo.ListTasksByPatient(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	some, err := repo.ListTasksByPatients(ctx, []string{"P2"})
	require.NoError(t, err)
	assert.Len(t, some, 1)

	none, err := repo.ListTasksByPatients(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
