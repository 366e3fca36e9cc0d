package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"
	"github.com/xiomaraocampoh/prubaserviconli/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// TasksHandler HTTP surface of the task lifecycle engine.
type TasksHandler struct {
	svc    service.TaskService
	logger *zap.Logger
}

// NewTasksHandler creates the tasks handler.
func NewTasksHandler(svc service.TaskService, logger *zap.Logger) *TasksHandler {
	return &TasksHandler{svc: svc, logger: logger}
}

// Collection handles /api/v1/tasks
func (h *TasksHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createTask(w, r)
	case http.MethodGet:
		h.searchTasks(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Item handles /api/v1/tasks/{id} and /api/v1/tasks/{id}/history
func (h *TasksHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks/")
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/history"); ok {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.getTaskHistory(w, r, id)
		return
	}

	if strings.Contains(rest, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getTask(w, r, rest)
	case http.MethodPut:
		h.updateTask(w, r, rest)
	case http.MethodDelete:
		h.deleteTask(w, r, rest)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// createTask POST /api/v1/tasks
func (h *TasksHandler) createTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.svc.CreateTask(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "CreateTask", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// getTask GET /api/v1/tasks/{id}
func (h *TasksHandler) getTask(w http.ResponseWriter, r *http.Request, taskID string) {
	resp, err := h.svc.GetTask(r.Context(), taskID)
	if err != nil {
		h.writeServiceError(w, "GetTask", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// updateTask PUT /api/v1/tasks/{id} — full replace, not a patch.
func (h *TasksHandler) updateTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var req service.UpdateTaskRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.svc.UpdateTask(r.Context(), taskID, req)
	if err != nil {
		h.writeServiceError(w, "UpdateTask", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// deleteTask DELETE /api/v1/tasks/{id}
func (h *TasksHandler) deleteTask(w http.ResponseWriter, r *http.Request, taskID string) {
	if err := h.svc.DeleteTask(r.Context(), taskID); err != nil {
		h.writeServiceError(w, "DeleteTask", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// searchTasks GET /api/v1/tasks with optional query params. Dispatch
// precedence: patient identifier first, then patient name, then
// attribute filters, then everything.
func (h *TasksHandler) searchTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		resp []*service.TaskResponse
		err  error
	)
	switch {
	case q.Get("patient_identifier") != "":
		resp, err = h.svc.FindTasksByPatient(r.Context(), q.Get("patient_identifier"))
	case q.Get("patient_name") != "":
		resp, err = h.svc.FindTasksByPatientName(r.Context(), q.Get("patient_name"))
	default:
		resp, err = h.svc.ListTasks(r.Context(), service.TaskFilters{
			Status:          q.Get("status"),
			Priority:        q.Get("priority"),
			AppointmentType: q.Get("appointment_type"),
		})
	}
	if err != nil {
		h.writeServiceError(w, "SearchTasks", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// getTaskHistory GET /api/v1/tasks/{id}/history
func (h *TasksHandler) getTaskHistory(w http.ResponseWriter, r *http.Request, taskID string) {
	entries, err := h.svc.GetTaskHistory(r.Context(), taskID)
	if err != nil {
		h.writeServiceError(w, "GetTaskHistory", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func (h *TasksHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, domain.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient not found")
	case errors.Is(err, domain.ErrRegistryUnavailable):
		h.logger.Error(op+" failed, patient service unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "patient service unavailable")
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
