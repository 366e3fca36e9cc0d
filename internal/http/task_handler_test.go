package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"
	"github.com/xiomaraocampoh/prubaserviconli/internal/ledger"
	"github.com/xiomaraocampoh/prubaserviconli/internal/repository"
	"github.com/xiomaraocampoh/prubaserviconli/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const testSheet = "CITAS TEST"

// stubDirectory canned patient registry for handler tests.
type stubDirectory struct {
	patients map[string]*domain.PatientSummary
	names    map[string][]string
}

func (d *stubDirectory) FetchByID(_ context.Context, id string) (*domain.PatientSummary, error) {
	p, ok := d.patients[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	c := *p
	return &c, nil
}

func (d *stubDirectory) SearchIDsByName(_ context.Context, name string) ([]string, error) {
	return d.names[name], nil
}

type fixture struct {
	router     *Router
	ledgerPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()

	repo := repository.NewMemoryTasksRepository()
	dir := &stubDirectory{
		patients: map[string]*domain.PatientSummary{
			"P1": {
				PatientType:       domain.PatientPrimaryMember,
				IDType:            "CC",
				IDNumber:          "P1",
				FullName:          "Ana Gomez",
				Phone:             "3001234567",
				Email:             "ana@example.com",
				Relationship:      "SELF",
				InsuranceProvider: "SaludTotal",
			},
		},
		names: map[string][]string{"gomez": {"P1"}},
	}
	ledgerPath := filepath.Join(t.TempDir(), "citas.xlsx")
	mirror := ledger.NewExcelLedger(ledgerPath, testSheet, log)

	svc := service.NewTaskService(repo, dir, mirror, log)
	router := NewRouter(log)
	router.RegisterTaskRoutes(NewTasksHandler(svc, log))
	router.RegisterHealthRoutes()

	return &fixture{router: router, ledgerPath: ledgerPath}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) ledgerRows(t *testing.T) [][]string {
	t.Helper()
	file, err := excelize.OpenFile(f.ledgerPath)
	require.NoError(t, err)
	defer file.Close()
	rows, err := file.GetRows(testSheet)
	require.NoError(t, err)
	return rows
}

func createBody() map[string]any {
	return map[string]any{
		"patient_identifier": "P1",
		"appointment_type":   "SPECIALIST",
		"priority":           "HIGH",
		"status":             "RECEIVED",
		"specialty":          "Cardiology",
	}
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)

	// create
	rec := f.do(t, http.MethodPost, "/api/v1/tasks", createBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeTask(t, rec)
	taskID, _ := created["task_id"].(string)
	require.NotEmpty(t, taskID)
	assert.Equal(t, "RECEIVED", created["status"])
	patient, _ := created["patient"].(map[string]any)
	require.NotNil(t, patient)
	assert.Equal(t, "Ana Gomez", patient["full_name"])

	rows := f.ledgerRows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, taskID, rows[1][ledger.CellTaskID])
	assert.Equal(t, "P1", rows[1][ledger.CellBillingIDNumber])

	// update to SCHEDULED with an appointment date
	update := createBody()
	delete(update, "patient_identifier")
	update["status"] = "SCHEDULED"
	update["appointment_date"] = "2025-03-01"
	rec = f.do(t, http.MethodPut, "/api/v1/tasks/"+taskID, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeTask(t, rec)
	assert.Equal(t, "SCHEDULED", updated["status"])

	rows = f.ledgerRows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, "SCHEDULED", rows[1][ledger.CellStatus])
	assert.Equal(t, "2025-03-01", rows[1][ledger.CellAppointmentDate])

	// history has two entries in order
	rec = f.do(t, http.MethodGet, "/api/v1/tasks/"+taskID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0]["previous_status"])
	assert.Equal(t, "RECEIVED", entries[0]["new_status"])
	assert.Equal(t, "RECEIVED", entries[1]["previous_status"])
	assert.Equal(t, "SCHEDULED", entries[1]["new_status"])

	// delete
	rec = f.do(t, http.MethodDelete, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/tasks/"+taskID+"/history", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// tombstoned, not removed
	rows = f.ledgerRows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, ledger.DeletedMarker, rows[1][ledger.CellTaskID])
	assert.Equal(t, "SCHEDULED", rows[1][ledger.CellStatus])
}

func TestCreateTaskUnknownPatientIs404(t *testing.T) {
	f := newFixture(t)
	body := createBody()
	body["patient_identifier"] = "missing"

	rec := f.do(t, http.MethodPost, "/api/v1/tasks", body)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTaskValidationIs400(t *testing.T) {
	f := newFixture(t)
	body := createBody()
	delete(body, "status")

	rec := f.do(t, http.MethodPost, "/api/v1/tasks", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTaskMalformedBodyIs400(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownTaskIs404(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/v1/tasks/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUnknownTaskIs404(t *testing.T) {
	f := newFixture(t)
	update := createBody()
	delete(update, "patient_identifier")
	rec := f.do(t, http.MethodPut, "/api/v1/tasks/nope", update)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUnknownTaskIs404(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodDelete, "/api/v1/tasks/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTasksWithFilters(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/tasks", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	low := createBody()
	low["priority"] = "LOW"
	rec = f.do(t, http.MethodPost, "/api/v1/tasks", low)
	require.Equal(t, http.StatusCreated, rec.Code)

	var list []map[string]any

	rec = f.do(t, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = f.do(t, http.MethodGet, "/api/v1/tasks?priority=HIGH", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = f.do(t, http.MethodGet, "/api/v1/tasks?priority=HIGH&status=SCHEDULED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestSearchByPatientIdentifierAndName(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/tasks", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var list []map[string]any

	rec = f.do(t, http.MethodGet, "/api/v1/tasks?patient_identifier=P1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = f.do(t, http.MethodGet, "/api/v1/tasks?patient_name=gomez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// no registry matches: empty list, 200
	rec = f.do(t, http.MethodGet, "/api/v1/tasks?patient_name=nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPatch, "/api/v1/tasks/abc", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
