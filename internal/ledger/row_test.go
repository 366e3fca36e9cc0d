package ledger

import (
	"testing"
	"time"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask() *domain.Task {
	return &domain.Task{
		TaskID:             "task-123",
		PatientIdentifier:  "P1",
		AppointmentType:    domain.AppointmentSpecialist,
		Specialty:          "Cardiology",
		AuthorizationCode:  "AUTH-9",
		FilingCode:         "FIL-4",
		Priority:           domain.PriorityHigh,
		SpecificationNotes: "bring previous exams",
		ProgressNotes:      "called patient",
		Status:             domain.StatusReceived,
		RequestDate:        "2025-02-10",
		AppointmentDate:    "2025-03-01",
		ConfirmationText:   "confirmed by phone",
		CreatedAt:          time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC),
	}
}

func primaryMemberPatient() *domain.PatientSummary {
	return &domain.PatientSummary{
		PatientType:       domain.PatientPrimaryMember,
		IDType:            "CC",
		IDNumber:          "P1",
		FullName:          "Ana Gomez",
		Phone:             "3001234567",
		Email:             "ana@example.com",
		Relationship:      "SELF",
		InsuranceProvider: "SaludTotal",
	}
}

func dependentPatient() *domain.PatientSummary {
	p := primaryMemberPatient()
	p.PatientType = domain.PatientDependent
	p.IDType = "TI"
	p.IDNumber = "D7"
	p.FullName = "Luis Gomez"
	p.Relationship = "CHILD"
	p.PrimaryMember = &domain.PrimaryMemberSummary{
		IDType:   "CC",
		IDNumber: "P1",
		FullName: "Ana Gomez",
	}
	return p
}

func TestBuildRowHasAllCells(t *testing.T) {
	row := BuildRow(sampleTask(), primaryMemberPatient())
	require.Len(t, row, RowCells)

	assert.Equal(t, "2025-02-10 09:30", row[CellCreatedAt])
	assert.Equal(t, domain.AppointmentSpecialist, row[CellAppointmentType])
	assert.Equal(t, "FIL-4", row[CellFilingCode])
	assert.Equal(t, "AUTH-9", row[CellAuthorization])
	assert.Equal(t, "2025-02-10", row[CellRequestDate])
	assert.Equal(t, "2025-03-01", row[CellAppointmentDate])
	assert.Equal(t, "confirmed by phone", row[CellConfirmation])
	assert.Equal(t, domain.StatusReceived, row[CellStatus])
	assert.Equal(t, domain.PriorityHigh, row[CellPriority])
	assert.Equal(t, "task-123", row[CellTaskID])
	assert.Equal(t, row[CellTaskID], row[KeyCell])
}

func TestBuildRowPrimaryMemberIsOwnBillingParty(t *testing.T) {
	patient := primaryMemberPatient()
	row := BuildRow(sampleTask(), patient)

	assert.Equal(t, patient.IDType, row[CellBillingIDType])
	assert.Equal(t, patient.IDNumber, row[CellBillingIDNumber])
	assert.Equal(t, patient.FullName, row[CellBillingFullName])
	assert.Equal(t, patient.IDNumber, row[CellPatientIDNumber])
}

func TestBuildRowDependentBillsUnderPrimaryMember(t *testing.T) {
	patient := dependentPatient()
	row := BuildRow(sampleTask(), patient)

	// Billing cells come from the primary member
	assert.Equal(t, "CC", row[CellBillingIDType])
	assert.Equal(t, "P1", row[CellBillingIDNumber])
	assert.Equal(t, "Ana Gomez", row[CellBillingFullName])

	// Patient cells stay the dependent's own
	assert.Equal(t, "TI", row[CellPatientIDType])
	assert.Equal(t, "D7", row[CellPatientIDNumber])
	assert.Equal(t, "Luis Gomez", row[CellPatientFullName])
	assert.Equal(t, "CHILD", row[CellRelationship])
}

func TestBuildRowZeroCreatedAtLeftBlank(t *testing.T) {
	task := sampleTask()
	task.CreatedAt = time.Time{}
	row := BuildRow(task, primaryMemberPatient())
	assert.Empty(t, row[CellCreatedAt])
}
