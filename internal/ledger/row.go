package ledger

import (
	"time"

	"github.com/xiomaraocampoh/prubaserviconli/internal/domain"
)

// Row layout: 22 cells spanning spreadsheet columns A..V. The terminal
// cell (V) holds the task id and is the key the scan matches on.
const (
	CellCreatedAt         = 0
	CellBillingIDType     = 1
	CellBillingIDNumber   = 2
	CellBillingFullName   = 3
	CellRelationship      = 4
	CellPatientIDType     = 5
	CellPatientIDNumber   = 6
	CellPatientFullName   = 7
	CellPatientPhone      = 8
	CellPatientEmail      = 9
	CellInsuranceProvider = 10
	CellAppointmentType   = 11
	CellFilingCode        = 12
	CellAuthorization     = 13
	CellRequestDate       = 14
	CellAppointmentDate   = 15
	CellConfirmation      = 16
	CellSpecifications    = 17
	CellStatus            = 18
	CellProgressNotes     = 19
	CellPriority          = 20
	CellTaskID            = 21

	// RowCells total cell count per row.
	RowCells = 22

	// KeyCell index of the cell used for row matching.
	KeyCell = CellTaskID

	// DeletedMarker written into the key cell by Tombstone. The row stops
	// matching future scans, which is the point: the task is gone.
	DeletedMarker = "DELETED"
)

const createdAtFormat = "2006-01-02 15:04"

var header = []string{
	"Created At",
	"Billing ID Type",
	"Billing ID Number",
	"Billing Full Name",
	"Relationship",
	"Patient ID Type",
	"Patient ID Number",
	"Patient Full Name",
	"Phone",
	"Email",
	"Insurance Provider",
	"Appointment Type",
	"Filing Code",
	"Authorization",
	"Request Date",
	"Appointment Date",
	"Confirmation",
	"Specifications",
	"Status",
	"Progress Notes",
	"Priority",
	"Task ID",
}

// BuildRow derives the 22 ledger cells from a task and its enriched
// patient projection. Dependents bill under their primary member;
// primary members are their own billing party.
func BuildRow(task *domain.Task, patient *domain.PatientSummary) []string {
	billing := patient.BillingParty()

	createdAt := ""
	if !task.CreatedAt.Equal(time.Time{}) {
		createdAt = task.CreatedAt.Format(createdAtFormat)
	}

	row := make([]string, RowCells)
	row[CellCreatedAt] = createdAt
	row[CellBillingIDType] = billing.IDType
	row[CellBillingIDNumber] = billing.IDNumber
	row[CellBillingFullName] = billing.FullName
	row[CellRelationship] = patient.Relationship
	row[CellPatientIDType] = patient.IDType
	row[CellPatientIDNumber] = patient.IDNumber
	row[CellPatientFullName] = patient.FullName
	row[CellPatientPhone] = patient.Phone
	row[CellPatientEmail] = patient.Email
	row[CellInsuranceProvider] = patient.InsuranceProvider
	row[CellAppointmentType] = task.AppointmentType
	row[CellFilingCode] = task.FilingCode
	row[CellAuthorization] = task.AuthorizationCode
	row[CellRequestDate] = task.RequestDate
	row[CellAppointmentDate] = task.AppointmentDate
	row[CellConfirmation] = task.ConfirmationText
	row[CellSpecifications] = task.SpecificationNotes
	row[CellStatus] = task.Status
	row[CellProgressNotes] = task.ProgressNotes
	row[CellPriority] = task.Priority
	row[CellTaskID] = task.TaskID
	return row
}
