package domain

import "time"

// Task appointment request domain model (maps to the tasks table).
// The patient is owned by the remote patient service; patient_identifier
// is a plain external identifier, not a local foreign key.
type Task struct {
	// Primary key
	TaskID string `db:"task_id" json:"task_id"` // UUID, PRIMARY KEY

	// External patient reference (patient-service id_number)
	PatientIdentifier string `db:"patient_identifier" json:"patient_identifier"` // VARCHAR(50), NOT NULL

	// Request data
	AppointmentType    string `db:"appointment_type" json:"appointment_type"` // VARCHAR(50), NOT NULL ('SPECIALIST'/'EXAM'/'GENERAL_MEDICINE'/'PROCEDURE')
	Specialty          string `db:"specialty" json:"specialty,omitempty"`     // VARCHAR(120), only for SPECIALIST
	AuthorizationCode  string `db:"authorization_code" json:"authorization_code,omitempty"`
	OrderCode          string `db:"order_code" json:"order_code,omitempty"` // medical order reference
	FilingCode         string `db:"filing_code" json:"filing_code,omitempty"`
	Priority           string `db:"priority" json:"priority"` // VARCHAR(20), NOT NULL ('LOW'/'MEDIUM'/'HIGH'/'URGENT')
	SpecificationNotes string `db:"specification_notes" json:"specification_notes,omitempty"`
	ProgressNotes      string `db:"progress_notes" json:"progress_notes,omitempty"`

	// Lifecycle state. Opaque to this service: the client always supplies
	// it and no layer substitutes a default.
	Status string `db:"status" json:"status"` // VARCHAR(30), NOT NULL

	// Appointment assignment data
	RequestDate        string `db:"request_date" json:"request_date,omitempty"`         // YYYY-MM-DD, set when work starts
	AppointmentDate    string `db:"appointment_date" json:"appointment_date,omitempty"` // YYYY-MM-DD
	AppointmentTime    string `db:"appointment_time" json:"appointment_time,omitempty"` // VARCHAR(20)
	Doctor             string `db:"doctor" json:"doctor,omitempty"`
	AppointmentAddress string `db:"appointment_address" json:"appointment_address,omitempty"`
	AppointmentPlace   string `db:"appointment_place" json:"appointment_place,omitempty"` // e.g. "Office 301, Medical Tower"
	AppointmentInfo    string `db:"appointment_info" json:"appointment_info,omitempty"`
	ConfirmationText   string `db:"confirmation_text" json:"confirmation_text,omitempty"`

	// System timestamps, never client-set. UpdatedAt >= CreatedAt.
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Documented status values. Membership is not enforced: the lifecycle
// engine treats status as opaque and only records transitions.
const (
	StatusReceived   = "RECEIVED"
	StatusInProgress = "IN_PROGRESS"
	StatusScheduled  = "SCHEDULED"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Appointment types
const (
	AppointmentSpecialist      = "SPECIALIST"
	AppointmentExam            = "EXAM"
	AppointmentGeneralMedicine = "GENERAL_MEDICINE"
	AppointmentProcedure       = "PROCEDURE"
)

// Priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)
