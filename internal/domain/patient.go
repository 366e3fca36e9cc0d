package domain

// Patient type tags returned by the patient service.
const (
	PatientPrimaryMember = "PRIMARY_MEMBER"
	PatientDependent     = "DEPENDENT"
)

// PrimaryMemberSummary back-reference carried by dependent patients:
// the paying member the dependent is affiliated under.
type PrimaryMemberSummary struct {
	IDType   string `json:"id_type"`
	IDNumber string `json:"id_number"`
	FullName string `json:"full_name"`
}

// PatientSummary read-through projection of a patient owned by the remote
// patient service. Never persisted here; fetched fresh on every task
// operation that needs enrichment.
type PatientSummary struct {
	PatientType       string `json:"patient_type"` // 'PRIMARY_MEMBER' or 'DEPENDENT'
	IDType            string `json:"id_type"`
	IDNumber          string `json:"id_number"`
	FullName          string `json:"full_name"`
	BirthDate         string `json:"birth_date,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	Address           string `json:"address,omitempty"`
	Status            string `json:"status,omitempty"`
	Relationship      string `json:"relationship,omitempty"` // relationship to the primary member
	InsuranceProvider string `json:"insurance_provider,omitempty"`
	AdditionalInfo    string `json:"additional_info,omitempty"`

	// Only set for DEPENDENT patients.
	PrimaryMember *PrimaryMemberSummary `json:"primary_member,omitempty"`
}

// BillingParty returns the identity the appointment is billed under:
// dependents bill under their primary member, primary members under
// themselves.
func (p *PatientSummary) BillingParty() PrimaryMemberSummary {
	if p.PatientType == PatientDependent && p.PrimaryMember != nil {
		return *p.PrimaryMember
	}
	return PrimaryMemberSummary{
		IDType:   p.IDType,
		IDNumber: p.IDNumber,
		FullName: p.FullName,
	}
}
