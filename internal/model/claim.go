package model

// InputType identifies the original format of a submitted claim.
type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
	InputPDF   InputType = "pdf"
)

// ClaimType enumerates the supported claim categories for structured extraction.
type ClaimType string

const (
	ClaimConsultation        ClaimType = "consultation"
	ClaimDiagnostic          ClaimType = "diagnostic"
	ClaimPharmacy            ClaimType = "pharmacy"
	ClaimDental              ClaimType = "dental"
	ClaimVision              ClaimType = "vision"
	ClaimAlternativeMedicine ClaimType = "alternative_medicine"
	ClaimGeneral             ClaimType = "general"
)

// ExtractedClaimData holds the structured fields pulled out of a claim
// description. Every field is optional: a nil field means "not found",
// never an error. When extraction fails entirely, only Summary is set,
// holding a truncated copy of the claim text.
type ExtractedClaimData struct {
	MemberID      *string  `json:"member_id"`
	MemberName    *string  `json:"member_name"`
	PolicyNumber  *string  `json:"policy_number"`
	TreatmentDate *string  `json:"treatment_date"`
	ClaimAmount   *float64 `json:"claim_amount"`
	Diagnosis     *string  `json:"diagnosis"`
	DoctorName    *string  `json:"doctor_name"`
	HospitalName  *string  `json:"hospital_name"`
	ClaimType     *string  `json:"claim_type"`
	Summary       *string  `json:"summary"`
}

// IntakeResult is the output of the intake stage: the normalized claim
// description, the detected input type, and the structured extraction.
// Immutable once produced.
type IntakeResult struct {
	ClaimDescription string              `json:"claim_description"`
	InputType        InputType           `json:"input_type"`
	ExtractedData    *ExtractedClaimData `json:"extracted_data"`
}

// ClaimResponse is the non-streaming response shape: intake output plus
// the parsed adjudication decision.
type ClaimResponse struct {
	Intake IntakeResult   `json:"intake"`
	Result DecisionRecord `json:"result"`
}
