package models

import "time"

// Application statuses
const (
	ApplicationStatusInProgress = "in_progress"
	ApplicationStatusCompleted  = "completed"
	ApplicationStatusApproved   = "approved"
	ApplicationStatusRejected   = "rejected"
)

// Structured application field names, as referenced by Question.FieldName.
const (
	FieldFullName             = "full_name"
	FieldAddress              = "address"
	FieldPhone                = "phone"
	FieldEmail                = "email"
	FieldPassportMain         = "passport_main"
	FieldPassportRegistration = "passport_registration"
	FieldSnils                = "snils"
	FieldInn                  = "inn"
	FieldMaritalStatus        = "marital_status"
	FieldChildren             = "children"
	FieldEmergencyContact     = "emergency_contact"
	FieldAdditionalInfo       = "additional_info"
)

// Application is the structured staff-application record, one per applicant.
// Photo fields hold media-relative paths.
type Application struct {
	ID          int64  `json:"id"`
	ApplicantID int64  `json:"applicantId"`
	Status      string `json:"status"`
	Position    string `json:"position,omitempty"`

	FullName             string `json:"fullName,omitempty"`
	Address              string `json:"address,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Email                string `json:"email,omitempty"`
	PassportMain         string `json:"passportMain,omitempty"`
	PassportRegistration string `json:"passportRegistration,omitempty"`
	Snils                string `json:"snils,omitempty"`
	Inn                  string `json:"inn,omitempty"`
	MaritalStatus        string `json:"maritalStatus,omitempty"`
	Children             string `json:"children,omitempty"`
	EmergencyContact     string `json:"emergencyContact,omitempty"`
	AdditionalInfo       string `json:"additionalInfo,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// completionFields is the fixed 11-field subset used for the completion
// metric. AdditionalInfo is deliberately excluded.
func (a *Application) completionFields() []string {
	return []string{
		a.FullName, a.Address, a.Phone, a.Email,
		a.PassportMain, a.PassportRegistration, a.Snils, a.Inn,
		a.MaritalStatus, a.Children, a.EmergencyContact,
	}
}

// CompletionPercentage returns floor(filled/total*100) over the fixed
// 11-field subset.
func (a *Application) CompletionPercentage() int {
	fields := a.completionFields()
	filled := 0
	for _, v := range fields {
		if v != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// KnownApplicationFields lists every field name a question may map onto.
func KnownApplicationFields() []string {
	return []string{
		FieldFullName, FieldAddress, FieldPhone, FieldEmail,
		FieldPassportMain, FieldPassportRegistration, FieldSnils, FieldInn,
		FieldMaritalStatus, FieldChildren, FieldEmergencyContact, FieldAdditionalInfo,
	}
}

// IsKnownApplicationField reports whether name is a structured field.
func IsKnownApplicationField(name string) bool {
	for _, f := range KnownApplicationFields() {
		if f == name {
			return true
		}
	}
	return false
}
