package model

// StudentProfile is the student profile shown on dashboards. Every field is
// optional; missing values render as defaults.
type StudentProfile struct {
	ClassName     *string `json:"className,omitempty"`
	Section       *string `json:"section,omitempty"`
	RollNo        *string `json:"rollNo,omitempty"`
	AdmissionDate *string `json:"admissionDate,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty"`
	Gender        *string `json:"gender,omitempty"`
	GuardianName  *string `json:"guardianName,omitempty"`
}
