package domain

import "time"

// ClassStandard is the school year an inquiry concerns.
type ClassStandard string

const (
	Class10th ClassStandard = "10th"
	Class12th ClassStandard = "12th"
)

// Valid reports whether c is a supported class standard.
func (c ClassStandard) Valid() bool {
	return c == Class10th || c == Class12th
}

// Request is an inquiry submitted through the website's contact form.
type Request struct {
	ID            string        `json:"_id"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	MobileNumber  string        `json:"mobileNumber"`
	SchoolName    string        `json:"schoolName"`
	Message       string        `json:"message,omitempty"`
	ClassStandard ClassStandard `json:"classStandard"`
	Date          time.Time     `json:"date"`
	// CreatedBy is empty for anonymous submissions.
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
