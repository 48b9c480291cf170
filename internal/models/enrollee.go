package models

import "time"

// EnrolleeStatus represents the lifecycle of an enrollee.
type EnrolleeStatus string

// Possible enrollee statuses.
const (
	EnrolleeStatusActive       EnrolleeStatus = "ACTIVE"
	EnrolleeStatusCompleted    EnrolleeStatus = "COMPLETED"
	EnrolleeStatusDiscontinued EnrolleeStatus = "DISCONTINUED"
	EnrolleeStatusOnLeave      EnrolleeStatus = "ON_LEAVE"
	EnrolleeStatusSuspended    EnrolleeStatus = "SUSPENDED"
)

// Enrollee is the student profile created by the admission pipeline. The
// enrollment number, personal email, college email and phone are each
// globally unique, enforced by constraints in the enrollees table.
type Enrollee struct {
	ID            string         `db:"id" json:"id"`
	EnrollmentNo  string         `db:"enrollment_no" json:"enrollment_no"`
	AccountID     string         `db:"account_id" json:"account_id"`
	CourseID      string         `db:"course_id" json:"course_id"`
	FirstName     string         `db:"first_name" json:"first_name"`
	LastName      string         `db:"last_name" json:"last_name"`
	PersonalEmail string         `db:"personal_email" json:"personal_email"`
	CollegeEmail  string         `db:"college_email" json:"college_email"`
	Phone         string         `db:"phone" json:"phone"`
	AdmissionYear string         `db:"admission_year" json:"admission_year"`
	CurrentTerm   int            `db:"current_term" json:"current_term"`
	Status        EnrolleeStatus `db:"status" json:"status"`
	Gender        *string        `db:"gender" json:"gender,omitempty"`
	BirthDate     *time.Time     `db:"birth_date" json:"birth_date,omitempty"`
	Address       *string        `db:"address" json:"address,omitempty"`
	GuardianName  *string        `db:"guardian_name" json:"guardian_name,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// EnrolleeDetail enriches Enrollee with course info for responses.
type EnrolleeDetail struct {
	Enrollee
	CourseCode string `db:"course_code" json:"course_code"`
	CourseName string `db:"course_name" json:"course_name"`
}

// EnrolleeFilter provides filters for listing enrollees.
type EnrolleeFilter struct {
	CourseID      string
	AdmissionYear string
	Status        EnrolleeStatus
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// ValidStatus reports whether the given status is a known lifecycle state.
func ValidStatus(s EnrolleeStatus) bool {
	switch s {
	case EnrolleeStatusActive, EnrolleeStatusCompleted, EnrolleeStatusDiscontinued, EnrolleeStatusOnLeave, EnrolleeStatusSuspended:
		return true
	}
	return false
}
