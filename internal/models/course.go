package models

import "time"

// Course represents an academic programme offered for admission. The seat
// counter obeys 0 <= seats_filled <= seats_total at all times; only the
// admission coordinator increments it and only its compensation path
// decrements it.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	SeatsTotal    int       `db:"seats_total" json:"seats_total"`
	SeatsFilled   int       `db:"seats_filled" json:"seats_filled"`
	DurationTerms int       `db:"duration_terms" json:"duration_terms"`
	AdmissionYear string    `db:"admission_year" json:"admission_year"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SeatsAvailable returns the number of unreserved seats.
func (c Course) SeatsAvailable() int {
	if c.SeatsFilled >= c.SeatsTotal {
		return 0
	}
	return c.SeatsTotal - c.SeatsFilled
}

// CourseFilter defines filter criteria for listing courses.
type CourseFilter struct {
	AdmissionYear string
	Active        *bool
	Search        string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// CourseAvailability is the cached seat availability view.
type CourseAvailability struct {
	CourseID       string    `json:"course_id"`
	Code           string    `json:"code"`
	SeatsTotal     int       `json:"seats_total"`
	SeatsFilled    int       `json:"seats_filled"`
	SeatsAvailable int       `json:"seats_available"`
	AsOf           time.Time `json:"as_of"`
}
