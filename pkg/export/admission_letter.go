package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// AdmissionLetter carries the fields printed on an admission offer letter.
type AdmissionLetter struct {
	InstituteName string
	EnrolleeName  string
	EnrollmentNo  string
	CourseName    string
	CourseCode    string
	CollegeEmail  string
	AdmissionYear string
	IssuedAt      time.Time
}

// LetterExporter renders admission offer letters as PDF documents.
type LetterExporter struct{}

// NewLetterExporter constructs a letter exporter.
func NewLetterExporter() *LetterExporter {
	return &LetterExporter{}
}

// Render produces the PDF bytes for a single admission letter.
func (e *LetterExporter) Render(letter AdmissionLetter) ([]byte, error) {
	if letter.EnrollmentNo == "" {
		return nil, fmt.Errorf("letter requires an enrollment number")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, strings.ToUpper(letter.InstituteName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, "Office of Admissions", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "PROVISIONAL ADMISSION LETTER", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf(
		"Dear %s,\n\nWe are pleased to confirm your admission to the %s (%s) programme for the %s intake.",
		letter.EnrolleeName, letter.CourseName, letter.CourseCode, letter.AdmissionYear), "", "L", false)
	pdf.Ln(4)

	rows := [][2]string{
		{"Enrollment Number", letter.EnrollmentNo},
		{"Programme", fmt.Sprintf("%s (%s)", letter.CourseName, letter.CourseCode)},
		{"College Email", letter.CollegeEmail},
		{"Admission Year", letter.AdmissionYear},
		{"Issued On", letter.IssuedAt.Format("02 Jan 2006")},
	}
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(115, 8, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6,
		"Your login credentials have been shared separately. Please change your password on first login and report to the admissions office with this letter.", "", "L", false)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render admission letter: %w", err)
	}
	return buf.Bytes(), nil
}
