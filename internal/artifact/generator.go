// Package artifact renders and stores the PDF submission receipt derived
// from an application record. Receipts are regenerable, never authoritative.
package artifact

import (
	"bytes"
	"regexp"
	"time"

	"driver-portal/internal/models"

	"github.com/jung-kurt/gofpdf"
)

const defaultCompany = "ALSAQQAF LOGISTICS LLC"

// placeholder renders instead of a blank when an applicant field is absent.
const placeholder = "—"

// receiptSections fixes the order and content of the receipt body. Keys not
// listed here never appear on the receipt.
var receiptSections = []struct {
	Title string
	Keys  []string
}{
	{"Personal Information", []string{"dateOfBirth", "ssn"}},
	{"Address", []string{"currentAddress", "currentCity", "currentState", "currentZip"}},
	{"Experience & Preferences", []string{"cdlClass", "yearsExperience", "workSchedule"}},
	{"Emergency Contact", []string{"emergencyName", "emergencyPhone", "emergencyRelation"}},
}

var digitsOnly = regexp.MustCompile(`\D`)

// MaskSSN hides all but the last four digits of a national id number.
func MaskSSN(raw string) string {
	digits := digitsOnly.ReplaceAllString(raw, "")
	if len(digits) < 4 {
		return "***"
	}
	return "***-**-" + digits[len(digits)-4:]
}

// Generator renders a fixed-layout receipt from a record. Rendering is a pure
// function of the record: the document's creation date is pinned to the
// record's submission time, so identical records produce identical bytes.
type Generator struct {
	company string
}

func NewGenerator(company string) *Generator {
	if company == "" {
		company = defaultCompany
	}
	return &Generator{company: company}
}

func (g *Generator) Render(app models.Application) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetCreationDate(app.SubmittedAt.UTC())
	pdf.SetModificationDate(app.SubmittedAt.UTC())
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 10, g.company, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 8, "Driver Application (Submission Receipt)", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeField := func(label, value string) {
		if value == "" {
			value = placeholder
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(17, 24, 39)
		pdf.CellFormat(48, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(55, 65, 81)
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}

	writeField("Application ID", app.ID)
	writeField("Submitted At", localizedTimestamp(app.SubmittedAt))
	writeField("Applicant Name", app.FullName())
	writeField("Email", app.FieldString("email"))
	writeField("Phone", app.Phone())

	for _, section := range receiptSections {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "BU", 12)
		pdf.SetTextColor(17, 24, 39)
		pdf.CellFormat(0, 7, section.Title, "", 1, "L", false, 0, "")
		for _, key := range section.Keys {
			value := app.FieldString(key)
			if key == "ssn" && value != "" {
				value = MaskSSN(value)
			}
			writeField(key, value)
		}
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 6, "This PDF is auto-generated. Keep for your records. "+g.company+".", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// localizedTimestamp is split out so tests can pin the format.
func localizedTimestamp(ts time.Time) string {
	return ts.Local().Format("Jan 2, 2006 3:04 PM")
}
