// Package certificate renders participation certificates as PDF documents.
// Rendering is a pure function of its inputs.
package certificate

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth  = 297.0
	pageHeight = 210.0
)

// colors taken from the printed certificate design
var (
	deepBlue = [3]int{0x1a, 0x23, 0x7e}
	gold     = [3]int{0xff, 0xd7, 0x00}
	ink      = [3]int{0x33, 0x33, 0x33}
)

// fallbackDate stamps documents whose event date cannot be parsed
var fallbackDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Renderer draws landscape A4 certificates
type Renderer struct {
	issuer string
}

// NewRenderer creates a renderer that signs certificates as issuer
func NewRenderer(issuer string) *Renderer {
	if issuer == "" {
		issuer = "Campus Events"
	}
	return &Renderer{issuer: issuer}
}

// Render returns the PDF bytes of a certificate. Identical inputs produce
// identical bytes: the document dates come from the event end date.
func (r *Renderer) Render(studentName, eventTitle, eventEndDateISO, certificateID string) ([]byte, error) {
	if strings.TrimSpace(studentName) == "" {
		return nil, fmt.Errorf("student name is required")
	}
	if strings.TrimSpace(eventTitle) == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if strings.TrimSpace(certificateID) == "" {
		return nil, fmt.Errorf("certificate id is required")
	}

	heldOn, stamp := parseEventDate(eventEndDateISO)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Certificate of Participation", true)
	pdf.SetAuthor(r.issuer, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawBorder(pdf)

	pdf.SetTextColor(deepBlue[0], deepBlue[1], deepBlue[2])
	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetXY(0, 40)
	pdf.CellFormat(pageWidth, 16, "CERTIFICATE OF PARTICIPATION", "", 1, "C", false, 0, "")

	pdf.SetTextColor(ink[0], ink[1], ink[2])
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetXY(0, 68)
	pdf.CellFormat(pageWidth, 10, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetTextColor(deepBlue[0], deepBlue[1], deepBlue[2])
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetXY(0, 82)
	pdf.CellFormat(pageWidth, 14, tr(studentName), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(gold[0], gold[1], gold[2])
	pdf.SetLineWidth(0.8)
	pdf.Line(pageWidth/2-70, 98, pageWidth/2+70, 98)

	pdf.SetTextColor(ink[0], ink[1], ink[2])
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetXY(0, 106)
	pdf.CellFormat(pageWidth, 10, "has successfully participated in", "", 1, "C", false, 0, "")

	pdf.SetTextColor(deepBlue[0], deepBlue[1], deepBlue[2])
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(30, 120)
	pdf.MultiCell(pageWidth-60, 10, tr(eventTitle), "", "C", false)

	pdf.SetTextColor(ink[0], ink[1], ink[2])
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(0, 146)
	pdf.CellFormat(pageWidth, 8, "held on "+heldOn, "", 1, "C", false, 0, "")

	pdf.SetDrawColor(ink[0], ink[1], ink[2])
	pdf.SetLineWidth(0.3)
	pdf.Line(pageWidth/2-40, 172, pageWidth/2+40, 172)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(0, 174)
	pdf.CellFormat(pageWidth, 6, tr(r.issuer), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetXY(0, 186)
	pdf.CellFormat(pageWidth, 5, "Certificate ID: "+certificateID, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBorder paints the blue frame with a gold inner rule
func drawBorder(pdf *fpdf.Fpdf) {
	pdf.SetDrawColor(deepBlue[0], deepBlue[1], deepBlue[2])
	pdf.SetLineWidth(3)
	pdf.Rect(8, 8, pageWidth-16, pageHeight-16, "D")

	pdf.SetDrawColor(gold[0], gold[1], gold[2])
	pdf.SetLineWidth(1)
	pdf.Rect(14, 14, pageWidth-28, pageHeight-28, "D")
}

// parseEventDate returns the printed date and the document timestamp for an
// ISO-8601 date or timestamp
func parseEventDate(iso string) (string, time.Time) {
	iso = strings.TrimSpace(iso)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			t = t.UTC()
			return t.Format("January 2, 2006"), t
		}
	}
	if iso == "" {
		iso = "an unspecified date"
	}
	return iso, fallbackDate
}
