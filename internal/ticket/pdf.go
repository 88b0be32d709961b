package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/iliyamo/booksphere/internal/model"
)

// PDFRenderer lays the ticket out on a single A4 page.
type PDFRenderer struct{}

func (PDFRenderer) Render(event model.Event, tickets int, customerName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetCreationDate(event.Schedule.StartAt)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "BookSphere Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	venue := strings.Join([]string{event.Venue.Name, event.Venue.Address, event.Venue.City}, ", ")
	pdf.SetFont("Helvetica", "", 14)
	for _, line := range []string{
		"Event: " + event.Title,
		"Venue: " + venue,
		"Date: " + event.Schedule.StartAt.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
		fmt.Sprintf("Tickets: %d", tickets),
		"Attendee: " + customerName,
	} {
		pdf.MultiCell(0, 8, tr(line), "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Please arrive 30 minutes early with this ticket.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
