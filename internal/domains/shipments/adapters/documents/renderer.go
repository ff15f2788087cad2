// Package documents renders waybill and proof-of-delivery PDFs from a
// shipment snapshot. Missing nested fields render blank.
package documents

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

const (
	margin    = 30.0
	pageWidth = 595.28
	fullWidth = pageWidth - 2*margin
	footer    = "ShipDay Courier Services | Terms & Conditions Apply"
)

// Renderer produces A4 PDF documents.
type Renderer struct {
	company string
}

func NewRenderer() *Renderer {
	return &Renderer{company: footer}
}

// RenderWaybill lays out sender, receiver, service, instructions, payment
// and signature boxes.
func (r *Renderer) RenderWaybill(s *domain.Shipment) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("shipment is nil")
	}
	pdf, tr := newDocument()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetXY(margin, 35)
	pdf.CellFormat(fullWidth, 24, "WAYBILL", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(margin)
	pdf.CellFormat(fullWidth, 14, tr("Ref: "+s.ShipmentID), "", 1, "R", false, 0, "")
	pdf.SetX(margin)
	pdf.CellFormat(fullWidth, 14, "Date: "+dateOnly(s.CreatedAt), "", 1, "R", false, 0, "")

	const boxY, boxH, boxW = 120.0, 110.0, 260.0
	y := box(pdf, margin, boxY, boxW, boxH, "Sender Details")
	partyLines(pdf, tr, margin+10, y, s.Sender, s.SenderName, s.SenderPhone)
	y = box(pdf, 305, boxY, boxW, boxH, "Receiver Details")
	partyLines(pdf, tr, 315, y, s.Delivery, s.ReceiverName, s.ReceiverPhone)

	const detailsY, detailsH = 250.0, 100.0
	y = box(pdf, margin, detailsY, 170, detailsH, "Service Info")
	weight := s.Parcel.Dimensions.Weight
	if weight == 0 {
		weight = s.ParcelWeight
	}
	parcelType := s.Parcel.ParcelType
	if parcelType == "" {
		parcelType = s.PackageType
	}
	labelValue(pdf, tr, 40, y, "Service:", strings.ToUpper(string(s.Parcel.ServiceType)))
	labelValue(pdf, tr, 40, y+15, "Type:", parcelType)
	labelValue(pdf, tr, 40, y+30, "Weight:", fmt.Sprintf("%g kg", weight))
	d := s.Parcel.Dimensions
	if d.Length > 0 || d.Width > 0 || d.Height > 0 {
		labelValue(pdf, tr, 40, y+45, "Dims:", fmt.Sprintf("%gx%gx%g cm", d.Length, d.Width, d.Height))
	}

	y = box(pdf, 210, detailsY, 170, detailsH, "Instructions")
	instructions := s.Parcel.SpecialInstructions
	if instructions == "" {
		instructions = "None"
	}
	pdf.SetXY(220, y-8)
	pdf.MultiCell(150, 11, tr(instructions), "", "L", false)

	y = box(pdf, 390, detailsY, 175, detailsH, "Payment Info")
	labelValue(pdf, tr, 400, y, "Method:", strings.ToUpper(string(s.Payment.Method)))
	labelValue(pdf, tr, 400, y+15, "Status:", strings.ToUpper(string(s.Payment.Status)))

	signatureTable(pdf, 550, "SENDER SIGNATURE", "RECEIVER SIGNATURE")
	r.footer(pdf)
	return output(pdf)
}

// RenderProofOfDelivery renders the delivery acknowledgement page.
func (r *Renderer) RenderProofOfDelivery(s *domain.Shipment) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("shipment is nil")
	}
	pdf, tr := newDocument()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(margin, 40)
	pdf.CellFormat(fullWidth, 24, "PROOF OF DELIVERY", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(margin)
	pdf.CellFormat(fullWidth, 16, tr("Waybill No: "+s.ShipmentID), "", 1, "R", false, 0, "")
	pdf.Ln(12)

	from := s.SenderName
	if from == "" {
		from = s.Sender.Name
	}
	to := s.ReceiverName
	if to == "" {
		to = s.Delivery.Name
	}
	lines := []string{
		"Date Shipped: " + dateOnly(s.CreatedAt),
		"From: " + from,
		"To: " + to,
		"Route: " + s.Start + " -> " + s.End,
		"Driver: " + s.DriverName,
	}
	if s.DeliveredAt != nil {
		lines = append(lines, "Delivered: "+s.DeliveredAt.Format("2006-01-02 15:04"))
	}
	for _, line := range lines {
		pdf.SetX(margin)
		pdf.CellFormat(fullWidth, 16, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(12)
	pdf.SetX(margin)
	pdf.CellFormat(fullWidth, 16, "Received in good order and condition:", "", 1, "L", false, 0, "")

	signatureTable(pdf, 400, "RECEIVER SIGNATURE", "DRIVER SIGNATURE")
	r.footer(pdf)
	return output(pdf)
}

func newDocument() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

// box draws a titled frame and returns the y where content starts.
func box(pdf *fpdf.Fpdf, x, y, w, h float64, title string) float64 {
	pdf.SetFillColor(248, 249, 250)
	pdf.Rect(x, y, w, 20, "F")
	pdf.SetDrawColor(51, 51, 51)
	pdf.Rect(x, y, w, h, "D")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x+5, y+13, strings.ToUpper(title))
	pdf.SetFont("Helvetica", "", 9)
	return y + 33
}

func partyLines(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, p domain.Party, fallbackName, fallbackPhone string) {
	name := p.Name
	if name == "" {
		name = fallbackName
	}
	phone := p.Phone
	if phone == "" {
		phone = fallbackPhone
	}
	pdf.Text(x, y, tr(name))
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x, y+12, tr(p.Company))
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(x, y+24, tr(phone))
	pdf.Text(x, y+36, tr(p.Email))
	pdf.Text(x, y+50, tr(p.Address.Street))
	pdf.Text(x, y+62, tr(joinNonEmpty(p.Address.Suburb, p.Address.City)))
	pdf.Text(x, y+74, tr(joinNonEmpty(p.Address.Province, p.Address.PostalCode)))
}

func labelValue(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, label, value string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(x, y, label)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(x+50, y, tr(value))
	pdf.SetFont("Helvetica", "", 9)
}

func signatureTable(pdf *fpdf.Fpdf, y float64, left, right string) {
	const headerH, nameH, signH = 20.0, 25.0, 80.0
	col := fullWidth / 2
	total := headerH + nameH + signH
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(margin, y, fullWidth, total, "D")
	pdf.Line(margin+col, y, margin+col, y+total)
	pdf.Line(margin, y+headerH, margin+fullWidth, y+headerH)
	pdf.Line(margin, y+headerH+nameH, margin+fullWidth, y+headerH+nameH)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin+5, y+14, left)
	pdf.Text(margin+col+5, y+14, right)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin+5, y+headerH+16, "NAME:")
	pdf.Text(margin+col+5, y+headerH+16, "NAME:")
}

func (r *Renderer) footer(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(136, 136, 136)
	pdf.SetXY(margin, 770)
	pdf.CellFormat(fullWidth, 10, r.company, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
