package infra

// receipt.go — Printable weighbridge receipt generation using go-pdf/fpdf.
// Renders an A6 slip handed to the farmer at the scale:
//   - Collection center name header
//   - Receipt number, season and timestamp
//   - Farmer name and code
//   - Weight breakdown (gross, tare, net, effective)
//   - Quality readings and applied deductions
//   - Bold total amount
//
// The output file is saved to storagePath/receipt_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"paddyledger/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders the purchase receipt slip for a recorded
// purchase. storagePath is created if missing. Returns the absolute path to
// the generated file.
func GenerateReceiptPDF(p *model.PurchaseTransaction, centerName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("receipt: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", p.ReceiptNumber)
	filePath := filepath.Join(storagePath, fileName)

	// A6 (105mm × 148mm) fits the dot-matrix slip printers at the centers
	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(6, 6, 6)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 12 // total margins = 12mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, centerName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Paddy Purchase Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Receipt info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Receipt "+p.ReceiptNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, p.TransactionDate.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if p.Season != nil {
		pdf.CellFormat(contentW, 4, "Season: "+p.Season.SeasonName, "", 1, "L", false, 0, "")
	}
	if p.Farmer != nil {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Farmer: %s (%s)", p.Farmer.FullName, p.Farmer.FarmerCode), "", 1, "L", false, 0, "")
	}
	if p.VehicleNumber != nil && *p.VehicleNumber != "" {
		pdf.CellFormat(contentW, 4, "Vehicle: "+*p.VehicleNumber, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(6, pdf.GetY(), pageW-6, pdf.GetY())
	pdf.Ln(2)

	labelW := contentW * 0.55
	valueW := contentW * 0.45

	row := func(label, value string) {
		pdf.CellFormat(labelW, 4.5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 4.5, value, "", 1, "R", false, 0, "")
	}

	// ── Weights ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	row("Gross weight", p.GrossWeightKg.StringFixed(2)+" kg")
	row("Tare weight", p.TareWeightKg.StringFixed(2)+" kg")
	row("Net weight", p.NetWeightKg.StringFixed(2)+" kg")

	// ── Quality and deductions ───────────────────────────────────────────────
	row("Moisture", p.MoistureContent.StringFixed(1)+" %")
	row("Foreign matter", p.ForeignMatter.StringFixed(1)+" %")
	if p.Grade != nil {
		row("Grade", p.Grade.GradeName)
	}
	if !p.DeductionRate.IsZero() {
		row("Deduction", p.DeductionRate.StringFixed(2)+" %")
	}

	pdf.SetFont("Helvetica", "B", 8)
	row("Effective weight", p.EffectiveWeightKg.StringFixed(2)+" kg")

	pdf.Ln(1)
	pdf.Line(6, pdf.GetY(), pageW-6, pdf.GetY())
	pdf.Ln(2)

	// ── Money ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	row("Price per kg", p.FinalPricePerKg.StringFixed(4))
	if !p.MoisturePenalty.IsZero() {
		row("Moisture penalty/kg", "-"+p.MoisturePenalty.StringFixed(4))
	}
	if !p.ForeignMatterPenalty.IsZero() {
		row("Foreign matter penalty/kg", "-"+p.ForeignMatterPenalty.StringFixed(4))
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, p.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Keep this slip for payment collection", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("receipt: write file: %w", err)
	}

	return filePath, nil
}
