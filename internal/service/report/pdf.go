// internal/service/report/pdf.go

package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"brandpulse/internal/domain/report"
)

// ExportPDF renders an assembled document to a PDF byte slice. Visual
// blocks embed their PNG when present and print the placeholder text
// when not, so the PDF degrades the same way the document does.
func ExportPDF(doc report.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, doc.Title, "", "L", false)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(110, 110, 118)
	pdf.CellFormat(0, 6, "Generated "+doc.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for i, section := range doc.Sections {
		writeSection(pdf, i, section)
	}

	if len(doc.Leaders) > 0 {
		writeLeaders(pdf, doc)
	} else if doc.LeaderNote != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, doc.LeaderNote, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, index int, section report.Section) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, section.Topic, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	s := section.Summary
	if s.SampleSize == 0 {
		pdf.MultiCell(0, 5, "No articles were retrievable for this topic.", "", "L", false)
	} else {
		line := fmt.Sprintf("Positive %.1f%%  |  Neutral %.1f%%  |  Negative %.1f%%  (%d articles)",
			s.PositivePct, s.NeutralPct, s.NegativePct, s.SampleSize)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		if avg, ok := s.Average(); ok {
			pdf.CellFormat(0, 6, fmt.Sprintf("Average sentiment score: %+.3f", avg), "", 1, "L", false, 0, "")
		}
	}

	if len(section.Dominant) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Dominant sentiment by region", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, cell := range section.Dominant {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s (%.1f%%)", cell.Region.Name, cell.Category, cell.Pct),
				"", 1, "L", false, 0, "")
		}
	}

	for vi, block := range section.Visuals {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, block.Title, "", 1, "L", false, 0, "")
		if !block.Present {
			pdf.SetFont("Arial", "I", 9)
			pdf.SetTextColor(150, 150, 158)
			pdf.CellFormat(0, 6, block.Placeholder, "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			continue
		}

		name := fmt.Sprintf("visual-%d-%d", index, vi)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(block.PNG))
		pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 120, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(2)
	}

	pdf.Ln(6)
}

func writeLeaders(pdf *fpdf.Fpdf, doc report.Document) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Who wins where", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, leader := range doc.Leaders {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s (%+.3f)", leader.Region.Name, leader.Topic, leader.AverageScore),
			"", 1, "L", false, 0, "")
	}
}
