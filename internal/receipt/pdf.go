package receipt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces the PDF form of the receipt. It walks the same layout
// as RenderText, field for field.
func RenderPDF(l Layout) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, l.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, section := range l.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range section.Lines {
			pdf.CellFormat(60, 7, line.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, line.Value, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPDF writes the rendered receipt into dir, named by the debit
// transaction's reference number, and returns the full path.
func ExportPDF(l Layout, dir, name string) (string, error) {
	data, err := RenderPDF(l)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
