package portal

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a printable index of the portal items. One row per item
// with its title, type and duration, and a clickable link to the artifact.
// This is intentionally simple and does not try to mirror the HTML layout.
func (r *Renderer) WritePDF(title string, items []Item) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	t := now()

	outDir := r.OutDir
	if outDir == "" {
		outDir = "."
	}
	out := filepath.Join(outDir, fmt.Sprintf("course_portal_%d.pdf", t.Unix()))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.AddPage()
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+t.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, it := range items {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, it.Title, "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		meta := fmt.Sprintf("%s  %s", it.Type, it.Duration)
		pdf.CellFormat(0, 5, meta, "", 1, "L", false, 0, "")
		if it.DownloadURL != "" {
			pdf.WriteLinkString(5, it.DownloadURL, it.DownloadURL)
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	if err := pdf.OutputFileAndClose(out); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return out, nil
}
