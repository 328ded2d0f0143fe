package app

import (
    "strconv"

    "github.com/jung-kurt/gofpdf"
)

// writeReportPDF renders a minimal PDF with one heading per document and per
// region, followed by the region's fragments. Core fonts are cp1252, so text is
// translated from UTF-8 first.
func writeReportPDF(docs []DocumentResult, outPath string) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.SetFont("Helvetica", "", 11)
    pdf.AddPage()

    pdf.SetFont("Helvetica", "B", 16)
    pdf.CellFormat(0, 10, "Regions", "", 1, "L", false, 0, "")
    pdf.SetFont("Helvetica", "", 11)
    pdf.CellFormat(0, 6, "Documents: "+strconv.Itoa(len(docs))+", regions: "+strconv.Itoa(countRegions(docs)), "", 1, "L", false, 0, "")
    pdf.Ln(4)

    for _, d := range docs {
        pdf.SetFont("Helvetica", "B", 14)
        pdf.MultiCell(0, 8, tr(d.Path), "", "L", false)
        pdf.SetFont("Helvetica", "", 11)
        if d.Error != "" {
            pdf.MultiCell(0, 5, tr("Error: "+d.Error), "", "L", false)
            pdf.Ln(4)
            continue
        }
        for _, r := range d.Regions {
            pdf.SetFont("Helvetica", "B", 12)
            pdf.CellFormat(0, 7, tr(r.Title), "", 1, "L", false, 0, "")
            pdf.SetFont("Helvetica", "", 11)
            for _, f := range r.Fragments {
                pdf.MultiCell(0, 5, tr(f), "", "L", false)
            }
            pdf.Ln(3)
        }
        pdf.Ln(4)
    }

    return pdf.OutputFileAndClose(outPath)
}
