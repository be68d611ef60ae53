package packages

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tourdesk/models"
)

// GET /api/packages/:id/brochure
func (h *Handler) Brochure(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	param := ps.ByName("id")
	p, err := h.svc.Resolve(r.Context(), param)
	if err != nil {
		h.fail(w, r, err, param)
		return
	}

	pdfBytes, err := RenderBrochure(p, h.pageURL(p))
	if err != nil {
		h.fail(w, r, err, param)
		return
	}

	name := p.Slug
	if name == "" {
		name = p.ID.Hex()
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=brochure-"+name+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.log.DebugContext(r.Context(), "brochure write failed", "package", p.ID.Hex(), "error", err)
	}
}

func (h *Handler) pageURL(p *models.Package) string {
	ref := p.Slug
	if ref == "" {
		ref = p.ID.Hex()
	}
	return h.siteURL + "/packages/" + ref
}

// RenderBrochure lays out a one-package A4 brochure with a QR code linking
// to the package page.
func RenderBrochure(p *models.Package, pageURL string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(pageURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; translate so accented titles survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(p.Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.MultiCell(140, 10, tr(p.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 12)
	for _, line := range []struct{ label, value string }{
		{"Duration", p.Duration},
		{"Price", p.Price},
		{"Best time to visit", p.BestTime},
		{"Visa", p.Visa},
	} {
		if line.value == "" {
			continue
		}
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s: %s", line.label, line.value)))
		pdf.Ln(7)
	}

	// QR image
	imageOpts := gofpdf.ImageOptions{
		ImageType: "PNG",
	}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	if p.Overview != "" {
		section(pdf, "Overview")
		pdf.MultiCell(0, 6, tr(p.Overview), "", "L", false)
	}

	if len(p.Itinerary) > 0 {
		section(pdf, "Itinerary")
		for i, day := range p.Itinerary {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("Day %d: %s", i+1, day)), "", "L", false)
		}
	}

	bullets(pdf, tr, "Included", p.Inclusions)
	bullets(pdf, tr, "Not included", p.Exclusions)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, heading string) {
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, heading)
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
}

func bullets(pdf *gofpdf.Fpdf, tr func(string) string, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	section(pdf, heading)
	for _, item := range items {
		pdf.MultiCell(0, 6, tr("- "+strings.TrimSpace(item)), "", "L", false)
	}
}
