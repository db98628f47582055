// Package contract renders maintenance contracts and intervention sheets as
// PDF documents.
package contract

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const (
	marginLeft  = 20.0
	marginTop   = 20.0
	pageWidth   = 210.0
	contentW    = pageWidth - 2*marginLeft
	lineHeight  = 5.0
	fontFamily  = "Helvetica"
	dateDisplay = "02/01/2006"
)

// document wraps fpdf with the cp1252 translation the core fonts need for
// French accents.
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string, company config.Company) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(company.Name, true)
	pdf.SetCreator(company.Name, true)
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentW/2, 10, d.tr(company.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	return d
}

func (d *document) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *document) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *document) paragraph(s string) {
	d.pdf.MultiCell(contentW, lineHeight, d.tr(s), "", "J", false)
}

func (d *document) heading(s string) {
	d.pdf.Ln(3)
	d.font("B", 11)
	d.pdf.CellFormat(contentW, 7, d.tr(s), "B", 1, "L", false, 0, "")
	d.pdf.Ln(1)
	d.font("", 10)
}

func (d *document) field(label, value string) {
	d.font("B", 10)
	d.pdf.CellFormat(55, 6, d.tr(label), "", 0, "L", false, 0, "")
	d.font("", 10)
	d.pdf.MultiCell(contentW-55, 6, d.tr(value), "", "L", false)
}

// companyBlock is printed at fixed coordinates on the first page.
func (d *document) companyBlock(c config.Company) {
	d.font("B", 14)
	d.text(marginLeft, 25, c.Name)
	d.font("", 9)
	y := 31.0
	for _, line := range []string{c.Address, siret(c.Siret), c.Phone, c.Email} {
		if line == "" {
			continue
		}
		d.text(marginLeft, y, line)
		y += 4.5
	}
}

func siret(s string) string {
	if s == "" {
		return ""
	}
	return "SIRET : " + s
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func displayDay(day string) string {
	t, err := time.Parse(storage.DayLayout, day)
	if err != nil {
		if day == "" {
			return "-"
		}
		return day
	}
	return t.Format(dateDisplay)
}

func longDay(t time.Time) string {
	return frtext.LongDate(t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
