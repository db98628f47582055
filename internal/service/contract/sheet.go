package contract

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

var typeLabels = map[string]string{
	storage.TypeInstallation: "Installation",
	storage.TypeMaintenance:  "Entretien",
	storage.TypeSAV:          "Service après-vente",
}

// RenderSheet writes the intervention sheet of an appointment.
func RenderSheet(w io.Writer, company config.Company, a storage.Appointment, issued time.Time) error {
	const op = "service.contract.RenderSheet"

	d := newDocument("Fiche d'intervention "+a.Title, company)
	d.pdf.AddPage()
	d.companyBlock(company)

	d.font("B", 16)
	d.pdf.SetXY(marginLeft, 55)
	d.pdf.CellFormat(contentW, 10, d.tr("FICHE D'INTERVENTION"), "", 1, "C", false, 0, "")
	d.font("", 9)
	d.pdf.CellFormat(contentW, 5, d.tr("Éditée le "+longDay(issued)), "", 1, "C", false, 0, "")

	kind, ok := typeLabels[a.Type]
	if !ok {
		kind = orDash(a.Type)
	}

	d.heading("Intervention")
	d.field("Objet", a.Title)
	d.field("Type", kind)
	d.field("Date", displayDay(a.Date)+" "+a.Time)
	d.field("Durée prévue", orDash(a.Duration))
	d.field("Équipe", orDash(a.Team))

	d.heading("Client")
	d.field("Nom", a.Client.Name)
	d.field("Adresse", orDash(a.Client.Address))
	d.field("Téléphone", orDash(a.Client.Phone))

	d.heading("Matériel")
	if len(a.Products) == 0 {
		d.paragraph("Aucun matériel renseigné.")
	} else {
		d.font("B", 10)
		d.pdf.CellFormat(contentW-30, 7, d.tr("Désignation"), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(30, 7, d.tr("Quantité"), "1", 1, "C", false, 0, "")
		d.font("", 10)
		for _, p := range a.Products {
			d.pdf.CellFormat(contentW-30, 7, d.tr(p.Name), "1", 0, "L", false, 0, "")
			d.pdf.CellFormat(30, 7, strconv.Itoa(p.Quantity), "1", 1, "C", false, 0, "")
		}
	}

	d.heading("Observations")
	if a.Notes != "" {
		d.paragraph(a.Notes)
	}
	y := d.pdf.GetY() + 2
	d.pdf.Rect(marginLeft, y, contentW, 35, "D")
	d.pdf.SetY(y + 37)

	signatures(d, []string{"Le technicien", "Le client"})

	if err := d.output(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
