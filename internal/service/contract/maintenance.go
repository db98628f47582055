package contract

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

var frequencyLabels = map[string]string{
	storage.FrequencyMonthly:    "mensuelle (12 visites par an)",
	storage.FrequencyQuarterly:  "trimestrielle (4 visites par an)",
	storage.FrequencyHalfYearly: "semestrielle (2 visites par an)",
	storage.FrequencyYearly:     "annuelle (1 visite par an)",
}

var paymentLabels = map[string]string{
	storage.PaymentPaid:    "Payé",
	storage.PaymentPending: "En attente",
	storage.PaymentUnpaid:  "Impayé",
}

type article struct {
	title string
	body  string
}

// clauses are the fixed articles of the contract. %[n]s verbs are filled by
// contractArticles.
var clauses = []article{
	{"Article 1 - Objet du contrat",
		"Le présent contrat a pour objet l'entretien préventif de l'équipement de climatisation ou de pompe à chaleur désigné ci-dessus, installé au domicile du client, conformément aux prescriptions du fabricant et à la réglementation en vigueur."},
	{"Article 2 - Durée",
		"Le contrat prend effet le %[1]s et se termine le %[2]s. Il peut être renouvelé par accord écrit des parties au plus tard un mois avant son échéance."},
	{"Article 3 - Fréquence des visites",
		"Les visites d'entretien ont une périodicité %[3]s. La date de chaque visite est convenue avec le client au moins sept jours à l'avance. Prochaine visite prévue : %[4]s."},
	{"Article 4 - Prestations incluses",
		"Chaque visite comprend : le nettoyage et la désinfection des filtres et de l'unité intérieure, le contrôle de l'unité extérieure, la vérification des raccordements électriques et frigorifiques, le contrôle des pressions et de l'étanchéité, ainsi que la remise d'une fiche d'intervention."},
	{"Article 5 - Prestations exclues",
		"Ne sont pas comprises : les pièces détachées, les recharges de fluide frigorigène consécutives à une fuite, les dépannages résultant d'une mauvaise utilisation, d'une modification de l'installation par un tiers ou d'un événement extérieur."},
	{"Article 6 - Prix et modalités de paiement",
		"Le montant du contrat est fixé à %[5]s TTC. Échéancier : %[6]s. Statut du paiement à la date d'édition : %[7]s."},
	{"Article 7 - Obligations du client",
		"Le client s'engage à laisser libre accès à l'équipement, à signaler sans délai toute anomalie de fonctionnement et à ne pas faire intervenir un tiers sur l'installation pendant la durée du contrat."},
	{"Article 8 - Responsabilité",
		"Le prestataire est tenu à une obligation de moyens. Sa responsabilité ne saurait être engagée pour les dommages résultant d'un défaut d'entretien imputable au client ou d'une cause étrangère."},
	{"Article 9 - Résiliation",
		"Chacune des parties peut résilier le contrat par lettre recommandée avec accusé de réception, moyennant un préavis d'un mois. Les visites déjà réalisées restent dues."},
	{"Article 10 - Litiges",
		"En cas de litige, les parties rechercheront une solution amiable. À défaut, le client peut recourir gratuitement à un médiateur de la consommation avant toute action devant les tribunaux compétents."},
}

func contractArticles(m storage.Maintenance) []article {
	frequency, ok := frequencyLabels[m.Frequency]
	if !ok {
		frequency = orDash(m.Frequency)
	}
	payment, ok := paymentLabels[m.PaymentStatus]
	if !ok {
		payment = orDash(m.PaymentStatus)
	}

	args := []any{
		displayDay(m.StartDate),
		displayDay(m.EndDate),
		frequency,
		displayDay(m.NextVisit),
		money(m.Amount.StringFixed(2)),
		orDash(m.PaymentSchedule),
		payment,
	}

	out := make([]article, len(clauses))
	for i, c := range clauses {
		body := c.body
		if strings.Contains(body, "%[") {
			body = fmt.Sprintf(body, args...)
		}
		out[i] = article{title: c.title, body: body}
	}
	return out
}

// money formats "1234.50" as "1 234,50 €".
func money(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	s := b.String()
	if frac != "" {
		s += "," + frac
	}
	if neg {
		s = "-" + s
	}
	return s + " €"
}

// RenderMaintenance writes the contract of m.
func RenderMaintenance(w io.Writer, company config.Company, m storage.Maintenance, issued time.Time) error {
	const op = "service.contract.RenderMaintenance"

	d := newDocument("Contrat d'entretien "+m.Client.Name, company)
	d.pdf.AddPage()

	d.companyBlock(company)

	d.font("B", 10)
	d.text(120, 25, "Contrat n° "+shortID(m.ID))
	d.font("", 9)
	d.text(120, 31, "Édité le "+longDay(issued))

	d.font("B", 16)
	d.pdf.SetXY(marginLeft, 55)
	d.pdf.CellFormat(contentW, 10, d.tr("CONTRAT D'ENTRETIEN"), "", 1, "C", false, 0, "")
	d.font("", 10)

	d.heading("Client")
	d.field("Nom", m.Client.Name)
	d.field("Adresse", orDash(m.Client.Address))
	d.field("Téléphone", orDash(m.Client.Phone))
	d.field("Email", orDash(m.Client.Email))

	d.heading("Équipement")
	d.field("Désignation", m.Equipment.Name)
	d.field("Marque", orDash(m.Equipment.Brand))
	d.field("Référence", orDash(m.Equipment.Reference))
	d.field("N° de série", orDash(m.Equipment.SerialNumber))

	d.heading("Conditions générales")
	for _, a := range contractArticles(m) {
		d.font("B", 10)
		d.pdf.MultiCell(contentW, 6, d.tr(a.title), "", "L", false)
		d.font("", 10)
		d.paragraph(a.body)
		d.pdf.Ln(2)
	}

	signatures(d, []string{"Le prestataire", "Le client (lu et approuvé)"})

	if err := d.output(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// signatures draws boxes side by side, on a new page when less than 45mm
// remain.
func signatures(d *document, labels []string) {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY() > pageH-65 {
		d.pdf.AddPage()
	}

	d.pdf.Ln(6)
	y := d.pdf.GetY()
	width := (contentW - 10) / float64(len(labels))
	for i, label := range labels {
		x := marginLeft + float64(i)*(width+10)
		d.font("B", 9)
		d.text(x, y, label)
		d.pdf.Rect(x, y+2, width, 30, "D")
	}
	d.pdf.SetY(y + 35)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
