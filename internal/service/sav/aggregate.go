// Package sav holds the after-sales ticket workflow and its dashboard.
package sav

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const (
	NoTeam    = "Non assigné"
	NoProduct = "Produit non spécifié"

	histogramMonths = 6
)

type StatusCount struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Key   string `json:"key"`
	Month string `json:"month"`
	Year  int    `json:"year"`
	Count int    `json:"count"`
}

type Dashboard struct {
	Total     int           `json:"total"`
	ByStatus  []StatusCount `json:"byStatus"`
	ByTeam    []Count       `json:"byTeam"`
	ByProduct []Count       `json:"byProduct"`
	Monthly   []MonthCount  `json:"monthly"`
}

// Aggregate computes the dashboard. Known statuses always appear, in
// workflow order; unknown ones follow so the counts sum to the total.
func Aggregate(tickets []storage.Ticket, now time.Time, loc *time.Location) Dashboard {
	d := Dashboard{Total: len(tickets)}

	statuses := map[string]int{}
	teams := map[string]int{}
	products := map[string]int{}
	for _, t := range tickets {
		statuses[t.Status]++

		team := t.Team
		if team == "" {
			team = NoTeam
		}
		teams[team]++

		product := t.Product.Name
		if product == "" {
			product = NoProduct
		}
		products[product]++
	}

	for _, s := range storage.TicketStatuses {
		d.ByStatus = append(d.ByStatus, StatusCount{Status: s, Count: statuses[s], Percent: percent(statuses[s], d.Total)})
		delete(statuses, s)
	}
	var unknown []string
	for s := range statuses {
		unknown = append(unknown, s)
	}
	slices.Sort(unknown)
	for _, s := range unknown {
		d.ByStatus = append(d.ByStatus, StatusCount{Status: s, Count: statuses[s], Percent: percent(statuses[s], d.Total)})
	}

	d.ByTeam = ranked(teams)
	d.ByProduct = ranked(products)
	d.Monthly = monthly(tickets, now, loc)
	return d
}

// percent is count/total*100 rounded to one decimal, 0 when total is 0.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}

func ranked(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return frtext.Compare(a.Name, b.Name)
	})
	return out
}

// monthly buckets tickets by creation month over the last six months,
// oldest first, the current month last.
func monthly(tickets []storage.Ticket, now time.Time, loc *time.Location) []MonthCount {
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(histogramMonths - 1), 0)

	out := make([]MonthCount, histogramMonths)
	index := make(map[string]int, histogramMonths)
	for i := range out {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		out[i] = MonthCount{Key: key, Month: frtext.MonthName(m.Month()), Year: m.Year()}
		index[key] = i
	}

	for _, t := range tickets {
		if t.CreatedAt.IsZero() {
			continue
		}
		if i, ok := index[t.CreatedAt.In(loc).Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

// Installation is one entry of the new-ticket picker.
type Installation struct {
	Client  storage.ClientSnapshot  `json:"client"`
	Product storage.ProductSnapshot `json:"product"`
}

// InstallationOptions lists every (client, installed product) pair. A client
// with no known product is still listed once, with a placeholder product.
func InstallationOptions(clients []storage.Client, products []storage.Product) []Installation {
	byID := make(map[string]storage.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := []Installation{}
	for _, c := range clients {
		found := false
		for _, id := range c.ProductIDs {
			p, ok := byID[id]
			if !ok {
				continue
			}
			out = append(out, Installation{Client: c.Snapshot(), Product: p.Snapshot()})
			found = true
		}
		if !found {
			out = append(out, Installation{Client: c.Snapshot(), Product: storage.ProductSnapshot{Name: NoProduct}})
		}
	}
	return out
}

var numberRe = regexp.MustCompile(`^SAV-(\d{4})-(\d+)$`)

// NextNumber returns the next ticket number of year: SAV-YYYY-NNNN.
func NextNumber(tickets []storage.Ticket, year int) string {
	last := 0
	for _, t := range tickets {
		m := numberRe.FindStringSubmatch(t.Number)
		if m == nil || m[1] != strconv.Itoa(year) {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("SAV-%04d-%04d", year, last+1)
}
