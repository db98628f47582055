package export

import (
	"github.com/xuri/excelize/v2"
)

type styles struct {
	header int
	bold   int
	alert  int
	money  int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		s   styles
		err error
	)

	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return s, err
	}

	s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, err
	}

	s.alert, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return s, err
	}

	euro := `#,##0.00 "€"`
	s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &euro})
	return s, err
}

// sheet writes rows and keeps the first error.
type sheet struct {
	f    *excelize.File
	name string
	err  error
}

func (s *sheet) header(names []string, style int) {
	s.row(1, toAny(names)...)
	s.style(1, len(names), style)
}

func (s *sheet) row(n int, values ...any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetSheetRow(s.name, cellName(1, n), &values)
}

// style applies id to the first cols cells of row n.
func (s *sheet) style(n, cols, id int) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.name, cellName(1, n), cellName(cols, n), id)
}

func (s *sheet) cellStyle(col, n, id int) {
	if s.err != nil {
		return
	}
	// keep the row fill when the cell is already styled
	if cur, err := s.f.GetCellStyle(s.name, cellName(col, n)); err == nil && cur != 0 {
		return
	}
	s.err = s.f.SetCellStyle(s.name, cellName(col, n), cellName(col, n), id)
}

func (s *sheet) freeze() {
	if s.err != nil {
		return
	}
	s.err = s.f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (s *sheet) width(from, to string, w float64) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetColWidth(s.name, from, to, w)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toAny(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
