// report/xlsx.go
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// writeXLSX writes a workbook with a Results sheet (one row per address,
// invalid rows shaded) and a Summary sheet.
func writeXLSX(w io.Writer, results []Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	})
	if err != nil {
		return err
	}
	invalid, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE8E6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}

	rows := make([][]any, 0, len(results)+1)
	rows = append(rows, []any{columns[0], columns[1], columns[2], columns[3]})
	for _, r := range results {
		rows = append(rows, []any{r.Input, r.Valid, r.Reason, r.Message})
		for i, s := range []string{r.Input, "false", r.Reason, r.Message} {
			if n := displayWidth(s); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return err
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(resultsSheet, "A1", last, header); err != nil {
		return err
	}
	for i, r := range results {
		if r.Valid {
			continue
		}
		from, _ := excelize.CoordinatesToCellName(1, i+2)
		to, _ := excelize.CoordinatesToCellName(len(columns), i+2)
		if err := f.SetCellStyle(resultsSheet, from, to, invalid); err != nil {
			return err
		}
	}
	for i, n := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(resultsSheet, col, col, colWidth(n)); err != nil {
			return err
		}
	}
	if err := f.SetPanes(resultsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	s := Summarize(results)
	for i, kv := range [][]any{{"checked", s.Checked}, {"valid", s.Valid}, {"invalid", s.Invalid}} {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &kv); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func colWidth(chars int) float64 {
	w := float64(chars) * 1.1
	switch {
	case w < 10:
		return 10
	case w > 60:
		return 60
	}
	return w
}
