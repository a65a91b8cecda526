package page

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/zulandar/haulyard/internal/archive"
	"github.com/zulandar/haulyard/internal/report"
)

var xlsxHeaders = []string{"Date", "Start", "Truck", "Job", "Status", "Link"}

// WriteXLSX writes r as a workbook with one sheet per section.
func WriteXLSX(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("page: xlsx style: %w", err)
	}
	cancelledStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "808080", Strike: true},
	})
	if err != nil {
		return fmt.Errorf("page: xlsx style: %w", err)
	}

	for i, sec := range []struct {
		name  string
		items []report.Item
	}{
		{"Upcoming", r.Upcoming},
		{"Today", r.Today},
		{"Past", r.Past},
	} {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sec.name); err != nil {
				return fmt.Errorf("page: xlsx sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sec.name); err != nil {
			return fmt.Errorf("page: xlsx sheet: %w", err)
		}

		for col, h := range xlsxHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sec.name, cell, h)
			f.SetCellStyle(sec.name, cell, cell, headerStyle)
		}
		f.SetColWidth(sec.name, "A", "B", 12)
		f.SetColWidth(sec.name, "C", "E", 16)
		f.SetColWidth(sec.name, "F", "F", 60)

		for j, it := range sec.items {
			row := j + 2
			for col, v := range xlsxRow(it) {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sec.name, cell, v)
			}
			if it.URL != "" {
				cell, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), row)
				f.SetCellHyperLink(sec.name, cell, it.URL, "External")
			}
			if it.Cancelled() {
				start, _ := excelize.CoordinatesToCellName(1, row)
				end, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), row)
				f.SetCellStyle(sec.name, start, end, cancelledStyle)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("page: write xlsx: %w", err)
	}
	return nil
}

// xlsxRow flattens an item into the export columns. Items with unreadable
// names carry only their raw name.
func xlsxRow(it report.Item) []string {
	status := ""
	if it.Status != archive.StatusNone {
		status = it.Status.String()
	}
	if it.At.IsZero() {
		return []string{"", "", "", it.Label, status, it.URL}
	}
	return []string{
		it.At.Format("01/02/2006"),
		it.At.Format("3:04 PM"),
		it.Name.Truck,
		it.Name.Job,
		status,
		it.URL,
	}
}
