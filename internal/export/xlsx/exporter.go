package xlsx

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/export"
)

// SheetName is the worksheet holding the A-scans.
const SheetName = "A-scans"

// MaxColumns is the widest sheet the spreadsheet format allows, index column
// included.
const MaxColumns = excelize.MaxColumns

func init() {
	export.Register(Exporter{})
}

// Exporter writes a channel set as an Office Open XML workbook.
type Exporter struct{}

var _ export.Exporter = Exporter{}

// Name returns the canonical format name.
func (Exporter) Name() string { return "xlsx" }

// Extension returns the file extension including the dot.
func (Exporter) Extension() string { return ".xlsx" }

// Export streams the table into a single sheet and writes the workbook to w.
func (Exporter) Export(ctx context.Context, set *channel.Set, w io.Writer, opts export.Options) error {
	table := export.NewTable(set, opts)
	if len(table.Header) > MaxColumns {
		return fmt.Errorf("xlsx: %d columns exceed the sheet limit of %d (use the scans shape or csv)", len(table.Header), MaxColumns)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	header := make([]any, len(table.Header))
	for i, name := range table.Header {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	values := make([]any, len(table.Header))
	for row := 0; row < table.Rows; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		values[0] = row
		for col := 0; col < table.Columns(); col++ {
			c := table.Cell(row, col)
			if c.Kind == export.Text && len(c.Text) > excelize.TotalCellChars {
				return fmt.Errorf("xlsx: %s row %d holds %d characters, over the cell limit of %d (lower the precision)",
					table.Header[col+1], row, len(c.Text), excelize.TotalCellChars)
			}
			values[col+1] = cellValue(c, opts.Precision)
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", row, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}

func cellValue(c export.Cell, precision int) any {
	switch c.Kind {
	case export.Number:
		if precision >= 0 {
			return roundTo(c.Value, precision)
		}
		return c.Value
	case export.Text:
		return c.Text
	default:
		return nil
	}
}

func roundTo(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
