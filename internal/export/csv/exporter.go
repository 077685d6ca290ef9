package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/export"
)

func init() {
	export.Register(Exporter{})
}

// Exporter writes a channel set as comma separated text.
type Exporter struct{}

var _ export.Exporter = Exporter{}

// Name returns the canonical format name.
func (Exporter) Name() string { return "csv" }

// Extension returns the file extension including the dot.
func (Exporter) Extension() string { return ".csv" }

// Export writes the header row followed by one line per table row.
func (Exporter) Export(ctx context.Context, set *channel.Set, w io.Writer, opts export.Options) error {
	table := export.NewTable(set, opts)
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	line := make([]string, len(table.Header))
	for row := 0; row < table.Rows; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line[0] = strconv.Itoa(row)
		for col := 0; col < table.Columns(); col++ {
			line[col+1] = table.Cell(row, col).String(opts.Precision)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("csv: write row %d: %w", row, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}
