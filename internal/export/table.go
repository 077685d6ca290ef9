package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
)

// Shape selects the tabular arrangement of a channel set.
type Shape int

const (
	// Wide puts one sample index per row and one column per (channel, scan).
	Wide Shape = iota
	// Scans puts one scan index per row and one column per channel; each cell
	// holds a whole bracketed waveform.
	Scans
)

func (s Shape) String() string {
	switch s {
	case Wide:
		return "wide"
	case Scans:
		return "scans"
	default:
		return "unknown"
	}
}

// ParseShape converts a shape name to a Shape.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wide", "":
		return Wide, nil
	case "scans", "scan":
		return Scans, nil
	default:
		return Shape(0), fmt.Errorf("unsupported table shape %q", s)
	}
}

// Options configures an export.
type Options struct {
	Shape Shape
	// Precision is the number of decimals written; negative means shortest
	// exact representation.
	Precision int
}

// DefaultOptions keeps full precision in the wide shape.
func DefaultOptions() Options {
	return Options{Shape: Wide, Precision: -1}
}

// CellKind tells exporters how to encode a cell.
type CellKind int

const (
	Empty CellKind = iota
	Number
	Text
)

// Cell is one value of a Table body.
type Cell struct {
	Kind  CellKind
	Value float64
	Text  string
}

// String renders the cell for text encodings.
func (c Cell) String(precision int) string {
	switch c.Kind {
	case Number:
		return FormatSample(c.Value, precision)
	case Text:
		return c.Text
	default:
		return ""
	}
}

// Table is a lazily evaluated view of a channel set in a given shape. The
// first column of every row is the row index, like a pandas index column.
type Table struct {
	Header []string
	Rows   int
	cell   func(row, col int) Cell
}

// Columns is the number of body columns, index column excluded.
func (t Table) Columns() int { return len(t.Header) - 1 }

// Cell returns the body cell at row, col (both zero based).
func (t Table) Cell(row, col int) Cell { return t.cell(row, col) }

// NewTable arranges set according to opts.
func NewTable(set *channel.Set, opts Options) Table {
	if opts.Shape == Scans {
		return scansTable(set, opts.Precision)
	}
	return wideTable(set)
}

type column struct {
	ch, scan int
}

func wideTable(set *channel.Set) Table {
	header := []string{""}
	var cols []column
	for ch := 0; ch < set.Channels(); ch++ {
		for n := 0; n < set.Len(ch); n++ {
			header = append(header, fmt.Sprintf("sensor %d scan %d", ch+1, n+1))
			cols = append(cols, column{ch: ch, scan: n})
		}
	}
	return Table{
		Header: header,
		Rows:   set.SampleCount(),
		cell: func(row, col int) Cell {
			c := cols[col]
			v, ok := set.Sample(c.ch, c.scan, row)
			if !ok {
				return Cell{}
			}
			return Cell{Kind: Number, Value: v}
		},
	}
}

func scansTable(set *channel.Set, precision int) Table {
	header := []string{""}
	for ch := 0; ch < set.Channels(); ch++ {
		header = append(header, fmt.Sprintf("sensor %d", ch+1))
	}
	return Table{
		Header: header,
		Rows:   set.MaxScans(),
		cell: func(row, col int) Cell {
			scans := set.Scans(col)
			if row >= len(scans) {
				return Cell{}
			}
			var b strings.Builder
			b.WriteByte('[')
			for i, v := range scans[row] {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(FormatSample(v, precision))
			}
			b.WriteByte(']')
			return Cell{Kind: Text, Text: b.String()}
		},
	}
}

// FormatSample renders a sample with the requested number of decimals.
func FormatSample(v float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
