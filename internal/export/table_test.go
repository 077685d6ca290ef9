package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/ascan"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
)

func sampleSet() *channel.Set {
	c := channel.NewCollector(3)
	c.Append(0, ascan.Waveform{-1, 0.5})
	c.Append(2, ascan.Waveform{1})
	c.Append(0, ascan.Waveform{0.25, 0})
	return c.Finalize()
}

func TestWideTable(t *testing.T) {
	table := NewTable(sampleSet(), DefaultOptions())
	require.Equal(t, []string{"", "sensor 1 scan 1", "sensor 1 scan 2", "sensor 3 scan 1"}, table.Header)
	require.Equal(t, 2, table.Rows)
	require.Equal(t, 3, table.Columns())
	require.Equal(t, Cell{Kind: Number, Value: 0.5}, table.Cell(1, 0))
	require.Equal(t, Cell{Kind: Number, Value: 1}, table.Cell(0, 2))
	require.Equal(t, Empty, table.Cell(1, 2).Kind)
}

func TestScansTable(t *testing.T) {
	table := NewTable(sampleSet(), Options{Shape: Scans, Precision: 2})
	require.Equal(t, []string{"", "sensor 1", "sensor 2", "sensor 3"}, table.Header)
	require.Equal(t, 2, table.Rows)
	require.Equal(t, "[-1.00 0.50]", table.Cell(0, 0).String(2))
	require.Equal(t, "[0.25 0.00]", table.Cell(1, 0).String(2))
	require.Equal(t, "", table.Cell(0, 1).String(2))
	require.Equal(t, "[1.00]", table.Cell(0, 2).String(2))
	require.Equal(t, Empty, table.Cell(1, 2).Kind)
}

func TestFormatSample(t *testing.T) {
	require.Equal(t, "-0.5", FormatSample(-0.5, -1))
	require.Equal(t, "0.333", FormatSample(1.0/3, 3))
	require.Equal(t, "1", FormatSample(1, 0))
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("Scans")
	require.NoError(t, err)
	require.Equal(t, Scans, s)
	s, err = ParseShape("")
	require.NoError(t, err)
	require.Equal(t, Wide, s)
	_, err = ParseShape("tall")
	require.Error(t, err)
}

type nopExporter struct{ name string }

func (e nopExporter) Name() string      { return e.name }
func (e nopExporter) Extension() string { return "." + e.name }
func (nopExporter) Export(context.Context, *channel.Set, io.Writer, Options) error {
	return nil
}

func TestRegistry(t *testing.T) {
	Register(nopExporter{name: "registry-test"})
	exp, err := Lookup(" Registry-Test ")
	require.NoError(t, err)
	require.Equal(t, ".registry-test", exp.Extension())
	require.Contains(t, Names(), "registry-test")

	_, err = Lookup("parquet")
	require.True(t, errors.Is(err, ErrUnknownFormat))

	require.Panics(t, func() { Register(nopExporter{name: "registry-test"}) })
}
