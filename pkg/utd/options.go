package utd

import (
	"strings"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/export"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/record"
)

// Options configures decoding and export. The zero value decodes the legacy
// variant silently and exports full-precision wide CSV next to the input.
type Options struct {
	// Variant names a record layout preset: legacy, encoder or encoder-wide.
	Variant string
	// Strict turns a truncated record or an invalid channel byte into an error
	// instead of a silent stop.
	Strict bool
	// MaxRecords caps the number of decoded records; 0 means no cap.
	MaxRecords int
	// Format names the exporter: csv or xlsx.
	Format string
	// Shape is the table arrangement: wide or scans.
	Shape string
	// Precision is the number of decimals exported; 0 or less keeps the
	// shortest exact representation.
	Precision int
	// Output overrides the destination path.
	Output string
}

type config struct {
	layout     record.Layout
	decoder    []record.DecoderOption
	exporter   export.Exporter
	exportOpts export.Options
}

func (opts Options) decodeConfig() (config, error) {
	variant := opts.Variant
	if strings.TrimSpace(variant) == "" {
		variant = "legacy"
	}
	layout, err := record.Preset(variant)
	if err != nil {
		return config{}, err
	}
	cfg := config{layout: layout}
	if opts.Strict {
		cfg.decoder = append(cfg.decoder, record.WithStrict())
	}
	if opts.MaxRecords > 0 {
		cfg.decoder = append(cfg.decoder, record.WithMaxRecords(opts.MaxRecords))
	}
	return cfg, nil
}

func (opts Options) toInternal() (config, error) {
	cfg, err := opts.decodeConfig()
	if err != nil {
		return config{}, err
	}
	format := opts.Format
	if strings.TrimSpace(format) == "" {
		format = "csv"
	}
	if cfg.exporter, err = export.Lookup(format); err != nil {
		return config{}, err
	}
	shape, err := export.ParseShape(opts.Shape)
	if err != nil {
		return config{}, err
	}
	cfg.exportOpts = export.Options{Shape: shape, Precision: -1}
	if opts.Precision > 0 {
		cfg.exportOpts.Precision = opts.Precision
	}
	return cfg, nil
}
