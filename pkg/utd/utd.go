package utd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/channel"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/export"
	_ "github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/export/csv"  // register exporter
	_ "github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/export/xlsx" // register exporter
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/options"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/record"
)

// ErrInvalidInputPath is returned before decoding when the input is missing,
// not a regular file or lacks the .utd extension.
var ErrInvalidInputPath = options.ErrInvalidInputPath

// Result captures the outcome of a decode.
type Result struct {
	Path     string
	Output   string
	Layout   record.Layout
	Records  int
	Bytes    int64
	Stop     record.StopState
	Channels *channel.Set
}

// Summary computes per-channel statistics of the decoded waveforms.
func (r Result) Summary() Summary {
	return Summarize(r.Channels)
}

// String renders a human-readable JSON representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"variant":    r.Layout.Name,
		"records":    r.Records,
		"byte_count": r.Bytes,
		"stop":       r.Stop.Reason.String(),
		"partial":    r.Stop.Reason.Partial(),
	}
	if r.Path != "" {
		summary["input"] = r.Path
	}
	if r.Output != "" {
		summary["output"] = r.Output
	}
	if r.Stop.Reason.Partial() {
		summary["stop_offset"] = r.Stop.Offset
	}
	if r.Stop.Reason == record.StopInvalidChannel {
		summary["stop_channel"] = r.Stop.Channel
	}
	if r.Channels != nil {
		summary["channels"] = r.Summary().Channels
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("variant: %s records:%d stop:%s (marshal error: %v)", r.Layout.Name, r.Records, r.Stop.Reason, err)
	}
	return string(data)
}

// Decode reads records from r until decoding completes and collects them per
// channel. A truncated tail or an invalid channel byte ends decoding without
// error unless opts.Strict is set; the stop state is reported in Result.Stop.
func Decode(ctx context.Context, r io.Reader, opts Options) (Result, error) {
	cfg, err := opts.decodeConfig()
	if err != nil {
		return Result{}, err
	}
	return decode(ctx, r, cfg)
}

// DecodeFile validates path and decodes the file it names.
func DecodeFile(ctx context.Context, path string, opts Options) (Result, error) {
	cfg, err := opts.decodeConfig()
	if err != nil {
		return Result{}, err
	}
	return decodeFile(ctx, path, cfg)
}

// Convert decodes the file at path and exports it next to the input, or to
// opts.Output when set.
func Convert(ctx context.Context, path string, opts Options) (Result, error) {
	cfg, err := opts.toInternal()
	if err != nil {
		return Result{}, err
	}
	result, err := decodeFile(ctx, path, cfg)
	if err != nil {
		return result, err
	}
	dest := opts.Output
	if dest == "" {
		dest = options.OutputPath(path, cfg.exporter.Extension())
	}
	log := options.Logger(ctx).WithFields(logrus.Fields{"output": dest, "format": cfg.exporter.Name()})
	log.Debug("exporting channel set")
	err = writeAtomic(ctx, dest, func(w io.Writer) error {
		return cfg.exporter.Export(ctx, result.Channels, w, cfg.exportOpts)
	})
	if err != nil {
		return result, fmt.Errorf("export %s: %w", dest, err)
	}
	result.Output = dest
	return result, nil
}

// Export writes a decoded set with the named exporter.
func Export(ctx context.Context, set *channel.Set, w io.Writer, opts Options) error {
	cfg, err := opts.toInternal()
	if err != nil {
		return err
	}
	return cfg.exporter.Export(ctx, set, w, cfg.exportOpts)
}

func decodeFile(ctx context.Context, path string, cfg config) (Result, error) {
	if err := options.ValidateInputPath(path); err != nil {
		return Result{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	result, err := decode(ctx, f, cfg)
	result.Path = path
	return result, err
}

func decode(ctx context.Context, r io.Reader, cfg config) (Result, error) {
	dec, err := record.NewDecoder(r, cfg.layout, cfg.decoder...)
	if err != nil {
		return Result{}, err
	}
	log := options.Logger(ctx).WithField("variant", cfg.layout.Name)
	collector := channel.NewCollector(cfg.layout.Channels)
	result := Result{Layout: cfg.layout}
	var stopErr error
	for {
		if stopErr = ctx.Err(); stopErr != nil {
			break
		}
		scan, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stopErr = err
			break
		}
		collector.Append(scan.Channel, scan.Waveform)
	}
	result.Stop = dec.Stop()
	result.Bytes = dec.Offset()
	result.Channels = collector.Finalize()
	result.Records = result.Channels.Total()
	if stopErr != nil {
		return result, stopErr
	}
	log.WithFields(logrus.Fields{
		"records": result.Records,
		"bytes":   result.Bytes,
		"reason":  result.Stop.Reason.String(),
		"offset":  result.Stop.Offset,
	}).Debug("decoding complete")
	return result, nil
}

// Formats lists the registered export formats.
func Formats() []string { return export.Names() }

// Variants lists the known record layout presets.
func Variants() []string { return record.PresetNames() }
