package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/options"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/pkg/utd"
)

type flags struct {
	opts     utd.Options
	logLevel string
	summary  bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "utd-export <file.utd>",
		Short: "Export 8-channel ultrasonic .utd logs to CSV or XLSX",
		Long: "utd-export decodes the A-scans of an 8-channel ultrasonic .utd log and writes them\n" +
			"next to the input as a table (rows = sample index, columns = sensor and scan).",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureLogging(f.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), f, args[0])
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.opts.Variant, "variant", "legacy", "record layout: "+strings.Join(utd.Variants(), ", "))
	pf.BoolVar(&f.opts.Strict, "strict", false, "fail on a truncated record or invalid channel byte instead of stopping silently")
	pf.IntVar(&f.opts.MaxRecords, "max-records", 0, "stop after this many records (0 = no limit)")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rf := root.Flags()
	rf.StringVar(&f.opts.Format, "format", "csv", "output format: "+strings.Join(utd.Formats(), ", "))
	rf.StringVar(&f.opts.Shape, "shape", "wide", "table shape: wide (one column per scan) or scans (one row per scan)")
	rf.IntVar(&f.opts.Precision, "precision", 0, "decimals per sample (0 = shortest exact)")
	rf.StringVarP(&f.opts.Output, "out", "o", "", "output path (default: input with the format extension)")
	rf.BoolVar(&f.summary, "summary", false, "log per-channel statistics")

	root.AddCommand(&cobra.Command{
		Use:   "inspect <file.utd>",
		Short: "Decode a .utd log and print a JSON summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), f, args[0], out)
		},
	})
	return root
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func configureLogging(level string) error {
	lvl, err := options.ParseLogLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}

func runConvert(ctx context.Context, f *flags, path string) error {
	log := logrus.WithField("input", path)
	ctx = options.WithLogger(ctx, log)
	result, err := utd.Convert(ctx, path, f.opts)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output":  result.Output,
		"records": result.Records,
		"stop":    result.Stop.Reason.String(),
	}).Info("export complete")
	if f.summary {
		logSummary(log, result.Summary())
	}
	return nil
}

func runInspect(ctx context.Context, f *flags, path string, out io.Writer) error {
	ctx = options.WithLogger(ctx, logrus.WithField("input", path))
	result, err := utd.DecodeFile(ctx, path, f.opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, result.String())
	return err
}

func logSummary(log *logrus.Entry, summary utd.Summary) {
	for _, cs := range summary.Channels {
		log.WithFields(logrus.Fields{
			"sensor":    cs.Sensor,
			"scans":     cs.Scans,
			"mean":      fmt.Sprintf("%.4f", cs.Mean),
			"rms":       fmt.Sprintf("%.4f", cs.RMS),
			"mean_peak": fmt.Sprintf("%.4f", cs.MeanPeak),
		}).Info("channel")
	}
}
