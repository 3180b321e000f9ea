package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hangar/app"
	"github.com/kilianp07/hangar/core/report"
	"github.com/kilianp07/hangar/pkg/export"
)

var (
	analyzeOut      string
	analyzeFormat   string
	analyzeParallel int
	analyzeStrict   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SNAPSHOT...",
	Short: "Validate inductions, schedule auto-inductions and build reports",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "directory receiving report and export files")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output file format: json or csv")
	analyzeCmd.Flags().IntVarP(&analyzeParallel, "parallel", "p", 4, "snapshots analysed concurrently")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "exit with an error when any error-severity violation is found")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "json" && analyzeFormat != "csv" {
		return fmt.Errorf("unsupported format %q", analyzeFormat)
	}
	return serve(cmd, func(ctx context.Context, svc *app.Service) error {
		outs, err := svc.AnalyzeFiles(ctx, args, analyzeParallel)
		if err != nil {
			return err
		}
		failed := 0
		for _, o := range outs {
			printReport(cmd.OutOrStdout(), o.Source, o.Result.Report)
			printSchedule(cmd.OutOrStdout(), o.Result.Schedule)
			failed += o.Result.Report.Summary.BySeverity[report.SeverityError]
			if analyzeOut != "" {
				if err := writeOutputs(analyzeOut, analyzeFormat, o); err != nil {
					return err
				}
			}
		}
		if analyzeStrict && failed > 0 {
			return fmt.Errorf("%d error violations", failed)
		}
		return nil
	})
}

func writeOutputs(dir, format string, o *app.Outcome) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := o.Airfield.Name
	if base == "" {
		base = filepath.Base(o.Source)
	}
	write := func(name string, fn func(*os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		return f.Close()
	}
	res := o.Result
	if format == "csv" {
		if err := write(base+".violations.csv", func(f *os.File) error { return export.WriteViolationsCSV(f, res.Report) }); err != nil {
			return err
		}
		return write(base+".inductions.csv", func(f *os.File) error { return export.WriteInductionsCSV(f, res.Export) })
	}
	if err := write(base+".report.json", func(f *os.File) error { return export.WriteJSON(f, res.Report) }); err != nil {
		return err
	}
	return write(base+".export.json", func(f *os.File) error { return export.WriteJSON(f, res.Export) })
}
