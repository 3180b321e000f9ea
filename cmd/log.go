package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hangar/app"
	"github.com/kilianp07/hangar/core/analysislog"
)

var (
	logAirfield  string
	logInduction string
	logFailed    bool
	logSince     time.Duration
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Analysis history commands",
}

var logLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := analysislog.Query{Airfield: logAirfield, Induction: logInduction, FailedOnly: logFailed}
		if logSince > 0 {
			q.Start = time.Now().Add(-logSince)
		}
		return serve(cmd, func(ctx context.Context, svc *app.Service) error {
			recs, err := svc.History(ctx, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range recs {
				status := green("ok")
				if len(r.Unscheduled) > 0 {
					status = red(fmt.Sprintf("%d unscheduled", len(r.Unscheduled)))
				}
				fmt.Fprintf(out, "%s %s %-10s %3d violations %s %s\n",
					gray(r.Timestamp.Format(time.RFC3339)), r.RunID[:min(8, len(r.RunID))], r.Airfield,
					r.Summary.Total, status, gray(strings.TrimSpace(r.Source)))
			}
			return nil
		})
	},
}

func init() {
	logLsCmd.Flags().StringVar(&logAirfield, "airfield", "", "only runs of this airfield")
	logLsCmd.Flags().StringVar(&logInduction, "induction", "", "only runs involving this auto-induction id")
	logLsCmd.Flags().BoolVar(&logFailed, "failed", false, "only runs leaving auto-inductions unscheduled")
	logLsCmd.Flags().DurationVar(&logSince, "since", 0, "only runs newer than this duration")
	logCmd.AddCommand(logLsCmd)
	rootCmd.AddCommand(logCmd)
}
