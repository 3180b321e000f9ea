package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hangar/app"
	"github.com/kilianp07/hangar/pkg/export"
)

var scheduleJSON bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule SNAPSHOT",
	Short: "Place auto-inductions without building the full report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd, func(ctx context.Context, svc *app.Service) error {
			m, res, err := svc.ScheduleFile(ctx, args[0])
			if err != nil {
				return err
			}
			if scheduleJSON {
				return export.WriteJSON(cmd.OutOrStdout(), res)
			}
			cmd.Printf("%s %s\n", cyan(m.Name), gray(args[0]))
			printSchedule(cmd.OutOrStdout(), res)
			return nil
		})
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "print the schedule as JSON")
	rootCmd.AddCommand(scheduleCmd)
}
