package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
	"github.com/kilianp07/hangar/core/search"
)

var (
	fitAircraft  string
	fitHangar    string
	fitClearance string
)

var fitCmd = &cobra.Command{
	Use:   "fit SNAPSHOT",
	Short: "Show which doors and bay sets of a hangar can take an aircraft",
	Args:  cobra.ExactArgs(1),
	RunE:  runFit,
}

func init() {
	fitCmd.Flags().StringVar(&fitAircraft, "aircraft", "", "aircraft type name")
	fitCmd.Flags().StringVar(&fitHangar, "hangar", "", "hangar name (all hangars when empty)")
	fitCmd.Flags().StringVar(&fitClearance, "clearance", "", "clearance envelope overriding the aircraft default")
	_ = fitCmd.MarkFlagRequired("aircraft")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := model.Load(args[0])
	if err != nil {
		return err
	}
	idx := model.NewIndex(m)
	ac, ok := idx.Aircraft(fitAircraft)
	if !ok {
		return fmt.Errorf("unknown aircraft %q", fitAircraft)
	}
	hangars := idx.Hangars()
	if fitHangar != "" {
		h, ok := idx.Hangar(fitHangar)
		if !ok {
			return fmt.Errorf("unknown hangar %q", fitHangar)
		}
		hangars = []*model.Hangar{h}
	}
	clr := idx.ClearanceFor(ac, fitClearance)
	d := geometry.Effective(ac, clr)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s effective wingspan %.2fm length %.2fm tail %.2fm\n",
		cyan(ac.Name), d.Wingspan, d.Length, d.TailHeight)
	for _, h := range hangars {
		printFit(out, ac, h, clr, cfg.Scheduler.MaxBaysPerSet)
	}
	return nil
}

func printFit(w io.Writer, ac model.AircraftType, h *model.Hangar, clr *model.ClearanceEnvelope, maxBays int) {
	fmt.Fprintf(w, "%s\n", bold(h.Name))
	doors := search.FindSuitableDoors(ac, h, clr)
	for _, door := range doors.Doors {
		fmt.Fprintf(w, "  %s door %s\n", green("fits"), door.Name)
	}
	for _, r := range doors.Rejected {
		if ev, ok := r.Evidence.(rules.DoorFitEvidence); ok {
			fmt.Fprintf(w, "  %s door %s: %s\n", red("rejects"), ev.Door, strings.Join(ev.FailedConstraints, "; "))
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", red("rejects"), r.Message)
	}
	sets := search.FindSuitableBaySets(ac, h, clr, maxBays)
	fmt.Fprintf(w, "  bays required: %d %s\n", sets.BaysRequired.Count, gray(sets.BaysRequired.Calculation))
	if len(sets.Sets) == 0 {
		fmt.Fprintf(w, "  %s\n", red("no suitable bay set"))
		return
	}
	for _, s := range sets.Sets {
		fmt.Fprintf(w, "  %s bays %s\n", green("fits"), strings.Join(rules.BayNames(s), ","))
	}
}
