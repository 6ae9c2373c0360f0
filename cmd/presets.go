package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FoxhunterLabs/Casper-Fusion/sim/presets"
)

// presetsCmd lists the built-in scenario tables so operators can see what
// --ao/--env/--envelope accept.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List scenario preset tables",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

		fmt.Fprintln(w, "AREAS OF OPERATION")
		for _, name := range sortedKeys(presets.AreasOfOperation) {
			ao := presets.AreasOfOperation[name]
			fmt.Fprintf(w, "  %s\t%s\t(%.4f, %.4f) ±(%.2f, %.2f)\n",
				name, ao.Label, ao.BaseLat, ao.BaseLon, ao.LatDelta, ao.LonDelta)
		}

		fmt.Fprintln(w, "\nENVIRONMENTS")
		for _, name := range sortedKeys(presets.Environments) {
			env := presets.Environments[name]
			fmt.Fprintf(w, "  %s\tlatency=%.0f±%.0fms\tjam=%.2f\teoir_degrade=%.2f\n",
				name, env.LatencyBase, env.LatencyJitter, env.GNSSJamFactor, env.EOIRDegrade)
		}

		fmt.Fprintln(w, "\nFLIGHT ENVELOPES")
		for _, name := range sortedKeys(presets.Envelopes) {
			e := presets.Envelopes[name]
			fmt.Fprintf(w, "  %s\tmach≤%.1f\tq≤%.0fkPa\tthermal≤%.2f\t%s\n",
				name, e.MaxMach, e.MaxQKPa, e.MaxThermalIndex, e.Description)
		}

		fmt.Fprintln(w, "\nTHRESHOLD PRESETS")
		for _, name := range sortedKeys(presets.Thresholds) {
			t := presets.Thresholds[name]
			fmt.Fprintf(w, "  %s\tclarity≥%.0f\tthreat≤%.0f\t%s\n",
				name, t.ClarityThreshold, t.ThreatThreshold, t.Description)
		}

		fmt.Fprintln(w, "\nMISSION STAGES")
		for _, s := range presets.MissionStages {
			fmt.Fprintf(w, "  %s\t%s\t%d ticks\t%s\n", s.Code, s.Label, s.Duration, s.Description)
		}

		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
