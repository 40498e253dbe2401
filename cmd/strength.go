package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
	"github.com/papapumpkin/siderea/internal/strength"
	"github.com/papapumpkin/siderea/internal/telemetry"
)

var strengthCmd = &cobra.Command{
	Use:   "strength",
	Short: "Score planetary strength for a birth chart",
	Long: `Scores each body's positional, directional, and temporal strength and the
composite on a 0–100 scale, then aggregates per-life-domain impacts.

With --time-known=false the directional component is reported unavailable
and the composite renormalizes over the remaining components.`,
	RunE: runStrength,
}

func init() {
	addChartFlags(strengthCmd)
	strengthCmd.Flags().Bool("time-known", true, "whether the birth time is exact")
	rootCmd.AddCommand(strengthCmd)
}

func runStrength(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	in, err := instantFromFlags(cmd)
	if err != nil {
		return err
	}
	timeKnown, _ := cmd.Flags().GetBool("time-known")
	bc, err := chart.NewBirthContext(in.Time, in.Latitude, in.Longitude, in.Zone, timeKnown)
	if err != nil {
		return err
	}

	// Dignities are sign placements in the sidereal zodiac.
	set, err := s.provider.Positions(in, ephemeris.Sidereal)
	if err != nil {
		return err
	}

	res, err := strength.New(s.tab).Score(set, bc)
	if err != nil {
		return err
	}
	s.emit(telemetry.KindStrengthScored, chartID(in), map[string]any{
		"bodies":     len(res.Scores),
		"time_known": timeKnown,
	})

	out := cmd.OutOrStdout()
	for _, b := range ephemeris.Bodies {
		sc, ok := res.Scores[b]
		if !ok {
			continue
		}
		dir := "  n/a"
		if sc.Directional != nil {
			dir = fmt.Sprintf("%5.2f", *sc.Directional)
		}
		fmt.Fprintf(out, "%-8s composite %6.2f  positional %5.2f  directional %s  temporal %5.2f\n",
			b, sc.Composite, sc.Positional, dir, sc.Temporal)
	}

	fmt.Fprintln(out)
	domains := make([]string, 0, len(res.Domains))
	for d := range res.Domains {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		fmt.Fprintf(out, "%-14s %6.2f\n", d, res.Domains[d])
	}
	return nil
}
