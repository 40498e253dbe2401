package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/siderea/internal/ephemeris"
	"github.com/papapumpkin/siderea/internal/telemetry"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Compute planetary positions for an instant",
	Long: `Computes ecliptic positions for all twelve bodies at the given instant.

Positions come from the precise ephemeris database when one is configured
and covers the instant; otherwise the built-in analytic series are used and
the reduced accuracy is disclosed.`,
	RunE: runPositions,
}

func init() {
	addChartFlags(positionsCmd)
	positionsCmd.Flags().String("frame", "tropical", "zodiac frame: tropical or sidereal")
	rootCmd.AddCommand(positionsCmd)
}

func runPositions(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	in, err := instantFromFlags(cmd)
	if err != nil {
		return err
	}
	frameName, _ := cmd.Flags().GetString("frame")
	frame, err := parseFrame(frameName)
	if err != nil {
		return err
	}

	set, err := s.provider.Positions(in, frame)
	if err != nil {
		return err
	}
	s.emit(telemetry.KindPositionsComputed, chartID(in), map[string]any{
		"frame":    frame.String(),
		"accuracy": s.provider.Accuracy().String(),
	})

	out := cmd.OutOrStdout()
	if s.fellBack {
		fmt.Fprintln(out, "note: precise ephemeris unavailable, positions are approximate")
	}
	for _, b := range ephemeris.Bodies {
		p := set[b]
		marker := " "
		if p.Retrograde {
			marker = "R"
		}
		fmt.Fprintf(out, "%-8s %9.4f°  %-11s %05.2f° %s  lat %+8.4f°  speed %+9.4f°/d\n",
			b, p.Longitude, signOf(p.Longitude), math.Mod(p.Longitude, 30), marker, p.Latitude, p.Speed)
	}
	return nil
}
