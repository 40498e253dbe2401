package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/siderea/internal/aspect"
	"github.com/papapumpkin/siderea/internal/chart"
	"github.com/papapumpkin/siderea/internal/ephemeris"
	"github.com/papapumpkin/siderea/internal/telemetry"
)

var aspectsCmd = &cobra.Command{
	Use:   "aspects",
	Short: "Find transit aspects against a natal chart",
	Long: `Classifies aspects between the transiting sky and a natal chart.

Without a window, samples the sky at --at (default: now) and reports every
aspect within orb. With --from and --to, scans the window and reports the
exact-alignment instants found by bisection. With --time-b, compares a second
chart against the first (synastry) instead of the transiting sky.

--pulse condenses the snapshot's aspects into a categorical label.`,
	RunE: runAspects,
}

func init() {
	addChartFlags(aspectsCmd)
	aspectsCmd.Flags().String("frame", "tropical", "zodiac frame: tropical or sidereal")
	aspectsCmd.Flags().String("at", "", "snapshot instant, RFC 3339 (default: now)")
	aspectsCmd.Flags().String("from", "", "scan window start, RFC 3339")
	aspectsCmd.Flags().String("to", "", "scan window end, RFC 3339")
	aspectsCmd.Flags().Duration("step", aspect.DefaultScanStep, "scan sampling interval")
	aspectsCmd.Flags().Bool("pulse", false, "print the pulse label for the snapshot")
	aspectsCmd.Flags().String("time-b", "", "second chart instant for synastry, RFC 3339")
	aspectsCmd.Flags().Float64("lat-b", 0, "second chart latitude")
	aspectsCmd.Flags().Float64("lon-b", 0, "second chart longitude")
	aspectsCmd.Flags().String("zone-b", "UTC", "second chart time zone")
	rootCmd.AddCommand(aspectsCmd)
}

func runAspects(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	natalInstant, err := instantFromFlags(cmd)
	if err != nil {
		return err
	}
	frameName, _ := cmd.Flags().GetString("frame")
	frame, err := parseFrame(frameName)
	if err != nil {
		return err
	}

	natal, err := s.provider.Positions(natalInstant, frame)
	if err != nil {
		return err
	}
	engine := aspect.New(s.tab)
	out := cmd.OutOrStdout()

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if (from == "") != (to == "") {
		return fmt.Errorf("--from and --to must be given together")
	}

	if from != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
		step, _ := cmd.Flags().GetDuration("step")

		events, err := engine.ScanWindow(s.provider, natal, start, end, step)
		if err != nil {
			return err
		}
		s.emit(telemetry.KindExactnessFound, chartID(natalInstant), map[string]any{
			"window_start": start,
			"window_end":   end,
			"events":       len(events),
		})
		for _, evt := range events {
			printAspect(out, evt)
		}
		return nil
	}

	var moving ephemeris.PositionSet
	if rawB, _ := cmd.Flags().GetString("time-b"); rawB != "" {
		atB, err := time.Parse(time.RFC3339, rawB)
		if err != nil {
			return fmt.Errorf("parse --time-b: %w", err)
		}
		latB, _ := cmd.Flags().GetFloat64("lat-b")
		lonB, _ := cmd.Flags().GetFloat64("lon-b")
		zoneB, _ := cmd.Flags().GetString("zone-b")
		instantB, err := chart.NewInstant(atB, latB, lonB, zoneB)
		if err != nil {
			return err
		}
		moving, err = s.provider.Positions(instantB, frame)
		if err != nil {
			return err
		}
	} else {
		at := time.Now().UTC()
		if raw, _ := cmd.Flags().GetString("at"); raw != "" {
			at, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return fmt.Errorf("parse --at: %w", err)
			}
		}
		// Transit positions are geocentric; the observer coordinate is immaterial.
		movingInstant, err := chart.NewInstant(at, 0, 0, "UTC")
		if err != nil {
			return err
		}
		moving, err = s.provider.Positions(movingInstant, frame)
		if err != nil {
			return err
		}
	}

	events := engine.Find(moving, natal)
	s.emit(telemetry.KindAspectsScanned, chartID(natalInstant), map[string]any{
		"events": len(events),
	})
	for _, evt := range events {
		printAspect(out, evt)
	}

	if showPulse, _ := cmd.Flags().GetBool("pulse"); showPulse {
		res := engine.Pulse(events)
		fmt.Fprintf(out, "\npulse: %s (net %+.2f, harmony %.2f, tension %.2f, activity %.2f)\n",
			res.Label, res.Net, res.Harmony, res.Tension, res.Activity)
	}
	return nil
}

func printAspect(w io.Writer, evt aspect.Event) {
	line := fmt.Sprintf("%-8s %-11s %-8s sep %8.3f°  dev %6.3f°  orb %4.1f°",
		evt.BodyA, evt.Kind, evt.BodyB, evt.Separation, evt.OrbDeviation, evt.Orb)
	if evt.Exact != nil {
		line += "  exact " + evt.Exact.Format(time.RFC3339)
	}
	fmt.Fprintln(w, line)
}
