package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/siderea/internal/dasha"
	"github.com/papapumpkin/siderea/internal/telemetry"
)

var dashaCmd = &cobra.Command{
	Use:   "dasha",
	Short: "Assemble the Vimshottari dasha timeline for a birth",
	Long: `Assembles the Vimshottari timeline from the Moon's sidereal longitude at
birth and prints the periods overlapping the requested window.

With --at, prints the chain of periods active at that instant instead.`,
	RunE: runDasha,
}

func init() {
	addChartFlags(dashaCmd)
	dashaCmd.Flags().String("until", "", "window end, RFC 3339 (default: birth + 120 dasha years)")
	dashaCmd.Flags().Int("level", 2, "subdivision depth: 1 Mahadasha, 2 Antardasha, 3 Pratyantardasha")
	dashaCmd.Flags().String("at", "", "print the active period chain at this instant, RFC 3339")
	rootCmd.AddCommand(dashaCmd)
}

func runDasha(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	birth, err := instantFromFlags(cmd)
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetInt("level")

	until := birth.Time.Add(time.Duration(dasha.TotalYears * float64(dasha.YearDuration)))
	if raw, _ := cmd.Flags().GetString("until"); raw != "" {
		until, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("parse --until: %w", err)
		}
	}

	tl, err := dasha.FromProvider(s.provider, birth, until, level)
	if err != nil {
		return err
	}
	s.emit(telemetry.KindDashaAssembled, chartID(birth), map[string]any{
		"nakshatra": tl.Nakshatra.Name,
		"level":     level,
		"periods":   len(tl.AtLevel(level)),
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Moon in %s (lord %s, %.1f%% transited)\n",
		tl.Nakshatra.Name, tl.Nakshatra.Lord, tl.Nakshatra.Elapsed*100)

	if raw, _ := cmd.Flags().GetString("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
		return printActiveChain(out, tl, at)
	}

	printPeriods(out, tl.Periods, 0)
	return nil
}

func printPeriods(w io.Writer, ps []dasha.Period, depth int) {
	for _, p := range ps {
		fmt.Fprintf(w, "%s%-8s %s → %s\n",
			strings.Repeat("  ", depth), p.Lord,
			p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
		printPeriods(w, p.Children, depth+1)
	}
}

// printActiveChain walks the tree printing the period containing the instant
// at each materialized level.
func printActiveChain(w io.Writer, tl *dasha.Timeline, at time.Time) error {
	if _, ok := tl.Active(at); !ok {
		return fmt.Errorf("dasha: %v is outside the materialized timeline", at)
	}
	ps := tl.Periods
	for len(ps) > 0 {
		var next []dasha.Period
		for _, p := range ps {
			if !at.Before(p.Start) && at.Before(p.End) {
				fmt.Fprintf(w, "%s%-8s %s → %s\n",
					strings.Repeat("  ", p.Level-1), p.Lord,
					p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
				next = p.Children
				break
			}
		}
		ps = next
	}
	return nil
}
