package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/internal/config"
)

// probeStride spaces the deletion probes a decade apart, starting at
// probeStart. Probes past span/2 are skipped.
const (
	probeStart  = 5
	probeStride = 10
)

func newSweepCommand() *cobra.Command {
	var (
		backend string
		span    int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Insert paired key ranges, then delete and verify probe keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}

			if cmd.Flags().Changed("span") {
				cfg.Sweep.Span = span
			}

			validateErr := cfg.Validate()
			if validateErr != nil {
				return validateErr
			}

			return runSweep(cfg)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "tree backend: arena or heap")
	cmd.Flags().IntVar(&span, "span", config.DefaultSweepSpan, "width of the paired insert range")

	return cmd
}

func runSweep(cfg *config.Config) error {
	tree, _ := newTree(cfg)
	span := cfg.Sweep.Span

	start := time.Now()

	// Keys i and span-i together cover 1..span-1, with span/2 twice.
	for i := span / 2; i < span; i++ {
		tree.Insert(uint32(i))
		tree.Insert(uint32(span - i))
	}

	elapsed := time.Since(start)

	validateErr := tree.Validate()
	if validateErr != nil {
		printVerdict(false)

		return fmt.Errorf("invariants violated after paired inserts: %w", validateErr)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"Probe", "Deleted", "Re-delete", "Invariants"})

	for probe := probeStart; probe <= span/2; probe *= probeStride {
		key := uint32(probe)

		_, found := tree.Delete(key)
		if !found {
			printVerdict(false)

			return fmt.Errorf("probe key %d missing before delete", probe)
		}

		probeErr := tree.Validate()
		if probeErr != nil {
			printVerdict(false)

			return fmt.Errorf("invariants violated after deleting %d: %w", probe, probeErr)
		}

		redelete := "dup"

		// The midpoint key is inserted twice, so only probes below it
		// must make the second delete a no-op.
		if probe != span/2 {
			_, again := tree.Delete(key)
			if again {
				printVerdict(false)

				return fmt.Errorf("probe key %d deleted twice", probe)
			}

			redelete = "no-op"
		}

		tbl.AppendRow(table.Row{humanize.Comma(int64(probe)), "yes", redelete, "ok"})
	}

	tbl.AppendFooter(table.Row{"Inserted", humanize.Comma(int64(tree.Len())), "in", elapsed.Round(time.Millisecond).String()})
	tbl.Render()

	printVerdict(true)

	return nil
}
