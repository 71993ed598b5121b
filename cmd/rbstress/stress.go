package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/internal/config"
	"github.com/Sumatoshi-tech/rbtree/pkg/rbtree"
)

// Multiplier and increment of the key generator. The stream wraps
// naturally at 2^32 and produces duplicate keys on long runs.
const (
	lcgMultiplier = 17
	lcgIncrement  = 255
)

func newStressCommand() *cobra.Command {
	var (
		backend       string
		count         int
		seed          uint32
		validateEvery int
		hibernate     bool
	)

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Insert a pseudo-random key stream and verify the invariants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}

			if cmd.Flags().Changed("count") {
				cfg.Stress.Count = count
			}

			if cmd.Flags().Changed("seed") {
				cfg.Stress.Seed = seed
			}

			if cmd.Flags().Changed("validate-every") {
				cfg.Stress.ValidateEvery = validateEvery
			}

			validateErr := cfg.Validate()
			if validateErr != nil {
				return validateErr
			}

			return runStress(cfg, hibernate)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "tree backend: arena or heap")
	cmd.Flags().IntVar(&count, "count", config.DefaultStressCount, "number of generated keys to insert")
	cmd.Flags().Uint32Var(&seed, "seed", config.DefaultStressSeed, "initial value of the key generator")
	cmd.Flags().IntVar(&validateEvery, "validate-every", config.DefaultStressValidateEvery, "run a full invariant check every N inserts (0 = only at the end)")
	cmd.Flags().BoolVar(&hibernate, "hibernate", false, "hibernate and boot the arena after the run (arena backend only)")

	return cmd
}

// newTree builds the configured backend. The arena pointer is nil for
// the heap backend.
func newTree(cfg *config.Config) (rbtree.Tree[uint32], *rbtree.Arena[uint32]) {
	if cfg.Backend == config.BackendHeap {
		return rbtree.NewHeap[uint32](), nil
	}

	arena := rbtree.NewArena[uint32]()
	arena.HibernationThreshold = cfg.Stress.HibernationThreshold

	return rbtree.NewWithArena(arena, rbtree.Ordered[uint32]()), arena
}

func runStress(cfg *config.Config, hibernate bool) error {
	tree, arena := newTree(cfg)

	if hibernate && arena == nil {
		slog.Default().Warn("hibernation applies to the arena backend only", "backend", cfg.Backend)

		hibernate = false
	}

	num := cfg.Stress.Seed
	start := time.Now()

	for i := 1; i <= cfg.Stress.Count; i++ {
		num = num*lcgMultiplier + lcgIncrement

		tree.Insert(num)

		if cfg.Stress.ValidateEvery > 0 && i%cfg.Stress.ValidateEvery == 0 {
			validateErr := tree.Validate()
			if validateErr != nil {
				return fmt.Errorf("invariants violated after %s inserts: %w", humanize.Comma(int64(i)), validateErr)
			}
		}
	}

	elapsed := time.Since(start)

	validateErr := tree.Validate()
	if validateErr != nil {
		printVerdict(false)

		return fmt.Errorf("invariants violated after final insert: %w", validateErr)
	}

	var hibernatedBytes int

	if hibernate {
		arena.Hibernate()
		hibernatedBytes = arena.HibernatedBytes()
		arena.Boot()

		rebootErr := tree.Validate()
		if rebootErr != nil {
			printVerdict(false)

			return fmt.Errorf("invariants violated after hibernate/boot cycle: %w", rebootErr)
		}
	}

	printStressReport(cfg, tree, arena, elapsed, hibernatedBytes)
	printVerdict(true)

	return nil
}

func printStressReport(cfg *config.Config, tree rbtree.Tree[uint32], arena *rbtree.Arena[uint32], elapsed time.Duration, hibernatedBytes int) {
	rate := float64(cfg.Stress.Count) / elapsed.Seconds()

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetOutputMirror(os.Stdout)

	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRow(table.Row{"Backend", cfg.Backend})
	tbl.AppendRow(table.Row{"Keys inserted", humanize.Comma(int64(cfg.Stress.Count))})
	tbl.AppendRow(table.Row{"Tree size", humanize.Comma(int64(tree.Len()))})
	tbl.AppendRow(table.Row{"Elapsed", elapsed.Round(time.Millisecond).String()})
	tbl.AppendRow(table.Row{"Inserts/sec", humanize.CommafWithDigits(rate, 0)})

	if arena != nil {
		tbl.AppendRow(table.Row{"Arena slots", humanize.Comma(int64(arena.Size()))})
		tbl.AppendRow(table.Row{"Arena live", humanize.Comma(int64(arena.Used()))})
	}

	if hibernatedBytes > 0 {
		tbl.AppendRow(table.Row{"Hibernated links", humanize.Bytes(uint64(hibernatedBytes))})
	}

	tbl.Render()
}

func printVerdict(ok bool) {
	if ok {
		color.New(color.FgGreen).Fprintln(os.Stdout, "Invariants hold: PASS")

		return
	}

	color.New(color.FgRed).Fprintln(os.Stdout, "Invariants hold: FAIL")
}
