// Command fellrun-report runs headless simulation batches and prints
// per-run and aggregate statistics, optionally archiving each run to a
// SQLite database for offline analysis.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"fellrun/internal/eventlog"
	"fellrun/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	result   sim.Result

	firstEvadeTick   int
	firstCaptureTick int
	transitions      int
	evaderMoves      int
	evasions         int
	captures         int
}

func main() {
	var (
		runs       int
		seedBase   int64
		seedStep   int64
		configPath string
		archive    string
	)
	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.Int64Var(&seedBase, "seed-base", 42, "spawn-scatter seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "journey YAML (built-in journey when empty)")
	flag.StringVar(&archive, "archive", "", "SQLite archive path (empty disables)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}

	cfg := sim.DefaultRunConfig()
	if configPath != "" {
		var err error
		cfg, err = sim.LoadRunConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	var store *eventlog.Store
	if archive != "" {
		store = eventlog.NewStore(archive)
		if err := store.Init(context.Background()); err != nil {
			log.Fatal(err)
		}
		defer func() { _ = store.Close() }()
	}

	fmt.Printf("=== Fellrun Journey Report ===\n")
	fmt.Printf("maps=%d evaders=%d max_ticks=%d runs=%d seed_base=%d seed_step=%d\n\n",
		len(cfg.Journey), cfg.Evaders, cfg.MaxTicks, runs, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		cfg.Seed = seedBase + int64(i)*seedStep
		stats, err := runOnce(i+1, cfg)
		if err != nil {
			log.Fatal(err)
		}
		all = append(all, stats)
		printRun(stats)

		if store != nil {
			runID := fmt.Sprintf("seed-%d", cfg.Seed)
			if err := store.SaveRun(context.Background(), runID, stats.result); err != nil {
				fmt.Fprintf(os.Stderr, "archive run %d: %v\n", i+1, err)
			}
		}
	}

	printAggregate(all)
	if store != nil {
		printArchive(store)
	}
}

func runOnce(runIndex int, cfg sim.RunConfig) (runStats, error) {
	collector := sim.NewCollector()
	engine, err := sim.NewEngine(cfg, collector)
	if err != nil {
		return runStats{}, err
	}
	res, err := engine.Run()
	if err != nil {
		return runStats{}, fmt.Errorf("run %d: %w", runIndex, err)
	}

	stats := runStats{
		runIndex:         runIndex,
		seed:             cfg.Seed,
		result:           res,
		firstEvadeTick:   -1,
		firstCaptureTick: -1,
		transitions:      collector.CountKind(sim.EventMapTransition),
		evaderMoves:      collector.CountKind(sim.EventMoved),
		evasions:         collector.CountKind(sim.EventEvaded),
		captures:         collector.CountKind(sim.EventCaptured),
	}
	if ev, ok := collector.FirstOf(sim.EventEvaded); ok {
		stats.firstEvadeTick = ev.CumTick
	}
	if ev, ok := collector.FirstOf(sim.EventCaptured); ok {
		stats.firstCaptureTick = ev.CumTick
	}
	return stats, nil
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s escaped=%d captured=%d ticks=%s\n",
		rs.result.Outcome, rs.result.Escaped, rs.result.Captured,
		humanize.Comma(int64(rs.result.Ticks)))
	fmt.Printf("phase_markers: first_evade=%d first_capture=%d transitions=%d\n",
		rs.firstEvadeTick, rs.firstCaptureTick, rs.transitions)
	fmt.Printf("event_totals: moved=%s evaded=%s captured=%d\n\n",
		humanize.Comma(int64(rs.evaderMoves)), humanize.Comma(int64(rs.evasions)), rs.captures)
}

func printAggregate(all []runStats) {
	victories, defeats, timeouts := 0, 0, 0
	totalEscaped, totalCaptured, totalTicks, totalEvasions := 0, 0, 0, 0
	for _, rs := range all {
		switch rs.result.Outcome {
		case sim.OutcomeVictory:
			victories++
		case sim.OutcomeDefeat:
			defeats++
		case sim.OutcomeTimeout:
			timeouts++
		}
		totalEscaped += rs.result.Escaped
		totalCaptured += rs.result.Captured
		totalTicks += rs.result.Ticks
		totalEvasions += rs.evasions
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d victory=%d defeat=%d timeout=%d\n", n, victories, defeats, timeouts)
	fmt.Printf("avg_per_run: escaped=%.1f captured=%.1f ticks=%.1f evasions=%.1f\n",
		avg(totalEscaped, n), avg(totalCaptured, n), avg(totalTicks, n), avg(totalEvasions, n))
	fmt.Printf("total_ticks_simulated=%s\n", humanize.Comma(int64(totalTicks)))
}

func printArchive(store *eventlog.Store) {
	counts, err := store.OutcomeCounts(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "archive: %v\n", err)
		return
	}
	total, err := store.RunCount(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "archive: %v\n", err)
		return
	}
	fmt.Printf("\n=== Archive ===\nruns_stored=%d by_outcome=%v\n", total, counts)
}

func avg(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
