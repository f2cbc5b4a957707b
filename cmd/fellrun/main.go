// Command fellrun plays a journey in the terminal: the grid redraws every
// tick with a fixed delay, or advances one tick per key press in step mode.
// The simulation itself runs with zero delay — pacing lives entirely here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"fellrun/internal/eventlog"
	"fellrun/internal/sim"
)

type viewer struct {
	screen tcell.Screen
	engine *sim.Engine
	log    *sim.Collector

	paused   bool
	stepMode bool
	status   string
}

func main() {
	var (
		configPath string
		delayMs    int
		stepMode   bool
		logDir     string
		archive    string
	)
	flag.StringVar(&configPath, "config", "", "journey YAML (built-in journey when empty)")
	flag.IntVar(&delayMs, "delay", 150, "milliseconds between ticks")
	flag.BoolVar(&stepMode, "step", false, "advance one tick per key press")
	flag.StringVar(&logDir, "log-dir", "logs", "directory for JSONL event logs (empty disables)")
	flag.StringVar(&archive, "archive", "", "SQLite archive path (empty disables)")
	flag.Parse()

	cfg := sim.DefaultRunConfig()
	if configPath != "" {
		var err error
		cfg, err = sim.LoadRunConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	collector := sim.NewCollector()
	sinks := sim.Tee{collector}

	var fileSink *eventlog.FileSink
	runID := "unsaved"
	if logDir != "" {
		fs, err := eventlog.NewFileSink(logDir)
		if err != nil {
			log.Fatal(err)
		}
		fileSink = fs
		runID = fs.RunID()
		sinks = append(sinks, fs)
	}

	engine, err := sim.NewEngine(cfg, sinks)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal init: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal init: %v\n", err)
		os.Exit(1)
	}

	v := &viewer{screen: screen, engine: engine, log: collector, stepMode: stepMode}
	v.run(time.Duration(delayMs) * time.Millisecond)
	screen.Fini()

	res := engine.Result()
	if fileSink != nil {
		if err := fileSink.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "event log: %v\n", err)
		} else {
			fmt.Printf("event log: %s\n", fileSink.Path())
		}
	}
	if archive != "" {
		archiveRun(archive, runID, res)
	}
	fmt.Printf("outcome=%s escaped=%d captured=%d ticks=%d\n",
		res.Outcome, res.Escaped, res.Captured, res.Ticks)
}

func archiveRun(path, runID string, res sim.Result) {
	store := eventlog.NewStore(path)
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "archive: %v\n", err)
		return
	}
	defer func() { _ = store.Close() }()
	if err := store.SaveRun(ctx, runID, res); err != nil {
		fmt.Fprintf(os.Stderr, "archive: %v\n", err)
	}
}

func (v *viewer) run(delay time.Duration) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			events <- v.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	v.draw()
	for {
		select {
		case ev := <-events:
			if !v.handleInput(ev) {
				return
			}
			v.draw()
		case <-ticker.C:
			if v.stepMode || v.paused || v.engine.Done() {
				continue
			}
			v.advance()
			v.draw()
		}
	}
}

// advance steps one tick; an invariant violation is fatal by design.
func (v *viewer) advance() {
	if err := v.engine.Step(); err != nil {
		v.screen.Fini()
		log.Fatal(err)
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'c':
			v.copyReport()
		case ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' '):
			if v.stepMode {
				if v.engine.Done() {
					return false
				}
				v.advance()
			} else {
				v.paused = !v.paused
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// copyReport puts the run summary and recent events on the system clipboard.
func (v *viewer) copyReport() {
	w := v.engine.World()
	report := fmt.Sprintf("fellrun map=%d tick=%d cum=%d captured=%d outcome=%s\n\n%s",
		w.MapIndex, w.Tick, w.CumTick, w.Captured, v.engine.Outcome(), v.log.Format())
	if err := clipboard.WriteAll(report); err != nil {
		v.status = "clipboard unavailable"
		return
	}
	v.status = "report copied"
}

var symbolStyles = map[rune]tcell.Style{
	sim.SymbolTerrain: tcell.StyleDefault.Foreground(tcell.ColorGray),
	sim.SymbolEntry:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	sim.SymbolExit:    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	sim.SymbolPursuer: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	sim.SymbolEmpty:   tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray),
}

func (v *viewer) draw() {
	v.screen.Clear()
	w := v.engine.World()

	y := 0
	for _, line := range splitLines(sim.RenderText(w)) {
		for x, r := range line {
			style, ok := symbolStyles[r]
			if !ok {
				// Evader initial.
				style = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
			}
			v.screen.SetContent(x*2, y, r, nil, style)
		}
		y++
	}

	hud := fmt.Sprintf("map %d/%d  tick %d (cum %d)  active %d  captured %d",
		w.MapIndex+1, v.engine.JourneyLength(), w.Tick, w.CumTick, len(w.Evaders()), w.Captured)
	v.drawText(0, y+1, hud, tcell.StyleDefault)
	help := "space pause  c copy report  q quit"
	if v.stepMode {
		help = "space/enter step  c copy report  q quit"
	}
	v.drawText(0, y+2, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
	if v.engine.Done() {
		v.drawText(0, y+3, "run over: "+v.engine.Outcome().String(),
			tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}
	if v.status != "" {
		v.drawText(0, y+4, v.status, tcell.StyleDefault.Foreground(tcell.ColorGreen))
	}
	v.screen.Show()
}

func (v *viewer) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
