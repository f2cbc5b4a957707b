package sim

// Harness is a headless run wrapper used by tests and the batch report
// command. It owns an Engine wired to an in-memory Collector, supports
// deterministic seeding, and advances with zero delay.
type Harness struct {
	Engine *Engine
	Log    *Collector
}

// HarnessOption mutates the run configuration during NewHarness.
type HarnessOption func(*RunConfig)

// WithMap appends one stage to the journey.
func WithMap(mc MapConfig) HarnessOption {
	return func(rc *RunConfig) {
		rc.Journey = append(rc.Journey, mc)
	}
}

// WithEvaders sets the starting evader count.
func WithEvaders(n int) HarnessOption {
	return func(rc *RunConfig) {
		rc.Evaders = n
	}
}

// WithRoster overrides the display-name pool.
func WithRoster(names ...string) HarnessOption {
	return func(rc *RunConfig) {
		rc.Roster = names
	}
}

// WithMaxTicks sets the run's tick ceiling.
func WithMaxTicks(n int) HarnessOption {
	return func(rc *RunConfig) {
		rc.MaxTicks = n
	}
}

// WithSeed sets the spawn-scatter seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return func(rc *RunConfig) {
		rc.Seed = seed
	}
}

// WithConstants overrides the decision-rule constants.
func WithConstants(dangerDistance, evaderSpeed, pursuerSpeed int) HarnessOption {
	return func(rc *RunConfig) {
		rc.DangerDistance = dangerDistance
		rc.EvaderSpeed = evaderSpeed
		rc.PursuerSpeed = pursuerSpeed
	}
}

// NewHarness builds a Harness from the options. The default configuration is
// empty: callers must add at least one map and one evader or construction
// fails with the corresponding configuration error.
func NewHarness(opts ...HarnessOption) (*Harness, error) {
	rc := RunConfig{}
	for _, o := range opts {
		o(&rc)
	}
	log := NewCollector()
	eng, err := NewEngine(rc, log)
	if err != nil {
		return nil, err
	}
	return &Harness{Engine: eng, Log: log}, nil
}

// RunTicks advances up to n ticks, stopping early on a terminal condition.
func (h *Harness) RunTicks(n int) error {
	for i := 0; i < n && !h.Engine.Done(); i++ {
		if err := h.Engine.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil steps until predicate returns true or the run ends. Returns the
// cumulative tick at which the predicate held, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool) (int, error) {
	for !h.Engine.Done() {
		if err := h.Engine.Step(); err != nil {
			return -1, err
		}
		if predicate(h) {
			return h.Engine.World().CumTick, nil
		}
	}
	return -1, nil
}

// RunToCompletion steps until a terminal condition fires.
func (h *Harness) RunToCompletion() (Result, error) {
	return h.Engine.Run()
}
