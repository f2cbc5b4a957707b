package sim

// Outcome is the terminal state of one run.
type Outcome int

const (
	OutcomeNone    Outcome = iota // run still in progress
	OutcomeVictory                // at least one evader crossed the final exit
	OutcomeDefeat                 // every evader captured
	OutcomeTimeout                // tick ceiling reached
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeNone:
		return "in_progress"
	default:
		return "unknown"
	}
}

// Result is the terminal summary of one run, assembled exactly once from the
// tallies accumulated during the run — never reconstructed from events.
// Events is populated only when the engine's sink included a Collector.
type Result struct {
	Outcome  Outcome
	Escaped  int // evaders that reached the exit of the map the run ended on
	Captured int
	Ticks    int // cumulative across all map stages
	Events   []Event
}
