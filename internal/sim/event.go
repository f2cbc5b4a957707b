package sim

import (
	"fmt"
	"strings"
)

// EventKind tags one kind of simulation event.
type EventKind string

const (
	EventTurnStart     EventKind = "turn_start"
	EventMoved         EventKind = "moved"
	EventEvaded        EventKind = "evaded"
	EventCaptured      EventKind = "captured"
	EventMapTransition EventKind = "map_transition"
	EventVictory       EventKind = "victory"
	EventDefeat        EventKind = "defeat"
	EventTimeout       EventKind = "timeout"
)

// Event is one immutable fact recorded during a run. Events are append-only
// and never influence decisions; the engine emits them and forgets them.
// From/To are nil for events without movement, FromMap/ToMap are -1 except
// on map transitions.
type Event struct {
	Kind    EventKind `json:"kind"`
	Tick    int       `json:"tick"`     // per-map tick at emission
	CumTick int       `json:"cum_tick"` // cumulative tick across the journey
	Map     int       `json:"map"`      // active map index
	Name    string    `json:"name,omitempty"`
	From    *Position `json:"from,omitempty"`
	To      *Position `json:"to,omitempty"`
	FromMap int       `json:"from_map"`
	ToMap   int       `json:"to_map"`
}

// String formats the event as a fixed-width log line.
//
//	[T=042/0103] moved          Rowan (3,7) → (5,7)
func (e Event) String() string {
	var detail string
	switch {
	case e.From != nil && e.To != nil:
		detail = fmt.Sprintf("%s (%d,%d) → (%d,%d)", e.Name, e.From.X, e.From.Y, e.To.X, e.To.Y)
	case e.Kind == EventMapTransition:
		detail = fmt.Sprintf("map %d → %d", e.FromMap, e.ToMap)
	default:
		detail = e.Name
	}
	return fmt.Sprintf("[T=%03d/%04d] %-14s %s", e.Tick, e.CumTick, e.Kind, detail)
}

// Sink receives events as they are emitted. Record must never fail the
// simulation: implementations swallow their own errors, and the engine treats
// a nil sink as a silent no-op.
type Sink interface {
	Record(ev Event)
}

// Collector is an in-memory ordered Sink used for post-run verification.
// Unbounded and machine-queryable, in contrast to a durable file sink.
type Collector struct {
	events []Event
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends the event.
func (c *Collector) Record(ev Event) {
	c.events = append(c.events, ev)
}

// Events returns all recorded events in emission order.
func (c *Collector) Events() []Event {
	return c.events
}

// Filter returns events matching kind and/or entity name. Pass the zero
// value to match any value for that field.
func (c *Collector) Filter(kind EventKind, name string) []Event {
	var out []Event
	for _, e := range c.events {
		if kind != "" && e.Kind != kind {
			continue
		}
		if name != "" && e.Name != name {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountKind returns how many events carry the given kind.
func (c *Collector) CountKind(kind EventKind) int {
	return len(c.Filter(kind, ""))
}

// FirstOf returns the earliest event of the given kind, or false if none.
func (c *Collector) FirstOf(kind EventKind) (Event, bool) {
	for _, e := range c.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

// LastOf returns the most recent event of the given kind, or false if none.
func (c *Collector) LastOf(kind EventKind) (Event, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Kind == kind {
			return c.events[i], true
		}
	}
	return Event{}, false
}

// Format returns the full event list as a single string for t.Log output.
func (c *Collector) Format() string {
	var sb strings.Builder
	for _, e := range c.events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Tee fans one event stream out to several sinks. Nil members are skipped.
type Tee []Sink

// Record forwards the event to every non-nil sink.
func (t Tee) Record(ev Event) {
	for _, s := range t {
		if s != nil {
			s.Record(ev)
		}
	}
}
