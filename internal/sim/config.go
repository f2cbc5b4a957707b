package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Default decision-rule constants. Overridable per run for tests; the
// defaults match the tuned journey balance: evaders are strictly faster than
// pursuers, so captures come from cornering, not raw speed.
const (
	DefaultDangerDistance = 6
	DefaultEvaderSpeed    = 2
	DefaultPursuerSpeed   = 1
	DefaultMaxTicks       = 500
)

// DefaultRoster is the display-name pool evaders draw from, in ID order.
// Owned by run configuration; nothing in the engine depends on the names.
var DefaultRoster = []string{
	"Rowan", "Bryn", "Tamsin", "Pip", "Col", "Maret", "Wren", "Iser",
}

// Configuration errors surfaced by Validate. All are fatal at setup time:
// the engine refuses to start rather than run with undefined per-tick
// behaviour.
var (
	ErrEmptyJourney   = errors.New("journey has no maps")
	ErrBadDimensions  = errors.New("map dimensions must be positive")
	ErrBlockedEntry   = errors.New("entry position is invalid or inside terrain")
	ErrBlockedExit    = errors.New("exit position is invalid or inside terrain")
	ErrBlockedSpawn   = errors.New("pursuer spawn is invalid or inside terrain")
	ErrNoEvaders      = errors.New("run must start with at least one evader")
	ErrRosterTooSmall = errors.New("roster has fewer names than evaders")
)

// MapConfig is the static blueprint for one stage of the journey. Constructed
// once at configuration time and read-only afterwards.
type MapConfig struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	Entry         Position   `yaml:"entry"`
	Exit          Position   `yaml:"exit"`
	Terrain       []Position `yaml:"terrain,omitempty"`
	PursuerSpawns []Position `yaml:"pursuer_spawns,omitempty"`

	// PursuerCount > 0 with no explicit spawns scatters that many pursuers
	// deterministically from the run seed.
	PursuerCount int `yaml:"pursuer_count,omitempty"`
}

// terrainSet builds the Terrain lookup for this map.
func (mc MapConfig) terrainSet() Terrain {
	return NewTerrain(mc.Terrain...)
}

// validate checks one map stage. idx is used only for error context.
func (mc MapConfig) validate(idx int) error {
	if mc.Width <= 0 || mc.Height <= 0 {
		return fmt.Errorf("map %d: %w (%dx%d)", idx, ErrBadDimensions, mc.Width, mc.Height)
	}
	t := mc.terrainSet()
	if !ValidPosition(mc.Entry, mc.Width, mc.Height, t) {
		return fmt.Errorf("map %d: %w: (%d,%d)", idx, ErrBlockedEntry, mc.Entry.X, mc.Entry.Y)
	}
	if !ValidPosition(mc.Exit, mc.Width, mc.Height, t) {
		return fmt.Errorf("map %d: %w: (%d,%d)", idx, ErrBlockedExit, mc.Exit.X, mc.Exit.Y)
	}
	for _, p := range mc.PursuerSpawns {
		if !ValidPosition(p, mc.Width, mc.Height, t) {
			return fmt.Errorf("map %d: %w: (%d,%d)", idx, ErrBlockedSpawn, p.X, p.Y)
		}
	}
	return nil
}

// RunConfig is everything one simulation run consumes: the ordered journey,
// the tick ceiling, entity counts and the decision-rule constants.
type RunConfig struct {
	Journey  []MapConfig `yaml:"journey"`
	Evaders  int         `yaml:"evaders"`
	MaxTicks int         `yaml:"max_ticks"`
	Roster   []string    `yaml:"roster,omitempty"`

	DangerDistance int `yaml:"danger_distance,omitempty"`
	EvaderSpeed    int `yaml:"evader_speed,omitempty"`
	PursuerSpeed   int `yaml:"pursuer_speed,omitempty"`

	// Seed drives deterministic pursuer scatter for maps that give a
	// PursuerCount instead of explicit spawns. Same seed, same run.
	Seed int64 `yaml:"seed,omitempty"`
}

// withDefaults fills zero-valued tunables.
func (rc RunConfig) withDefaults() RunConfig {
	if rc.MaxTicks == 0 {
		rc.MaxTicks = DefaultMaxTicks
	}
	if rc.DangerDistance == 0 {
		rc.DangerDistance = DefaultDangerDistance
	}
	if rc.EvaderSpeed == 0 {
		rc.EvaderSpeed = DefaultEvaderSpeed
	}
	if rc.PursuerSpeed == 0 {
		rc.PursuerSpeed = DefaultPursuerSpeed
	}
	if rc.Roster == nil {
		rc.Roster = DefaultRoster
	}
	return rc
}

// Validate checks the whole run configuration. Returns the first fault found.
func (rc RunConfig) Validate() error {
	if len(rc.Journey) == 0 {
		return ErrEmptyJourney
	}
	if rc.Evaders <= 0 {
		return ErrNoEvaders
	}
	roster := rc.Roster
	if roster == nil {
		roster = DefaultRoster
	}
	if rc.Evaders > len(roster) {
		return fmt.Errorf("%w: %d evaders, %d names", ErrRosterTooSmall, rc.Evaders, len(roster))
	}
	for i, mc := range rc.Journey {
		if err := mc.validate(i); err != nil {
			return err
		}
	}
	return nil
}

// spawnPositions resolves the pursuer spawns for one map: explicit spawns
// first, then PursuerCount cells scattered from rng. Scatter avoids terrain,
// the entry and the exit, and never places two pursuers on one cell.
func (mc MapConfig) spawnPositions(rng *rand.Rand) []Position {
	spawns := make([]Position, 0, len(mc.PursuerSpawns)+mc.PursuerCount)
	spawns = append(spawns, mc.PursuerSpawns...)
	if mc.PursuerCount <= 0 {
		return spawns
	}
	t := mc.terrainSet()
	taken := make(map[Position]struct{}, len(spawns))
	for _, p := range spawns {
		taken[p] = struct{}{}
	}
	for placed := 0; placed < mc.PursuerCount; {
		p := Position{X: rng.Intn(mc.Width), Y: rng.Intn(mc.Height)}
		if !ValidPosition(p, mc.Width, mc.Height, t) {
			continue
		}
		if p == mc.Entry || p == mc.Exit {
			continue
		}
		if _, ok := taken[p]; ok {
			continue
		}
		taken[p] = struct{}{}
		spawns = append(spawns, p)
		placed++
	}
	return spawns
}

// LoadRunConfig reads a YAML run configuration from path and validates it.
func LoadRunConfig(path string) (RunConfig, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI flag
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}
	var rc RunConfig
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return RunConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := rc.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return rc, nil
}

// DefaultRunConfig is the built-in three-stage journey used when no config
// file is given: open moor, a walled pass, then a ford with dense terrain.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Evaders:  3,
		MaxTicks: 600,
		Seed:     1,
		Journey: []MapConfig{
			{
				Width: 20, Height: 20,
				Entry: Position{X: 1, Y: 1},
				Exit:  Position{X: 18, Y: 18},
				PursuerSpawns: []Position{
					{X: 10, Y: 10}, {X: 15, Y: 5},
				},
			},
			{
				Width: 24, Height: 16,
				Entry:   Position{X: 1, Y: 8},
				Exit:    Position{X: 22, Y: 8},
				Terrain: NewTerrain().Wall(8, 0, 0, 1, 6).Wall(8, 10, 0, 1, 6).Wall(16, 4, 0, 1, 9).keys(),
				PursuerSpawns: []Position{
					{X: 12, Y: 3}, {X: 12, Y: 13}, {X: 20, Y: 8},
				},
			},
			{
				Width: 20, Height: 20,
				Entry:   Position{X: 1, Y: 18},
				Exit:    Position{X: 18, Y: 1},
				Terrain: NewTerrain().Wall(5, 5, 1, 0, 10).Wall(5, 12, 1, 0, 12).keys(),
				PursuerSpawns: []Position{
					{X: 10, Y: 8}, {X: 16, Y: 3},
				},
			},
		},
	}
}

// keys returns the terrain cells as a slice, for embedding in a MapConfig.
func (t Terrain) keys() []Position {
	out := make([]Position, 0, len(t))
	for p := range t {
		out = append(out, p)
	}
	return out
}
