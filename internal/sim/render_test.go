package sim

import (
	"strings"
	"testing"
)

func TestRenderText_Legend(t *testing.T) {
	mc := MapConfig{
		Width: 5, Height: 4,
		Entry:         Position{X: 0, Y: 0},
		Exit:          Position{X: 4, Y: 3},
		Terrain:       []Position{{X: 2, Y: 1}},
		PursuerSpawns: []Position{{X: 3, Y: 2}},
	}
	evaders := []*Evader{{ID: 0, Name: "Rowan"}}
	w := newWorld(mc, 0, evaders, []Position{{X: 3, Y: 2}})
	w.evaders[0].Pos = Position{X: 1, Y: 1}

	got := RenderText(w)
	want := strings.Join([]string{
		"s....",
		".R#..",
		"...N.",
		"....x",
	}, "\n")
	if got != want {
		t.Errorf("render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderText_Dimensions(t *testing.T) {
	mc := MapConfig{
		Width: 7, Height: 3,
		Entry: Position{X: 0, Y: 0},
		Exit:  Position{X: 6, Y: 2},
	}
	w := newWorld(mc, 0, nil, nil)

	lines := strings.Split(RenderText(w), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d rows, want 3", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 7 {
			t.Errorf("row %d has %d cells, want 7", i, len([]rune(line)))
		}
	}
}

func TestRenderText_PursuerWinsContestedCell(t *testing.T) {
	mc := MapConfig{
		Width: 3, Height: 3,
		Entry: Position{X: 0, Y: 0},
		Exit:  Position{X: 2, Y: 2},
	}
	evaders := []*Evader{{ID: 0, Name: "Bryn"}}
	w := newWorld(mc, 0, evaders, []Position{{X: 1, Y: 1}})
	w.evaders[0].Pos = Position{X: 1, Y: 1}

	lines := strings.Split(RenderText(w), "\n")
	if lines[1][1] != SymbolPursuer {
		t.Errorf("contested cell rendered %q, want %q", lines[1][1], SymbolPursuer)
	}
}

func TestEvaderSymbol(t *testing.T) {
	cases := []struct {
		name string
		want rune
	}{
		{"Rowan", 'R'},
		{"bryn", 'B'},
		{"Wren", 'W'},
	}
	for _, tc := range cases {
		if got := evaderSymbol(&Evader{Name: tc.name}); got != tc.want {
			t.Errorf("evaderSymbol(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
