package sim

import "strings"

// Symbol legend for the text renderer. Entities override landmarks, and a
// pursuer on a contested cell wins over an evader (the capture is what the
// viewer needs to see).
const (
	SymbolEmpty   = '.'
	SymbolTerrain = '#'
	SymbolEntry   = 's'
	SymbolExit    = 'x'
	SymbolPursuer = 'N'
)

// RenderText draws the world as a grid of runes, rows joined by newlines.
// Each evader renders as the upper-cased first rune of its display name.
// Pure function of the world snapshot; no effect on simulation state.
func RenderText(w *World) string {
	rows := make([][]rune, w.Height)
	for y := range rows {
		row := make([]rune, w.Width)
		for x := range row {
			row[x] = SymbolEmpty
		}
		rows[y] = row
	}
	put := func(p Position, r rune) {
		if p.Y >= 0 && p.Y < w.Height && p.X >= 0 && p.X < w.Width {
			rows[p.Y][p.X] = r
		}
	}

	for p := range w.Terrain {
		put(p, SymbolTerrain)
	}
	put(w.Entry, SymbolEntry)
	put(w.Exit, SymbolExit)
	for _, e := range w.Evaders() {
		put(e.Pos, evaderSymbol(e))
	}
	for _, p := range w.Pursuers() {
		put(p, SymbolPursuer)
	}

	var sb strings.Builder
	sb.Grow((w.Width + 1) * w.Height)
	for y, row := range rows {
		sb.WriteString(string(row))
		if y < w.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// evaderSymbol returns the one-rune marker for an evader.
func evaderSymbol(e *Evader) rune {
	for _, r := range e.Name {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
	return '?'
}
