package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"fellrun/internal/sim"
)

func TestFileSink_WritesOneLinePerEvent(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	from := sim.Position{X: 1, Y: 1}
	to := sim.Position{X: 3, Y: 1}
	events := []sim.Event{
		{Kind: sim.EventTurnStart, Tick: 1, CumTick: 1, FromMap: -1, ToMap: -1},
		{Kind: sim.EventMoved, Tick: 1, CumTick: 1, Name: "Rowan", From: &from, To: &to, FromMap: -1, ToMap: -1},
		{Kind: sim.EventVictory, Tick: 9, CumTick: 9, FromMap: -1, ToMap: -1},
	}
	for _, ev := range events {
		sink.Record(ev)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(sink.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d not valid JSON: %v", len(lines)+1, err)
		}
		lines = append(lines, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(lines) != len(events) {
		t.Fatalf("log has %d lines, want %d", len(lines), len(events))
	}
	for i, rec := range lines {
		if rec.Run != sink.RunID() {
			t.Errorf("line %d run = %q, want %q", i, rec.Run, sink.RunID())
		}
		if rec.Kind != events[i].Kind || rec.CumTick != events[i].CumTick {
			t.Errorf("line %d = %+v, want %+v", i, rec.Event, events[i])
		}
	}
	if lines[1].Name != "Rowan" || lines[1].From == nil || *lines[1].To != to {
		t.Errorf("moved line lost movement fields: %+v", lines[1])
	}
}

func TestFileSink_RunIDAndPath(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if _, err := uuid.Parse(sink.RunID()); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", sink.RunID(), err)
	}
	wantName := "run-" + sink.RunID() + ".jsonl"
	if filepath.Base(sink.Path()) != wantName {
		t.Errorf("path = %q, want basename %q", sink.Path(), wantName)
	}
	if !strings.HasPrefix(sink.Path(), dir) {
		t.Errorf("path %q outside log dir %q", sink.Path(), dir)
	}
}

func TestNewFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("log dir not created: %v", err)
	}
}
