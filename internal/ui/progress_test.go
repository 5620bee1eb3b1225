package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"funlang/internal/buildpipeline"
)

func send(t *testing.T, m tea.Model, ev buildpipeline.Event) tea.Model {
	t.Helper()
	next, _ := m.Update(eventMsg(ev))
	return next
}

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("parse", []string{"a.fl", "b.fl", "c.fl"}, events)

	m = send(t, m, buildpipeline.Event{File: "a.fl", Stage: buildpipeline.StageLex, Status: buildpipeline.StatusWorking})
	m = send(t, m, buildpipeline.Event{File: "b.fl", Stage: buildpipeline.StageCache, Status: buildpipeline.StatusCached})
	m = send(t, m, buildpipeline.Event{
		File: "c.fl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError,
		Err: errors.New("4: unexpected token ), expected '{'"),
	})
	m = send(t, m, buildpipeline.Event{File: "unknown.fl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})

	pm := m.(*parseModel)
	if got := pm.percent(); got < 0.79 || got > 0.81 {
		t.Errorf("percent = %.3f, want 0.8", got)
	}
	view := pm.View()
	for _, want := range []string{"lexing", "cached", "error", "expected '{'", "1/3 parsed, 1 cached, 1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	m := NewProgressModel("parse", []string{"a.fl"}, nil)
	next, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done must return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done command is not Quit")
	}
	if !strings.Contains(next.View(), "done: parse") {
		t.Errorf("view = %q", next.View())
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		stage  buildpipeline.Stage
		status buildpipeline.Status
		want   string
	}{
		{buildpipeline.StageLoad, buildpipeline.StatusQueued, "queued"},
		{buildpipeline.StageLoad, buildpipeline.StatusWorking, "loading"},
		{buildpipeline.StageParse, buildpipeline.StatusWorking, "parsing"},
		{buildpipeline.StageParse, buildpipeline.StatusDone, "done"},
		{buildpipeline.Stage("link"), buildpipeline.StatusWorking, ""},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.stage, tt.status); got != tt.want {
			t.Errorf("statusLabel(%s, %s) = %q, want %q", tt.stage, tt.status, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.fl", 20, "short.fl"},
		{"very/long/path/to/file.fl", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"файл.fl", 0, "файл.fl"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
