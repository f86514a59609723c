package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/relgraph/pkg/graph"
	"github.com/matzehuels/relgraph/pkg/layout"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStatsSkipsZeros(t *testing.T) {
	buf := captureStdout(t)
	printStats(stat{"nodes", 12}, stat{"ghosts", 0}, stat{"edges", 30})

	out := buf.String()
	if !strings.Contains(out, "12") || !strings.Contains(out, "30") {
		t.Errorf("printStats output = %q", out)
	}
	if strings.Contains(out, "ghosts") {
		t.Errorf("printStats printed a zero count: %q", out)
	}
}

func TestRenderEdgeTable(t *testing.T) {
	out := renderEdgeTable(map[graph.EdgeType]int{
		graph.EdgeReferral: 2,
		graph.EdgeBusiness: 3,
	})

	for _, want := range []string{"Edge type", "business", "referral", "total", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "business") > strings.Index(out, "referral") {
		t.Errorf("edge types not in display order:\n%s", out)
	}
	if strings.Contains(out, "co_attendee") {
		t.Errorf("table lists an edge type with no edges:\n%s", out)
	}
}

func TestProgressModel(t *testing.T) {
	var m tea.Model = NewProgressModel([]string{"a.json", "b.json"})

	m, _ = m.Update(runStartMsg{label: "a.json", mode: layout.ModeFull, nodes: 12})
	m, _ = m.Update(phaseDoneMsg{label: "a.json", phase: layout.PhaseSeed})
	m, _ = m.Update(phaseDoneMsg{label: "a.json", phase: layout.PhaseStress})
	m, _ = m.Update(phaseDoneMsg{label: "unknown.json", phase: layout.PhaseSeed})

	view := m.View()
	if !strings.Contains(view, "force…") {
		t.Errorf("running file should show the current phase:\n%s", view)
	}
	if !strings.Contains(view, "seed · stress") {
		t.Errorf("completed phases missing:\n%s", view)
	}
	if !strings.Contains(view, "(12 nodes)") {
		t.Errorf("node count missing:\n%s", view)
	}
	if !strings.Contains(view, "waiting") {
		t.Errorf("b.json should be waiting:\n%s", view)
	}

	m, _ = m.Update(runDoneMsg{label: "a.json", duration: 1500 * time.Millisecond})
	m, _ = m.Update(runDoneMsg{label: "b.json", cancelled: true})
	view = m.View()
	if !strings.Contains(view, "1.5s") || !strings.Contains(view, "cancelled") {
		t.Errorf("final view:\n%s", view)
	}

	_, cmd := m.Update(allDoneMsg{})
	if cmd == nil {
		t.Fatal("allDoneMsg should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("allDoneMsg command is not tea.Quit")
	}
}

func TestProgressHooksLabelEvents(t *testing.T) {
	var got []tea.Msg
	h := &progressHooks{send: func(msg tea.Msg) { got = append(got, msg) }}

	ctx := withLabel(context.Background(), "team.json")
	h.OnLayoutStart(ctx, layout.ModeIncremental, 4)
	h.OnPhaseComplete(ctx, layout.PhaseForce, 50, time.Millisecond)
	h.OnLayoutComplete(ctx, layout.ModeIncremental, time.Millisecond, false)

	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if start, ok := got[0].(runStartMsg); !ok || start.label != "team.json" || start.mode != layout.ModeIncremental {
		t.Errorf("first message = %#v", got[0])
	}
	if phase, ok := got[1].(phaseDoneMsg); !ok || phase.phase != layout.PhaseForce || phase.iterations != 50 {
		t.Errorf("second message = %#v", got[1])
	}
	if _, ok := got[2].(runDoneMsg); !ok {
		t.Errorf("third message = %#v", got[2])
	}
}

func TestNextPhase(t *testing.T) {
	order := []string{layout.PhaseSeed, layout.PhaseStress, layout.PhaseForce, layout.PhaseCrossing, layout.PhaseSettle, layout.PhaseBundle}
	for i := 0; i < len(order)-1; i++ {
		if got := nextPhase(order[i]); got != order[i+1] {
			t.Errorf("nextPhase(%s) = %s, want %s", order[i], got, order[i+1])
		}
	}
}
