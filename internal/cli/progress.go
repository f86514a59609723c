package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/relgraph/pkg/layout"
	"github.com/matzehuels/relgraph/pkg/observability"
)

// =============================================================================
// Messages
// =============================================================================

type runStartMsg struct {
	label string
	mode  string
	nodes int
}

type phaseDoneMsg struct {
	label      string
	phase      string
	iterations int
	duration   time.Duration
}

type runDoneMsg struct {
	label     string
	duration  time.Duration
	cancelled bool
}

// allDoneMsg tells the view that every run has finished.
type allDoneMsg struct{}

// =============================================================================
// Hooks Adapter
// =============================================================================

// progressHooks forwards engine events to a bubbletea program. The label of
// each event comes from the run's context.
type progressHooks struct {
	send func(tea.Msg)
}

var _ observability.LayoutHooks = (*progressHooks)(nil)

func (h *progressHooks) OnLayoutStart(ctx context.Context, mode string, nodeCount int) {
	h.send(runStartMsg{label: labelFromContext(ctx), mode: mode, nodes: nodeCount})
}

func (h *progressHooks) OnPhaseComplete(ctx context.Context, phase string, iterations int, duration time.Duration) {
	h.send(phaseDoneMsg{label: labelFromContext(ctx), phase: phase, iterations: iterations, duration: duration})
}

func (h *progressHooks) OnLayoutComplete(ctx context.Context, mode string, duration time.Duration, cancelled bool) {
	h.send(runDoneMsg{label: labelFromContext(ctx), duration: duration, cancelled: cancelled})
}

// =============================================================================
// ProgressModel - Live phase view
// =============================================================================

// runProgress is the state of one labeled run.
type runProgress struct {
	nodes     int
	phases    []string
	current   string
	duration  time.Duration
	started   bool
	done      bool
	cancelled bool
}

// ProgressModel is the bubbletea model for the --progress view. It shows
// one line per input with the phases completed so far.
type ProgressModel struct {
	labels []string
	runs   map[string]*runProgress
}

// NewProgressModel creates a model for the given run labels, displayed in
// that order.
func NewProgressModel(labels []string) ProgressModel {
	runs := make(map[string]*runProgress, len(labels))
	for _, l := range labels {
		runs[l] = &runProgress{}
	}
	return ProgressModel{labels: labels, runs: runs}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runStartMsg:
		if r := m.runs[msg.label]; r != nil {
			r.started = true
			r.nodes = msg.nodes
			r.current = layout.PhaseSeed
			if msg.mode == layout.ModeIncremental {
				r.current = layout.PhaseForce
			}
		}
	case phaseDoneMsg:
		if r := m.runs[msg.label]; r != nil {
			r.phases = append(r.phases, msg.phase)
			r.current = nextPhase(msg.phase)
		}
	case runDoneMsg:
		if r := m.runs[msg.label]; r != nil {
			r.done = true
			r.current = ""
			r.duration = msg.duration
			r.cancelled = msg.cancelled
		}
	case allDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	width := 0
	for _, l := range m.labels {
		width = max(width, len(l))
	}

	for _, l := range m.labels {
		r := m.runs[l]
		var icon, status string
		switch {
		case r.cancelled:
			icon = styleIconWarning.Render(iconWarning)
			status = StyleWarning.Render("cancelled")
		case r.done:
			icon = styleIconSuccess.Render(iconSuccess)
			status = StyleDim.Render(r.duration.Round(time.Millisecond).String())
		case r.started:
			icon = styleIconRunning.Render(iconRunning)
			status = StyleValue.Render(r.current + "…")
		default:
			icon = StyleDim.Render(iconRunning)
			status = StyleDim.Render("waiting")
		}

		fmt.Fprintf(&b, "%s %-*s  %s", icon, width, l, status)
		if r.nodes > 0 {
			b.WriteString(StyleDim.Render(fmt.Sprintf(" (%d nodes)", r.nodes)))
		}
		if len(r.phases) > 0 {
			b.WriteString("  " + StyleDim.Render(strings.Join(r.phases, " · ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// nextPhase returns the phase that runs after p in a full layout.
func nextPhase(p string) string {
	switch p {
	case layout.PhaseSeed:
		return layout.PhaseStress
	case layout.PhaseStress:
		return layout.PhaseForce
	case layout.PhaseForce:
		return layout.PhaseCrossing
	case layout.PhaseCrossing:
		return layout.PhaseSettle
	case layout.PhaseSettle:
		return layout.PhaseBundle
	}
	return p
}

// =============================================================================
// Progress Runner
// =============================================================================

// progressView runs a ProgressModel while the layout hooks feed it.
type progressView struct {
	program *tea.Program
	done    chan error
}

// startProgress registers the hooks adapter and starts rendering to w.
// Call stop once every run has finished.
func startProgress(ctx context.Context, w io.Writer, labels []string) *progressView {
	p := tea.NewProgram(NewProgressModel(labels),
		tea.WithContext(ctx),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	v := &progressView{program: p, done: make(chan error, 1)}
	observability.SetLayoutHooks(&progressHooks{send: p.Send})

	go func() {
		_, err := p.Run()
		v.done <- err
	}()
	return v
}

// stop unregisters the hooks and waits for the final frame.
func (v *progressView) stop() {
	v.program.Send(allDoneMsg{})
	<-v.done
	observability.SetLayoutHooks(observability.NoopLayoutHooks{})
}
