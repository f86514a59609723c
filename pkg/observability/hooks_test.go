package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "full", 100)
	l.OnPhaseComplete(ctx, "stress", 60, time.Second)
	l.OnLayoutComplete(ctx, "full", time.Second, false)

	a := NoopAssembleHooks{}
	a.OnAssembleComplete(ctx, 10, 20, 1, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Assemble().(NoopAssembleHooks); !ok {
		t.Error("Assemble() should return NoopAssembleHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customAssemble := &testAssembleHooks{}
	SetAssembleHooks(customAssemble)
	if Assemble() != customAssemble {
		t.Error("SetAssembleHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Assemble().(NoopAssembleHooks); !ok {
		t.Error("Reset() should restore NoopAssembleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testLayoutHooks{}
	SetLayoutHooks(h)

	ctx := context.Background()
	Layout().OnPhaseComplete(ctx, "seed", 0, 0)
	Layout().OnPhaseComplete(ctx, "force", 200, time.Millisecond)

	if len(h.phases) != 2 || h.phases[0] != "seed" || h.phases[1] != "force" {
		t.Errorf("phases = %v, want [seed force]", h.phases)
	}
}

type testLayoutHooks struct {
	NoopLayoutHooks
	phases []string
}

func (h *testLayoutHooks) OnPhaseComplete(_ context.Context, phase string, _ int, _ time.Duration) {
	h.phases = append(h.phases, phase)
}

type testAssembleHooks struct{ NoopAssembleHooks }
