package compositor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/repl"
)

func commandRepl(t *testing.T, f *fixture) *repl.Repl {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.c.Loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	return repl.NewRepl(nil, nil, f.c.Commands(time.Second)...)
}

func TestCommandsInspectAndFocus(t *testing.T) {
	f := newFixture()
	f.c.AddOutput(&fakeHandle{name: "A", width: 800, height: 600})
	a, _ := f.mapped("a", geom.Box{Width: 10, Height: 10})
	b, _ := f.mapped("b", geom.Box{Width: 10, Height: 10})
	r := commandRepl(t, f)

	out, err := r.Handle("inspect seat")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "focused: "+b.UUID.String()) {
		t.Errorf("inspect seat = %q", out)
	}
	out, err = r.Handle("inspect")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"views:", "outputs:", "name: A"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect is missing %q:\n%s", want, out)
		}
	}

	if _, err := r.Handle("focus " + a.UUID.String()); err != nil {
		t.Fatal(err)
	}
	if v, _ := f.c.Seat.Focused(); v != a {
		t.Errorf("focused %v", v)
	}
	if _, err := r.Handle("focus 00000000-0000-0000-0000-000000000000"); err == nil {
		t.Error("focus of an unknown view succeeded")
	}
	if _, err := r.Handle("focus"); err == nil {
		t.Error("focus without id succeeded")
	}
}

func TestCommandsCloseAndKill(t *testing.T) {
	f := newFixture()
	a, pa := f.mapped("a", geom.Box{Width: 10, Height: 10})
	r := commandRepl(t, f)

	if _, err := r.Handle("close " + a.UUID.String()); err != nil {
		t.Fatal(err)
	}
	if !pa.Closed {
		t.Error("view was not asked to close")
	}
	if _, err := r.Handle("kill " + a.UUID.String()); !errors.Is(err, ErrRefusedPID) {
		t.Errorf("kill of a view without pid = %v", err)
	}
}

func TestCommandsQuit(t *testing.T) {
	f := newFixture()
	r := commandRepl(t, f)
	if _, err := r.Handle("quit"); !errors.Is(err, repl.ErrQuit) {
		t.Errorf("quit = %v", err)
	}
	if f.backend.terminated != 1 {
		t.Errorf("terminated %d times", f.backend.terminated)
	}
}

func TestCommandsTimeOutWithoutSideEffects(t *testing.T) {
	f := newFixture()
	a, _ := f.mapped("a", geom.Box{Width: 10, Height: 10})
	b, _ := f.mapped("b", geom.Box{Width: 10, Height: 10})
	r := repl.NewRepl(nil, nil, f.c.Commands(20*time.Millisecond)...)

	if _, err := r.Handle("focus " + a.UUID.String()); err == nil {
		t.Fatal("focus succeeded without a running loop")
	}
	f.c.Loop.Drain()
	if v, _ := f.c.Seat.Focused(); v != b {
		t.Errorf("timed out focus still moved focus to %v", v)
	}
}
