package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDebouncerBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	out := NewDebouncer(20*time.Millisecond, time.Second).Run(ctx, in)

	for _, p := range []string{"b", "a", "b"} {
		in <- p
	}

	select {
	case ev := <-out:
		if len(ev.Paths) != 2 || ev.Paths[0] != "a" || ev.Paths[1] != "b" {
			t.Errorf("Paths = %v, want [a b]", ev.Paths)
		}
	case <-time.After(time.Second):
		t.Fatal("no event after quiet period")
	}
}

func TestDebouncerFlushesOnClose(t *testing.T) {
	in := make(chan string, 1)
	out := NewDebouncer(time.Hour, 0).Run(context.Background(), in)

	in <- "x"
	close(in)

	ev, ok := <-out
	if !ok || len(ev.Paths) != 1 || ev.Paths[0] != "x" {
		t.Errorf("event = %v, %v, want pending path flushed", ev, ok)
	}
	if _, ok := <-out; ok {
		t.Error("output should close after input closes")
	}
}

func TestDebouncerMaxWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	out := NewDebouncer(50*time.Millisecond, 120*time.Millisecond).Run(ctx, in)

	stop := time.After(400 * time.Millisecond)
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			in <- "busy"
		case <-out:
			return
		case <-stop:
			t.Fatal("max wait did not force a flush under continuous changes")
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{path}, Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Event, 1)
	go func() {
		_ = w.Run(ctx, func(_ context.Context, ev Event) error {
			select {
			case got <- ev:
			default:
			}
			return nil
		})
	}()

	// Give the watcher goroutine a moment before writing.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-got:
		if len(ev.Paths) != 1 || filepath.Base(ev.Paths[0]) != "graph.json" {
			t.Errorf("Paths = %v, want only graph.json", ev.Paths)
		}
	case <-ctx.Done():
		t.Fatal("no change event received")
	}
}
