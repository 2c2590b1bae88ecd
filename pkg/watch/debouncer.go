package watch

import (
	"context"
	"slices"
	"time"
)

// Event is a batch of changes to watched files.
type Event struct {
	Paths []string
	Time  time.Time
}

// Debouncer batches rapid path notifications into one Event.
//
// A batch is flushed once no new path has arrived for the quiet period, or
// once maxWait has passed since the first path of the batch, whichever
// comes first.
type Debouncer struct {
	quiet   time.Duration
	maxWait time.Duration
}

// NewDebouncer returns a debouncer. A maxWait of zero means ten quiet
// periods.
func NewDebouncer(quiet, maxWait time.Duration) *Debouncer {
	if maxWait <= 0 {
		maxWait = 10 * quiet
	}
	return &Debouncer{quiet: quiet, maxWait: maxWait}
}

// Run reads paths from in and emits batches on the returned channel until
// ctx is done or in is closed. A pending batch is flushed before the output
// channel closes.
func (d *Debouncer) Run(ctx context.Context, in <-chan string) <-chan Event {
	out := make(chan Event, 1)
	go func() {
		defer close(out)

		var (
			pending  []string
			quiet    <-chan time.Time
			deadline <-chan time.Time
		)
		flush := func() {
			if len(pending) > 0 {
				slices.Sort(pending)
				select {
				case out <- Event{Paths: slices.Compact(pending), Time: time.Now()}:
				case <-ctx.Done():
				}
			}
			pending, quiet, deadline = nil, nil, nil
		}

		for {
			select {
			case <-ctx.Done():
				flush()
				return
			case p, ok := <-in:
				if !ok {
					flush()
					return
				}
				if len(pending) == 0 {
					deadline = time.After(d.maxWait)
				}
				pending = append(pending, p)
				quiet = time.After(d.quiet)
			case <-quiet:
				flush()
			case <-deadline:
				flush()
			}
		}
	}()
	return out
}
