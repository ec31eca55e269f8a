package opengraph

import (
	"context"
	"sync"
)

// State is the consumer-facing snapshot of a watched URL's preview fetch.
// Loading is true from the moment a URL is set until its fetch settles.
type State struct {
	Data    *Data
	Loading bool
}

// FetchFunc resolves a URL to its metadata, nil meaning no data. Fetcher.Fetch
// satisfies it.
type FetchFunc func(ctx context.Context, url string) *Data

// Watcher tracks the preview metadata for a changing subscribed URL, the way
// a preview pane consumes it. When the URL changes while a fetch is pending,
// the superseded fetch is left to finish but its result is discarded, so a
// stale response never overwrites state belonging to the current URL.
type Watcher struct {
	mu       sync.Mutex
	fetch    FetchFunc
	onChange func(State)
	gen      uint64
	state    State

	// wg tracks fetch goroutines so tests can wait for settlement.
	wg sync.WaitGroup
}

// NewWatcher creates a watcher. onChange, if non-nil, is invoked after every
// state transition, outside the watcher's lock.
func NewWatcher(fetch FetchFunc, onChange func(State)) *Watcher {
	return &Watcher{
		fetch:    fetch,
		onChange: onChange,
	}
}

// State returns the current snapshot.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// SetURL switches the watcher to a new URL and starts a fetch cycle for it.
// An empty URL clears the state without any network access.
func (w *Watcher) SetURL(ctx context.Context, url string) {
	w.mu.Lock()
	w.gen++
	gen := w.gen

	if url == "" {
		w.state = State{}
		w.notifyLocked()
		return
	}

	w.state = State{Loading: true}
	w.wg.Add(1)
	w.notifyLocked()

	go func() {
		defer w.wg.Done()

		data := w.fetch(ctx, url)

		w.mu.Lock()
		// A newer SetURL supersedes this fetch; drop the resolution.
		if w.gen != gen {
			w.mu.Unlock()
			return
		}
		w.state = State{Data: data}
		w.notifyLocked()
	}()
}

// Wait blocks until every fetch started so far has settled.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// notifyLocked snapshots state, releases the lock and invokes the change
// callback. Callers must hold w.mu; it is released on return.
func (w *Watcher) notifyLocked() {
	snapshot := w.state
	cb := w.onChange
	w.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}
