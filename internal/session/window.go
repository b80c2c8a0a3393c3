package session

import "github.com/klangrad/klangrad/internal/store"

// Window buffers the location samples attributed to one playing track. At
// most one window is open at any time; the watcher owns it and serializes
// all access.
type Window struct {
	samples []store.LocationSample
}

// OpenWindow seeds a new window with the first known coordinate.
func OpenWindow(first store.LocationSample) *Window {
	return &Window{samples: []store.LocationSample{first}}
}

func (w *Window) Push(sample store.LocationSample) {
	w.samples = append(w.samples, sample)
}

func (w *Window) Count() int {
	return len(w.samples)
}

// Close returns the buffered samples and clears the window. A window that
// accumulated nothing returns nil and never reaches the session log.
func (w *Window) Close() []store.LocationSample {
	samples := w.samples
	w.samples = nil
	if len(samples) == 0 {
		return nil
	}
	return samples
}
