// Package trace records dispatched events as a JSON document. The recorder
// plugs into the dispatch loop as an observer; the resulting trace is the
// runtime's observability surface, since the event core itself never logs.
package trace

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tidwall/sjson"

	"github.com/dshills/microloop/internal/event"
	"github.com/dshills/microloop/internal/event/dispatch"
)

// Recorder accumulates one JSON document of delivered events:
//
//	{
//	  "started": "2006-01-02T15:04:05Z",
//	  "events": [
//	    {"seq": 0, "at_us": 120, "type": "rising", "type_id": 2,
//	     "value": 3, "delivered": true, "panicked": false}
//	  ],
//	  "truncated": false
//	}
type Recorder struct {
	mu    sync.Mutex
	doc   []byte
	n     int
	limit int
	start time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLimit caps the number of recorded events; once reached, further
// events only mark the trace truncated. Zero means unlimited.
func WithLimit(n int) RecorderOption {
	return func(r *Recorder) {
		if n >= 0 {
			r.limit = n
		}
	}
}

// NewRecorder creates an empty trace.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{start: time.Now()}
	for _, opt := range opts {
		opt(r)
	}

	doc, _ := sjson.SetBytes([]byte(`{}`), "started", r.start.UTC().Format(time.RFC3339))
	doc, _ = sjson.SetBytes(doc, "events", []any{})
	doc, _ = sjson.SetBytes(doc, "truncated", false)
	r.doc = doc
	return r
}

// Observe implements the dispatch.Observer signature; install it with
// dispatch.WithObserver.
func (r *Recorder) Observe(e event.Event, result dispatch.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.limit > 0 && r.n >= r.limit {
		r.doc, _ = sjson.SetBytes(r.doc, "truncated", true)
		return
	}

	entry := map[string]any{
		"seq":       r.n,
		"at_us":     time.Since(r.start).Microseconds(),
		"type":      e.Type().String(),
		"type_id":   int(e.Type()),
		"value":     int(e.Value()),
		"delivered": result.Delivered,
		"panicked":  result.Panicked,
	}
	if e.HasEnv() {
		entry["env"] = fmt.Sprintf("%T", e.Env())
	}

	r.doc, _ = sjson.SetBytes(r.doc, "events.-1", entry)
	r.n++
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// JSON returns a copy of the trace document.
func (r *Recorder) JSON() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]byte, len(r.doc))
	copy(out, r.doc)
	return out
}

// WriteFile writes the trace document to path.
func (r *Recorder) WriteFile(path string) error {
	if err := os.WriteFile(path, r.JSON(), 0o644); err != nil {
		return fmt.Errorf("writing trace %s: %w", path, err)
	}
	return nil
}
