package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/microloop/internal/event"
	"github.com/dshills/microloop/internal/event/dispatch"
)

func TestRecorder_EmptyTrace(t *testing.T) {
	r := NewRecorder()
	doc := gjson.ParseBytes(r.JSON())

	if !doc.Get("started").Exists() {
		t.Error("trace has no started timestamp")
	}
	if !doc.Get("events").IsArray() {
		t.Error("events is not an array")
	}
	if doc.Get("events.#").Int() != 0 {
		t.Errorf("events count = %d, want 0", doc.Get("events.#").Int())
	}
	if doc.Get("truncated").Bool() {
		t.Error("empty trace marked truncated")
	}
}

func TestRecorder_RecordsDeliveries(t *testing.T) {
	r := NewRecorder()
	h := event.HandlerFunc(func(typ event.Type, value uint16) {})

	r.Observe(event.New(event.TypeRising, h, 3), dispatch.Result{Delivered: true})
	r.Observe(event.New(event.TypeFalling, nil, 9), dispatch.Result{})

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	doc := gjson.ParseBytes(r.JSON())
	first := doc.Get("events.0")
	if first.Get("type").String() != "rising" {
		t.Errorf("events.0.type = %q, want %q", first.Get("type").String(), "rising")
	}
	if first.Get("type_id").Int() != int64(event.TypeRising) {
		t.Errorf("events.0.type_id = %d, want %d", first.Get("type_id").Int(), event.TypeRising)
	}
	if first.Get("value").Int() != 3 {
		t.Errorf("events.0.value = %d, want 3", first.Get("value").Int())
	}
	if !first.Get("delivered").Bool() {
		t.Error("events.0.delivered = false")
	}

	second := doc.Get("events.1")
	if second.Get("delivered").Bool() {
		t.Error("events.1.delivered = true for nil target")
	}
	if second.Get("seq").Int() != 1 {
		t.Errorf("events.1.seq = %d, want 1", second.Get("seq").Int())
	}
}

func TestRecorder_EnvEventsNoteTheirPayloadType(t *testing.T) {
	r := NewRecorder()
	r.Observe(event.NewEnv(event.TypeUser, nil, []byte("x")), dispatch.Result{})

	doc := gjson.ParseBytes(r.JSON())
	if doc.Get("events.0.env").String() != "[]uint8" {
		t.Errorf("events.0.env = %q, want %q", doc.Get("events.0.env").String(), "[]uint8")
	}
}

func TestRecorder_LimitTruncates(t *testing.T) {
	r := NewRecorder(WithLimit(2))
	for i := 0; i < 5; i++ {
		r.Observe(event.New(event.TypeUser, nil, uint16(i)), dispatch.Result{})
	}

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want limit 2", r.Len())
	}
	doc := gjson.ParseBytes(r.JSON())
	if doc.Get("events.#").Int() != 2 {
		t.Errorf("events count = %d, want 2", doc.Get("events.#").Int())
	}
	if !doc.Get("truncated").Bool() {
		t.Error("trace over limit not marked truncated")
	}
}

func TestRecorder_AsLoopObserver(t *testing.T) {
	q := event.NewQueue()
	h := event.HandlerFunc(func(typ event.Type, value uint16) {})

	r := NewRecorder()
	loop := dispatch.NewLoop(q, dispatch.WithObserver(r.Observe))

	q.Push(event.TypeWatchdog, h, 1)
	q.Push(event.TypeTimeout, h, 2)
	loop.ServeOnce()

	if r.Len() != 2 {
		t.Errorf("recorded %d events via loop, want 2", r.Len())
	}
}

func TestRecorder_WriteFile(t *testing.T) {
	r := NewRecorder()
	r.Observe(event.New(event.TypeUser, nil, 1), dispatch.Result{})

	path := filepath.Join(t.TempDir(), "trace.json")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.ValidBytes(data) {
		t.Error("written trace is not valid JSON")
	}
}
