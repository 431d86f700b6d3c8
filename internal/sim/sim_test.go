package sim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleTimeline = `{
  "steps": [
    {"at_ms": 0,  "pin": "button", "action": "high"},
    {"at_ms": 10, "pin": "button", "action": "low"},
    {"at_ms": 20, "pin": "adc0",   "action": "complete", "value": 512}
  ]
}`

func TestParse(t *testing.T) {
	tl, err := Parse([]byte(sampleTimeline))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tl.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(tl.Steps))
	}

	want := []Step{
		{At: 0, Pin: "button", Action: ActionHigh},
		{At: 10 * time.Millisecond, Pin: "button", Action: ActionLow},
		{At: 20 * time.Millisecond, Pin: "adc0", Action: ActionComplete, Value: 512},
	}
	for i, w := range want {
		if tl.Steps[i] != w {
			t.Errorf("step %d = %+v, want %+v", i, tl.Steps[i], w)
		}
	}
	if tl.Duration() != 20*time.Millisecond {
		t.Errorf("Duration() = %v, want 20ms", tl.Duration())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{"no steps", `{}`, ErrNoSteps},
		{"steps not array", `{"steps": 3}`, ErrNoSteps},
		{"missing pin", `{"steps": [{"at_ms": 0, "action": "high"}]}`, ErrMissingPin},
		{"unknown action", `{"steps": [{"at_ms": 0, "pin": "p", "action": "wiggle"}]}`, ErrUnknownAction},
		{
			"decreasing offsets",
			`{"steps": [
				{"at_ms": 10, "pin": "p", "action": "high"},
				{"at_ms": 5,  "pin": "p", "action": "low"}
			]}`,
			ErrStepsOutOfOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.json)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_EmptyStepsArray(t *testing.T) {
	tl, err := Parse([]byte(`{"steps": []}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tl.Steps) != 0 {
		t.Errorf("got %d steps, want 0", len(tl.Steps))
	}
	if tl.Duration() != 0 {
		t.Errorf("Duration() = %v, want 0", tl.Duration())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")
	if err := os.WriteFile(path, []byte(sampleTimeline), 0o644); err != nil {
		t.Fatal(err)
	}

	tl, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(tl.Steps) != 3 {
		t.Errorf("got %d steps, want 3", len(tl.Steps))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadFile accepted a missing file")
	}
}

func TestReplayer_RunImmediate(t *testing.T) {
	tl, err := Parse([]byte(sampleTimeline))
	if err != nil {
		t.Fatal(err)
	}

	var applied []Step
	r := NewReplayer(tl, func(s Step) error {
		applied = append(applied, s)
		return nil
	})

	if err := r.RunImmediate(); err != nil {
		t.Fatalf("RunImmediate failed: %v", err)
	}
	if len(applied) != 3 {
		t.Errorf("applied %d steps, want 3", len(applied))
	}
}

func TestReplayer_ApplyErrorStopsReplay(t *testing.T) {
	tl, _ := Parse([]byte(sampleTimeline))

	boom := errors.New("boom")
	calls := 0
	r := NewReplayer(tl, func(s Step) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})

	err := r.RunImmediate()
	if !errors.Is(err, boom) {
		t.Errorf("RunImmediate err = %v, want wrapped boom", err)
	}
	if calls != 2 {
		t.Errorf("apply called %d times, want 2", calls)
	}
}

func TestReplayer_RunHonorsOffsets(t *testing.T) {
	tl, _ := Parse([]byte(sampleTimeline))

	start := time.Now()
	var lastOffset time.Duration
	r := NewReplayer(tl, func(s Step) error {
		lastOffset = time.Since(start)
		return nil
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// The final step is at 20ms; allow generous scheduling slack above it.
	if lastOffset < 20*time.Millisecond {
		t.Errorf("final step applied at %v, want >= 20ms", lastOffset)
	}
}

func TestReplayer_RunCancellable(t *testing.T) {
	tl, _ := Parse([]byte(`{"steps": [{"at_ms": 5000, "pin": "p", "action": "high"}]}`))

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReplayer(tl, func(s Step) error {
		t.Error("apply ran despite cancellation")
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
