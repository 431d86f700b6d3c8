package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/microloop/internal/event"
	"github.com/dshills/microloop/internal/event/dispatch"
)

// monitorRows is the number of recent deliveries kept on screen.
const monitorRows = 16

// monitor renders queue depth, loop counters, and the most recent
// deliveries in a terminal screen.
type monitor struct {
	screen tcell.Screen
	queue  *event.Queue

	mu     sync.Mutex
	recent []string
	seq    uint64

	closeOnce sync.Once
}

func newMonitor(q *event.Queue) (*monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &monitor{screen: screen, queue: q}, nil
}

func (m *monitor) close() {
	m.closeOnce.Do(m.screen.Fini)
}

// observe is wired as a dispatch observer. It runs on the loop
// goroutine, so it only records; drawing happens in runUI.
func (m *monitor) observe(e event.Event, result dispatch.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	status := "ok"
	switch {
	case result.Panicked:
		status = "panic"
	case !result.Delivered:
		status = "skipped"
	}
	line := fmt.Sprintf("%6d  %-16s  value=%-5d  %-7s  %s",
		m.seq, e.Type(), e.Value(), status, result.Duration.Round(time.Microsecond))
	m.recent = append(m.recent, line)
	if len(m.recent) > monitorRows {
		m.recent = m.recent[len(m.recent)-monitorRows:]
	}
}

// runUI blocks until the user quits or ctx is cancelled. Quitting
// cancels the whole run.
func (m *monitor) runUI(ctx context.Context, cancel context.CancelFunc, loop *dispatch.Loop) {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := m.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.draw(loop)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				m.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancel()
					return
				}
			}
		}
	}
}

func (m *monitor) draw(loop *dispatch.Loop) {
	qs := m.queue.Stats()
	ls := loop.Stats()

	m.screen.Clear()

	header := tcell.StyleDefault.Bold(true)
	m.drawText(0, 0, header, "microloop monitor  (q to quit)")
	m.drawText(0, 2, tcell.StyleDefault, fmt.Sprintf(
		"queue %d/%d   enqueued %d   rejected %d   dispatched %d   panicked %d",
		qs.Depth, qs.Capacity, qs.Enqueued, qs.Rejected, ls.Dispatched, ls.Panicked))
	m.drawText(0, 4, header, fmt.Sprintf("%6s  %-16s  %-12s  %-7s  %s",
		"seq", "type", "value", "status", "took"))

	m.mu.Lock()
	for i, line := range m.recent {
		m.drawText(0, 5+i, tcell.StyleDefault, line)
	}
	m.mu.Unlock()

	m.screen.Show()
}

func (m *monitor) drawText(x, y int, style tcell.Style, text string) {
	width, height := m.screen.Size()
	if y >= height {
		return
	}
	for i, r := range text {
		if x+i >= width {
			return
		}
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}
