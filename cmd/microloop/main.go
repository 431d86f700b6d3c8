// Package main is the microloop demo: a simulated board whose pin, timer,
// and state-machine activity flows through the bounded event queue into the
// dispatch loop, with an optional live terminal monitor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/microloop/internal/config"
	"github.com/dshills/microloop/internal/event"
	"github.com/dshills/microloop/internal/event/dispatch"
	"github.com/dshills/microloop/internal/script"
	"github.com/dshills/microloop/internal/sim"
	"github.com/dshills/microloop/internal/source/watchdog"
	"github.com/dshills/microloop/internal/trace"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	scriptPath string
	timeline   string
	headless   bool
	duration   time.Duration
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.timeline != "" {
		cfg.Sim.Timeline = opts.timeline
	}

	queue := event.NewQueue(event.WithCapacity(cfg.Queue.Capacity))
	recorder := trace.NewRecorder(trace.WithLimit(cfg.Trace.Limit))

	// The board's default recipient is a state machine that starts
	// counting once it sees its begin event; -script swaps in a Lua
	// handler instead.
	var target event.Handler
	machine := newCounter(queue)
	target = machine

	var scripted *script.Handler
	if opts.scriptPath != "" {
		scripted, err = script.NewFile(opts.scriptPath, queue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer scripted.Close()
		target = scripted
	}

	board := newBoard(queue, target)

	wd, err := watchdog.New(queue, target, 100*time.Millisecond)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	var mon *monitor
	observer := recorder.Observe
	if !opts.headless {
		mon, err = newMonitor(queue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
			return 1
		}
		defer mon.close()
		observer = func(e event.Event, result dispatch.Result) {
			recorder.Observe(e, result)
			mon.observe(e, result)
		}
	}

	loop := dispatch.NewLoop(queue,
		dispatch.WithIdleWait(cfg.Loop.IdleWait()),
		dispatch.WithObserver(observer),
	)

	machine.Begin()
	if err := wd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer wd.Stop()

	if cfg.Sim.Timeline != "" {
		tl, err := sim.LoadFile(cfg.Sim.Timeline)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		go func() {
			replayer := sim.NewReplayer(tl, board.apply)
			if err := replayer.Run(ctx); err != nil && err != context.Canceled {
				fmt.Fprintf(os.Stderr, "replay: %v\n", err)
			}
		}()
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(ctx)
	}()

	if opts.headless {
		timer := time.NewTimer(opts.duration)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
		cancel()
	} else {
		mon.runUI(ctx, cancel, loop)
	}

	<-loopDone
	// Final drain so nothing queued before cancellation is lost.
	loop.ServeOnce()

	// Restore the terminal before writing the summary to stdout.
	if mon != nil {
		mon.close()
	}

	if cfg.Trace.Enabled {
		if err := recorder.WriteFile(cfg.Trace.Path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	printSummary(queue, loop, machine, scripted)
	return 0
}

// printSummary reports run counters to stdout.
func printSummary(q *event.Queue, loop *dispatch.Loop, m *counter, s *script.Handler) {
	qs := q.Stats()
	ls := loop.Stats()

	fmt.Printf("queue:  enqueued=%d dequeued=%d rejected=%d depth=%d/%d\n",
		qs.Enqueued, qs.Dequeued, qs.Rejected, qs.Depth, qs.Capacity)
	fmt.Printf("loop:   dispatched=%d skipped=%d panicked=%d idle=%d\n",
		ls.Dispatched, ls.Skipped, ls.Panicked, ls.IdlePasses)
	if s != nil {
		fmt.Printf("script: errors=%d\n", s.ErrCount())
	} else {
		fmt.Printf("fsm:    edges=%d samples=%d ticks=%d\n",
			m.edges, m.samples, m.ticks)
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua handler for board events")
	flag.StringVar(&opts.timeline, "timeline", "", "JSON stimulus timeline (overrides config)")
	flag.BoolVar(&opts.headless, "headless", false, "Run without the terminal monitor")
	flag.DurationVar(&opts.duration, "duration", 2*time.Second, "Headless run duration")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "microloop - event queue runtime demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: microloop [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  microloop                          Live monitor, watchdog only\n")
		fmt.Fprintf(os.Stderr, "  microloop -timeline steps.json     Replay stimuli against the board\n")
		fmt.Fprintf(os.Stderr, "  microloop -headless -duration 5s   Run without UI, print counters\n")
		fmt.Fprintf(os.Stderr, "  microloop -script handler.lua      Scripted event handler\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("microloop %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts
}
