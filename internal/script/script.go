// Package script lets application event handlers be written in Lua.
//
// A script declares a global on_event(type, value) function; Handler adapts
// it to the event.Handler capability so scripted recipients can be targeted
// by events from the user-defined type range exactly like compiled ones.
// Scripts additionally receive a push(type, value) function for raising
// follow-up events - the conventional way for a scripted handler to signal
// failure is pushing the error type back onto the queue.
//
// The Lua state is sandboxed: only the base, table, string, and math
// libraries are opened. io, os, debug, and package stay closed.
package script

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/microloop/internal/event"
)

// EntryPoint is the global function a script must define.
const EntryPoint = "on_event"

// Handler adapts a Lua on_event function to event.Handler.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes
// deliveries. With a single dispatch loop draining the queue the lock is
// uncontended.
type Handler struct {
	mu     sync.Mutex
	state  *lua.LState
	fn     lua.LValue
	queue  *event.Queue
	closed bool

	lastErr error
	errs    uint64
}

// New compiles source and returns a handler bound to its on_event function.
// The optional queue backs the script's push() function; pass nil for
// scripts that only consume.
func New(source string, q *event.Queue) (*Handler, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	h := &Handler{state: L, queue: q}
	h.installPush()

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading script: %w", err)
	}

	fn := L.GetGlobal(EntryPoint)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%w: global %q is %s", ErrNoEntryPoint, EntryPoint, fn.Type())
	}
	h.fn = fn
	return h, nil
}

// NewFile compiles the script at path.
func NewFile(path string, q *event.Queue) (*Handler, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return New(string(source), q)
}

// openSafeLibraries opens only safe Lua standard libraries. io, os, debug,
// and package are intentionally not opened.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installPush exposes push(type, value) to the script.
func (h *Handler) installPush() {
	h.state.SetGlobal("push", h.state.NewFunction(func(L *lua.LState) int {
		typ := event.Type(L.CheckInt(1))
		value := uint16(L.OptInt(2, 0))

		ok := false
		if h.queue != nil {
			ok = h.queue.Push(typ, h, value)
		}
		L.Push(lua.LBool(ok))
		return 1
	}))
}

// OnEvent implements event.Handler by invoking the script's on_event
// function. Script errors never propagate - they are recorded and
// retrievable through Err, matching the dispatch contract that handler
// failure does not escape delivery.
func (h *Handler) OnEvent(typ event.Type, value uint16) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	err := h.state.CallByParam(lua.P{
		Fn:      h.fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(typ), lua.LNumber(value))
	if err != nil {
		h.lastErr = err
		h.errs++
	}
}

// Err returns the most recent script error, or nil.
func (h *Handler) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// ErrCount returns the number of deliveries that ended in a script error.
func (h *Handler) ErrCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errs
}

// Close releases the Lua state. Deliveries after Close are no-ops.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.closed {
		h.closed = true
		h.state.Close()
	}
}
