package event

// Type tags an event. The numeric space is a single byte, partitioned by
// convention rather than enforcement: 0 means "no event", a contiguous
// reserved block covers the built-in lifecycle, driver, and protocol events,
// TypeUser starts the application-defined range, and TypeError sits at the
// top of the range as the conventional failure tag.
//
// Types are not globally unique across unrelated protocols. Interpretation
// belongs to whichever handler receives the event.
type Type uint8

const (
	// TypeNone is the zero value: no event.
	TypeNone Type = iota

	// Digital pins.
	TypeFalling
	TypeRising
	TypeChange

	// Analog pins.
	TypeSampleRequest
	TypeSampleCompleted

	// Watchdog and timers.
	TypeWatchdog
	TypeTimeout

	// Finite state machines.
	TypeBegin
	TypeEnd

	// Threads.
	TypeRun

	// Device drivers and protocol stacks.
	TypeConnect
	TypeDisconnect
	TypeReceiveRequest
	TypeReceiveCompleted
	TypeSendRequest
	TypeSendCompleted

	// Device drivers and storage.
	TypeOpen
	TypeClose
	TypeReadRequest
	TypeReadCompleted
	TypeWriteRequest
	TypeWriteCompleted
	TypeCommandRequest
	TypeCommandCompleted

	// Servers.
	TypeServiceRequest
	TypeServiceResponse
)

const (
	// TypeUser is the first tag of the application-defined range (64-254).
	TypeUser Type = 64

	// TypeError is the conventional error tag. The queue and dispatcher
	// assign it no special behavior.
	TypeError Type = 255
)

// typeNames covers the reserved block for String.
var typeNames = [...]string{
	TypeNone:             "none",
	TypeFalling:          "falling",
	TypeRising:           "rising",
	TypeChange:           "change",
	TypeSampleRequest:    "sample.request",
	TypeSampleCompleted:  "sample.completed",
	TypeWatchdog:         "watchdog",
	TypeTimeout:          "timeout",
	TypeBegin:            "begin",
	TypeEnd:              "end",
	TypeRun:              "run",
	TypeConnect:          "connect",
	TypeDisconnect:       "disconnect",
	TypeReceiveRequest:   "receive.request",
	TypeReceiveCompleted: "receive.completed",
	TypeSendRequest:      "send.request",
	TypeSendCompleted:    "send.completed",
	TypeOpen:             "open",
	TypeClose:            "close",
	TypeReadRequest:      "read.request",
	TypeReadCompleted:    "read.completed",
	TypeWriteRequest:     "write.request",
	TypeWriteCompleted:   "write.completed",
	TypeCommandRequest:   "command.request",
	TypeCommandCompleted: "command.completed",
	TypeServiceRequest:   "service.request",
	TypeServiceResponse:  "service.response",
}

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch {
	case int(t) < len(typeNames):
		return typeNames[t]
	case t == TypeError:
		return "error"
	case t.IsUser():
		return "user"
	default:
		return "reserved"
	}
}

// IsUser reports whether t falls in the application-defined range.
func (t Type) IsUser() bool {
	return t >= TypeUser && t < TypeError
}

// Handler is the capability invoked when an event is delivered. Recipients
// implement it; the queue and dispatcher only hold non-owning references and
// never manage a handler's lifetime. A handler must outlive any event that
// references it - this is a caller obligation, not a checked invariant.
type Handler interface {
	// OnEvent receives a delivered event's type and value.
	OnEvent(typ Type, value uint16)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(typ Type, value uint16)

// OnEvent implements the Handler interface.
func (f HandlerFunc) OnEvent(typ Type, value uint16) {
	f(typ, value)
}

// EnvHandler is an optional upgrade of Handler for recipients that consume
// the environment payload of env-carrying events. Dispatch prefers
// OnEventEnv when the event carries an environment and the target implements
// this interface; otherwise it falls back to OnEvent.
type EnvHandler interface {
	Handler

	// OnEventEnv receives the event's type, value, and environment payload.
	OnEventEnv(typ Type, value uint16, env any)
}
