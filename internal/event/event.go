package event

// Event is one unit of asynchronous notification: a type tag, a recipient,
// and a small payload. Events are immutable once constructed and small
// enough to copy by value through the queue.
//
// The payload is either the 16-bit value or, for env-carrying events, an
// arbitrary environment reference. The two are kept as separate fields with
// HasEnv as the discriminant: a 16-bit slot cannot hold a Go pointer, so the
// classic "value reinterpreted as pointer" trick is expressed as a tagged
// union instead.
type Event struct {
	typ    Type
	target Handler
	value  uint16
	env    any
}

// New constructs an event with the given type, recipient, and value.
func New(typ Type, target Handler, value uint16) Event {
	return Event{typ: typ, target: target, value: value}
}

// NewEnv constructs an event whose payload is an environment reference
// rather than a literal value. The value field reads as zero.
func NewEnv(typ Type, target Handler, env any) Event {
	return Event{typ: typ, target: target, env: env}
}

// Type returns the event's type tag.
func (e Event) Type() Type {
	return e.typ
}

// Target returns the event's recipient, or nil.
func (e Event) Target() Handler {
	return e.target
}

// Value returns the 16-bit payload.
func (e Event) Value() uint16 {
	return e.value
}

// Env returns the environment payload, or nil for value events. No
// ownership transfer and no validity check: the producer and consumer own
// the interpretation.
func (e Event) Env() any {
	return e.env
}

// HasEnv reports whether the event carries an environment payload.
func (e Event) HasEnv() bool {
	return e.env != nil
}

// Dispatch delivers the event to its target. A nil target makes Dispatch a
// no-op. Env-carrying events are delivered through EnvHandler when the
// target implements it; all other deliveries call OnEvent with the event's
// type and value.
//
// Dispatch returns nothing and propagates no failure: a handler that needs
// to signal one pushes a new event, conventionally TypeError.
func (e Event) Dispatch() {
	if e.target == nil {
		return
	}
	if e.env != nil {
		if h, ok := e.target.(EnvHandler); ok {
			h.OnEventEnv(e.typ, e.value, e.env)
			return
		}
	}
	e.target.OnEvent(e.typ, e.value)
}
