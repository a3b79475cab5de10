package main

type EventKind int

const (
	NodeClicked EventKind = iota
	NodeMoved
	NodeRemoved
)

func (k EventKind) String() string {
	switch k {
	case NodeClicked:
		return "NodeClicked"
	case NodeMoved:
		return "NodeMoved"
	case NodeRemoved:
		return "NodeRemoved"
	default:
		return "Unknown"
	}
}

type Event struct {
	Kind   EventKind
	NodeID string
	X, Y   int
}

// Events is a synchronous observer list. Handlers run on the caller's
// goroutine in subscription order.
type Events struct {
	handlers map[EventKind][]func(Event)
}

func NewEvents() *Events {
	return &Events{handlers: make(map[EventKind][]func(Event))}
}

func (e *Events) Subscribe(kind EventKind, fn func(Event)) {
	e.handlers[kind] = append(e.handlers[kind], fn)
}

func (e *Events) Emit(ev Event) {
	for _, fn := range e.handlers[ev.Kind] {
		fn(ev)
	}
}
