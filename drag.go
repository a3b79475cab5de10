package main

// dragThreshold is the displacement, on either axis, that turns a press
// into a drag instead of a tap.
const dragThreshold = 5

type DragState int

const (
	DragIdle DragState = iota
	DragPossible
	Dragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "Idle"
	case DragPossible:
		return "PossibleDrag"
	case Dragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}

type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

type dragState struct {
	state          DragState
	kind           PointerKind
	startX, startY int
	lastX, lastY   int
}

// DragController runs one press/move/release state machine per node. While
// a press is active the controller holds the capture, so moves and the
// release are delivered to it no matter where the pointer is.
type DragController struct {
	registry *Registry
	states   map[string]*dragState
	captured string
}

func NewDragController(registry *Registry, events *Events) *DragController {
	c := &DragController{
		registry: registry,
		states:   make(map[string]*dragState),
	}
	events.Subscribe(NodeRemoved, func(ev Event) {
		delete(c.states, ev.NodeID)
		if c.captured == ev.NodeID {
			c.captured = ""
		}
	})
	return c
}

func (c *DragController) PointerDown(id string, kind PointerKind, x, y int) {
	if c.registry.Node(id) == nil {
		return
	}
	st, ok := c.states[id]
	if !ok {
		st = &dragState{}
		c.states[id] = st
	}
	st.state = DragPossible
	st.kind = kind
	st.startX, st.startY = x, y
	st.lastX, st.lastY = x, y
	c.captured = id
}

// PointerMove feeds a pointer position to the captured node. It returns true
// when a confirmed drag comes from a touch pointer, whose default scroll and
// zoom gestures must then be suppressed. Mouse drags move the node but
// report false.
func (c *DragController) PointerMove(x, y int) bool {
	st := c.active()
	if st == nil {
		return false
	}

	switch st.state {
	case DragPossible:
		if abs(x-st.startX) <= dragThreshold && abs(y-st.startY) <= dragThreshold {
			return false
		}
		st.state = Dragging
		fallthrough
	case Dragging:
		dx, dy := x-st.lastX, y-st.lastY
		st.lastX, st.lastY = x, y
		c.registry.MoveBy(c.captured, dx, dy)
		return st.kind == PointerTouch
	}
	return false
}

// PointerUp ends the interaction. A press that never became a drag is
// forwarded as a click.
func (c *DragController) PointerUp(x, y int) {
	st := c.active()
	if st == nil {
		return
	}
	id := c.captured
	tapped := st.state != Dragging

	st.state = DragIdle
	c.captured = ""
	if tapped {
		c.registry.Click(id)
	}
}

// Captured returns the node currently holding the pointer, if any.
func (c *DragController) Captured() string {
	return c.captured
}

func (c *DragController) State(id string) DragState {
	if st, ok := c.states[id]; ok {
		return st.state
	}
	return DragIdle
}

func (c *DragController) active() *dragState {
	if c.captured == "" {
		return nil
	}
	return c.states[c.captured]
}

// forget drops all per-node state; used when the diagram is cleared.
func (c *DragController) forget() {
	c.states = make(map[string]*dragState)
	c.captured = ""
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
