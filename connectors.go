package main

import "go.uber.org/zap"

// LineStyle describes how a connector is drawn.
type LineStyle struct {
	Color string
	Size  int
	Path  string
}

var defaultLineStyle = LineStyle{Color: "#7f8c8d", Size: 3, Path: "fluid"}

// Line is the visual path of one connector.
type Line interface {
	Reposition()
	Remove()
}

// LineDrawer draws a path between two node representations.
type LineDrawer interface {
	Connect(from, to *Node, style LineStyle) Line
}

// Connectors owns the edge set of a diagram.
type Connectors struct {
	diagram *Diagram
	drawer  LineDrawer
	log     *zap.Logger
}

func NewConnectors(d *Diagram, drawer LineDrawer, events *Events, log *zap.Logger) *Connectors {
	c := &Connectors{diagram: d, drawer: drawer, log: log}
	events.Subscribe(NodeMoved, func(Event) { c.Refresh() })
	return c
}

// Connect links a and b. Self-loops and pairs that are already linked in
// either direction are ignored; the return value reports whether a
// connector was created.
func (c *Connectors) Connect(a, b *Node) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	if c.Has(a, b) {
		return false
	}

	conn := &Connector{start: a, end: b}
	conn.line = c.drawer.Connect(a, b, defaultLineStyle)
	c.diagram.connectors = append(c.diagram.connectors, conn)
	c.log.Debug("connector created", zap.String("start", a.ID), zap.String("end", b.ID))
	return true
}

func (c *Connectors) Has(a, b *Node) bool {
	for _, conn := range c.diagram.connectors {
		if conn.joins(a, b) {
			return true
		}
	}
	return false
}

// RemoveOf drops every connector incident to the node, un-drawing each path.
func (c *Connectors) RemoveOf(id string) {
	kept := make([]*Connector, 0, len(c.diagram.connectors))
	for _, conn := range c.diagram.connectors {
		if conn.Touches(id) {
			conn.line.Remove()
			c.log.Debug("connector removed", zap.String("start", conn.StartID()), zap.String("end", conn.EndID()))
			continue
		}
		kept = append(kept, conn)
	}
	c.diagram.connectors = kept
}

func (c *Connectors) RemoveAll() {
	for _, conn := range c.diagram.connectors {
		conn.line.Remove()
	}
	c.diagram.connectors = c.diagram.connectors[:0]
}

// Refresh recomputes every path. Geometry depends on both endpoints' screen
// positions, so this runs after any move, pan, zoom or resize.
func (c *Connectors) Refresh() {
	for _, conn := range c.diagram.connectors {
		conn.line.Reposition()
	}
}

func (c *Connectors) All() []*Connector {
	out := make([]*Connector, len(c.diagram.connectors))
	copy(out, c.diagram.connectors)
	return out
}

func (c *Connectors) Len() int {
	return len(c.diagram.connectors)
}
