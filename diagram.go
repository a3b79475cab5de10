package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateText     = errors.New("idea already exists")
	ErrEmptyText         = errors.New("idea text is empty")
	ErrCentralNode       = errors.New("central idea cannot be removed")
	ErrMalformedDocument = errors.New("malformed diagram document")
)

// Node is a labeled, positioned vertex of the diagram.
type Node struct {
	ID      string
	Text    string
	X       int
	Y       int
	Central bool
}

// Connector is an undirected edge. It keeps references to its endpoint nodes
// so identifier rewrites during load are seen immediately.
type Connector struct {
	start *Node
	end   *Node
	line  Line
}

func (c *Connector) StartID() string { return c.start.ID }
func (c *Connector) EndID() string   { return c.end.ID }

// Touches reports whether the connector has id as one of its endpoints.
func (c *Connector) Touches(id string) bool {
	return c.start.ID == id || c.end.ID == id
}

func (c *Connector) joins(a, b *Node) bool {
	return (c.start == a && c.end == b) || (c.start == b && c.end == a)
}

// Diagram is the owned editing state shared by the registry and the
// connector manager. Nodes are kept in insertion order, which is also the
// redraw order.
type Diagram struct {
	nodes      []*Node
	connectors []*Connector
	nextID     int
}

func NewDiagram() *Diagram {
	return &Diagram{
		nodes:      make([]*Node, 0),
		connectors: make([]*Connector, 0),
	}
}

func (d *Diagram) allocateID() string {
	id := fmt.Sprintf("node-%d", d.nextID)
	d.nextID++
	return id
}

// find does a linear scan so a transiently duplicated id (possible while a
// document is being restored) never hides a node behind a map entry.
// reserveID moves the counter past a restored "node-<n>" id so later
// allocations never reuse it. Ids in any other form are left alone.
func (d *Diagram) reserveID(id string) {
	var n int
	if _, err := fmt.Sscanf(id, "node-%d", &n); err != nil || fmt.Sprintf("node-%d", n) != id {
		return
	}
	if n >= d.nextID {
		d.nextID = n + 1
	}
}

func (d *Diagram) find(id string) (int, *Node) {
	for i, n := range d.nodes {
		if n.ID == id {
			return i, n
		}
	}
	return -1, nil
}

func (d *Diagram) reset() {
	d.nodes = d.nodes[:0]
	d.connectors = d.connectors[:0]
	d.nextID = 0
}

// sameText compares labels case-insensitively after trimming whitespace.
func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
