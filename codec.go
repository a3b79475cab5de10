package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const storeKey = "mindMapData"

// Document is the persisted form of a diagram.
type Document struct {
	Nodes []NodeRecord `json:"nodes"`
	Lines []LineRecord `json:"lines"`
}

type NodeRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCentral bool   `json:"isCentral"`
	X         string `json:"x"`
	Y         string `json:"y"`
}

type LineRecord struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Codec moves a diagram between the registry/connector state and a Store.
type Codec struct {
	store      Store
	registry   *Registry
	connectors *Connectors
	log        *zap.Logger
}

func NewCodec(store Store, registry *Registry, connectors *Connectors, log *zap.Logger) *Codec {
	return &Codec{
		store:      store,
		registry:   registry,
		connectors: connectors,
		log:        log,
	}
}

// Serialize captures every node at its current position and every connector.
func (c *Codec) Serialize() Document {
	doc := Document{
		Nodes: make([]NodeRecord, 0, c.registry.Len()),
		Lines: make([]LineRecord, 0, c.connectors.Len()),
	}
	for _, n := range c.registry.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:        n.ID,
			Text:      n.Text,
			IsCentral: n.Central,
			X:         formatPixels(n.X),
			Y:         formatPixels(n.Y),
		})
	}
	for _, conn := range c.connectors.All() {
		doc.Lines = append(doc.Lines, LineRecord{Start: conn.StartID(), End: conn.EndID()})
	}
	return doc
}

// Deserialize rebuilds nodes through the normal creation path, so entries
// rejected there (duplicate or blank text) are skipped. Created nodes take
// their persisted ids; connectors whose endpoints were not restored are
// dropped.
func (c *Codec) Deserialize(doc Document) {
	restored := make(map[string]*Node, len(doc.Nodes))

	for _, rec := range doc.Nodes {
		x, okX := parsePixels(rec.X)
		y, okY := parsePixels(rec.Y)
		if !okX || !okY {
			c.log.Warn("unparseable node position", zap.String("node", rec.ID), zap.String("x", rec.X), zap.String("y", rec.Y))
		}
		node, err := c.registry.CreateNode(rec.Text, x, y, rec.IsCentral)
		if err != nil {
			c.log.Warn("skipping persisted node", zap.String("node", rec.ID), zap.Error(err))
			continue
		}
		c.registry.assignID(node, rec.ID)
		restored[rec.ID] = node
	}

	for _, rec := range doc.Lines {
		start, end := restored[rec.Start], restored[rec.End]
		if start == nil || end == nil {
			c.log.Warn("dropping dangling connector", zap.String("start", rec.Start), zap.String("end", rec.End))
			continue
		}
		c.connectors.Connect(start, end)
	}
}

func (c *Codec) Save() error {
	data, err := EncodeDocument(c.Serialize())
	if err != nil {
		return err
	}
	if err := c.store.Set(storeKey, string(data)); err != nil {
		return fmt.Errorf("save diagram: %w", err)
	}
	c.log.Info("diagram saved", zap.Int("nodes", c.registry.Len()), zap.Int("lines", c.connectors.Len()))
	return nil
}

// Load restores the stored diagram into the current state. A missing
// document is not an error; an unreadable one is logged and ignored.
func (c *Codec) Load() error {
	raw, ok, err := c.store.Get(storeKey)
	if err != nil {
		return fmt.Errorf("load diagram: %w", err)
	}
	if !ok {
		return nil
	}

	doc, err := DecodeDocument([]byte(raw))
	if err != nil {
		c.log.Warn("ignoring stored diagram", zap.Error(err))
		return nil
	}
	c.Deserialize(doc)
	c.log.Info("diagram loaded", zap.Int("nodes", c.registry.Len()), zap.Int("lines", c.connectors.Len()))
	return nil
}

// Clear deletes the stored document.
func (c *Codec) Clear() error {
	if err := c.store.Remove(storeKey); err != nil {
		return fmt.Errorf("clear diagram: %w", err)
	}
	return nil
}

func EncodeDocument(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return doc, nil
}

func formatPixels(v int) string {
	return strconv.Itoa(v) + "px"
}

// parsePixels reads the leading integer of s ("12.7px" -> 12). Values with
// no leading integer parse as 0 with ok=false.
func parsePixels(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
