package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	nodeHeight  = 3
	nodePadding = 2
	defaultZoom = 100
)

var zoomLevels = []int{50, 75, 100, 150, 200}

type point struct {
	X, Y int
}

type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// nodeWidth is the box width for a label: borders, padding and text.
func nodeWidth(text string) int {
	return lipgloss.Width(text) + 2*nodePadding + 2
}

type element struct {
	node *Node
	x, y int
}

func (e *element) width() int { return nodeWidth(e.node.Text) }

// Canvas is the terminal drawing surface. Elements live in world cells; the
// viewport maps them to screen cells through pan and zoom.
type Canvas struct {
	width    int
	height   int
	panX     int
	panY     int
	zoom     int
	border   bool
	elements []*element
	lines    []*canvasLine
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:    width,
		height:   height,
		zoom:     defaultZoom,
		border:   true,
		elements: make([]*element, 0),
		lines:    make([]*canvasLine, 0),
	}
}

func (c *Canvas) Place(n *Node) {
	c.elements = append(c.elements, &element{node: n, x: n.X, y: n.Y})
}

func (c *Canvas) Remove(n *Node) {
	for i, e := range c.elements {
		if e.node == n {
			c.elements = append(c.elements[:i], c.elements[i+1:]...)
			return
		}
	}
}

func (c *Canvas) SetPosition(n *Node, x, y int) {
	if e := c.elementFor(n); e != nil {
		e.x, e.y = x, y
	}
}

func (c *Canvas) elementFor(n *Node) *element {
	for _, e := range c.elements {
		if e.node == n {
			return e
		}
	}
	return nil
}

func (c *Canvas) Connect(from, to *Node, style LineStyle) Line {
	l := &canvasLine{
		canvas: c,
		from:   c.elementFor(from),
		to:     c.elementFor(to),
		style:  style,
	}
	c.lines = append(c.lines, l)
	l.Reposition()
	return l
}

func (c *Canvas) Resize(width, height int) {
	c.width, c.height = width, height
}

func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

func (c *Canvas) Zoom() int {
	return c.zoom
}

// SetZoom snaps to the nearest supported zoom level.
func (c *Canvas) SetZoom(percent int) {
	best := zoomLevels[0]
	for _, z := range zoomLevels {
		if abs(z-percent) < abs(best-percent) {
			best = z
		}
	}
	c.zoom = best
}

func (c *Canvas) ZoomIn() {
	for _, z := range zoomLevels {
		if z > c.zoom {
			c.zoom = z
			return
		}
	}
}

func (c *Canvas) ZoomOut() {
	for i := len(zoomLevels) - 1; i >= 0; i-- {
		if zoomLevels[i] < c.zoom {
			c.zoom = zoomLevels[i]
			return
		}
	}
}

func (c *Canvas) Pan(dx, dy int) {
	c.panX += dx
	c.panY += dy
}

func (c *Canvas) PanOffset() (int, int) {
	return c.panX, c.panY
}

func (c *Canvas) SetBorder(on bool) {
	c.border = on
}

func (c *Canvas) Border() bool {
	return c.border
}

func (c *Canvas) toScreen(x, y int) (int, int) {
	return x*c.zoom/100 - c.panX, y*c.zoom/100 - c.panY
}

// ToWorld converts a screen cell to world coordinates.
func (c *Canvas) ToWorld(sx, sy int) (int, int) {
	return (sx + c.panX) * 100 / c.zoom, (sy + c.panY) * 100 / c.zoom
}

// screenRect is where an element is drawn. Zoom scales positions only; a
// box always keeps its label-sized footprint.
func (c *Canvas) screenRect(e *element) rect {
	x, y := c.toScreen(e.x, e.y)
	return rect{X: x, Y: y, W: e.width(), H: nodeHeight}
}

func worldRect(e *element) rect {
	return rect{X: e.x, Y: e.y, W: e.width(), H: nodeHeight}
}

// NodeAt returns the topmost node drawn at a screen cell.
func (c *Canvas) NodeAt(sx, sy int) *Node {
	for i := len(c.elements) - 1; i >= 0; i-- {
		if c.screenRect(c.elements[i]).contains(sx, sy) {
			return c.elements[i].node
		}
	}
	return nil
}

// Visible returns the world rectangle covered by the viewport.
func (c *Canvas) Visible() rect {
	x0, y0 := c.ToWorld(0, 0)
	x1, y1 := c.ToWorld(c.width, c.height)
	return rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

type canvasLine struct {
	canvas *Canvas
	from   *element
	to     *element
	style  LineStyle
	path   []point
}

// Reposition recomputes the path between the two boxes' current screen
// rectangles.
func (l *canvasLine) Reposition() {
	if l.from == nil || l.to == nil {
		l.path = nil
		return
	}
	l.path = fluidPath(l.canvas.screenRect(l.from), l.canvas.screenRect(l.to))
}

func (l *canvasLine) Remove() {
	for i, other := range l.canvas.lines {
		if other == l {
			l.canvas.lines = append(l.canvas.lines[:i], l.canvas.lines[i+1:]...)
			return
		}
	}
}

// connectionPoints picks the facing sides of two boxes: left/right when they
// are further apart horizontally than vertically, top/bottom otherwise.
func connectionPoints(from, to rect) (fromX, fromY, toX, toY int, horizontal bool) {
	fromCenterX := from.X + from.W/2
	fromCenterY := from.Y + from.H/2
	toCenterX := to.X + to.W/2
	toCenterY := to.Y + to.H/2

	if abs(fromCenterX-toCenterX) > abs(fromCenterY-toCenterY) {
		if fromCenterX < toCenterX {
			return from.X + from.W, fromCenterY, to.X - 1, toCenterY, true
		}
		return from.X - 1, fromCenterY, to.X + to.W, toCenterY, true
	}
	if fromCenterY < toCenterY {
		return fromCenterX, from.Y + from.H, toCenterX, to.Y - 1, false
	}
	return fromCenterX, from.Y - 1, toCenterX, to.Y + to.H, false
}

// fluidPath is an orthogonal path with one bend pair at the midpoint.
func fluidPath(from, to rect) []point {
	fx, fy, tx, ty, horizontal := connectionPoints(from, to)
	if horizontal {
		mx := (fx + tx) / 2
		return []point{{fx, fy}, {mx, fy}, {mx, ty}, {tx, ty}}
	}
	my := (fy + ty) / 2
	return []point{{fx, fy}, {fx, my}, {tx, my}, {tx, ty}}
}

type cellClass int

const (
	cellEmpty cellClass = iota
	cellBorder
	cellLine
	cellBox
	cellCentral
	cellSelected
	cellText
)

type grid struct {
	runes   [][]rune
	classes [][]cellClass
}

func newGrid(width, height int) *grid {
	g := &grid{
		runes:   make([][]rune, height),
		classes: make([][]cellClass, height),
	}
	for y := range g.runes {
		g.runes[y] = []rune(strings.Repeat(" ", width))
		g.classes[y] = make([]cellClass, width)
	}
	return g
}

func (g *grid) set(x, y int, r rune, class cellClass) {
	if y < 0 || y >= len(g.runes) || x < 0 || x >= len(g.runes[y]) {
		return
	}
	g.runes[y][x] = r
	g.classes[y][x] = class
}

func (c *Canvas) paint(selected string) *grid {
	g := newGrid(c.width, c.height)

	if c.border && c.width > 1 && c.height > 1 {
		for x := 0; x < c.width; x++ {
			g.set(x, 0, '╌', cellBorder)
			g.set(x, c.height-1, '╌', cellBorder)
		}
		for y := 0; y < c.height; y++ {
			g.set(0, y, '╎', cellBorder)
			g.set(c.width-1, y, '╎', cellBorder)
		}
	}

	for _, l := range c.lines {
		drawPath(g, l.path)
	}
	for _, e := range c.elements {
		class := cellBox
		switch {
		case e.node.ID == selected:
			class = cellSelected
		case e.node.Central:
			class = cellCentral
		}
		drawBox(g, c.screenRect(e), e.node.Text, class)
	}
	return g
}

// Lines renders the viewport without styling.
func (c *Canvas) Lines(selected string) []string {
	g := c.paint(selected)
	out := make([]string, len(g.runes))
	for y, row := range g.runes {
		out[y] = string(row)
	}
	return out
}

// Render renders the viewport, styling runs of cells with the theme.
func (c *Canvas) Render(selected string, theme *Theme) string {
	g := c.paint(selected)
	var b strings.Builder
	for y, row := range g.runes {
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && g.classes[y][x] == g.classes[y][start] {
				continue
			}
			b.WriteString(theme.style(g.classes[y][start]).Render(string(row[start:x])))
			start = x
		}
		if y < len(g.runes)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var boxGlyphs = map[cellClass][6]rune{
	cellBox:      {'╭', '╮', '╰', '╯', '─', '│'},
	cellCentral:  {'╔', '╗', '╚', '╝', '═', '║'},
	cellSelected: {'┏', '┓', '┗', '┛', '━', '┃'},
}

func drawBox(g *grid, r rect, text string, class cellClass) {
	glyphs := boxGlyphs[class]
	right, bottom := r.X+r.W-1, r.Y+r.H-1

	for y := r.Y; y <= bottom; y++ {
		for x := r.X; x <= right; x++ {
			g.set(x, y, ' ', class)
		}
	}
	for x := r.X + 1; x < right; x++ {
		g.set(x, r.Y, glyphs[4], class)
		g.set(x, bottom, glyphs[4], class)
	}
	for y := r.Y + 1; y < bottom; y++ {
		g.set(r.X, y, glyphs[5], class)
		g.set(right, y, glyphs[5], class)
	}
	g.set(r.X, r.Y, glyphs[0], class)
	g.set(right, r.Y, glyphs[1], class)
	g.set(r.X, bottom, glyphs[2], class)
	g.set(right, bottom, glyphs[3], class)

	x := r.X + 1 + nodePadding
	for _, ch := range text {
		g.set(x, r.Y+1, ch, cellText)
		x += lipgloss.Width(string(ch))
	}
}

func drawPath(g *grid, path []point) {
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		switch {
		case a.Y == b.Y:
			for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
				g.set(x, a.Y, '─', cellLine)
			}
		case a.X == b.X:
			for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
				g.set(a.X, y, '│', cellLine)
			}
		}
	}
	for i := 1; i+1 < len(path); i++ {
		if r, ok := cornerRune(path[i-1], path[i], path[i+1]); ok {
			g.set(path[i].X, path[i].Y, r, cellLine)
		}
	}
}

// cornerRune picks the glyph joining the segment arriving from prev with
// the one leaving towards next.
func cornerRune(prev, at, next point) (rune, bool) {
	const (
		left = 1 << iota
		right
		top
		bottom
	)
	sides := 0
	switch {
	case prev.X < at.X:
		sides |= left
	case prev.X > at.X:
		sides |= right
	case prev.Y < at.Y:
		sides |= top
	case prev.Y > at.Y:
		sides |= bottom
	}
	switch {
	case next.X > at.X:
		sides |= right
	case next.X < at.X:
		sides |= left
	case next.Y > at.Y:
		sides |= bottom
	case next.Y < at.Y:
		sides |= top
	}

	switch sides {
	case left | bottom:
		return '┐', true
	case left | top:
		return '┘', true
	case right | bottom:
		return '┌', true
	case right | top:
		return '└', true
	case left | right:
		return '─', true
	case top | bottom:
		return '│', true
	}
	return 0, false
}
