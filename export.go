package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrNothingToExport = errors.New("nothing to export")

const (
	exportScale   = 2.0
	cellWidthPx   = 9.0
	cellHeightPx  = 18.0
	exportPadding = 2
)

// Snapshot is an immutable copy of the diagram geometry in world cells,
// safe to rasterize off the event loop. Border frames the image with the
// dashed container outline; Capture always leaves it off.
type Snapshot struct {
	Boxes  []SnapshotBox
	Lines  [][]point
	Border bool
	Theme  string
}

type SnapshotBox struct {
	Bounds  rect
	Text    string
	Central bool
}

// Capture takes a snapshot with the container border hidden, restoring the
// border afterwards.
func (c *Canvas) Capture(theme *Theme) Snapshot {
	prev := c.border
	c.border = false
	defer func() { c.border = prev }()

	snap := Snapshot{Border: c.border, Theme: theme.Name}
	for _, e := range c.elements {
		snap.Boxes = append(snap.Boxes, SnapshotBox{
			Bounds:  worldRect(e),
			Text:    e.node.Text,
			Central: e.node.Central,
		})
	}
	for _, l := range c.lines {
		if l.from == nil || l.to == nil {
			continue
		}
		snap.Lines = append(snap.Lines, fluidPath(worldRect(l.from), worldRect(l.to)))
	}
	return snap
}

func (s Snapshot) bounds() (rect, bool) {
	if len(s.Boxes) == 0 {
		return rect{}, false
	}
	minX, minY := s.Boxes[0].Bounds.X, s.Boxes[0].Bounds.Y
	maxX, maxY := minX, minY
	grow := func(x, y int) {
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x), max(maxY, y)
	}
	for _, b := range s.Boxes {
		grow(b.Bounds.X, b.Bounds.Y)
		grow(b.Bounds.X+b.Bounds.W, b.Bounds.Y+b.Bounds.H)
	}
	for _, path := range s.Lines {
		for _, p := range path {
			grow(p.X, p.Y)
		}
	}
	minX -= exportPadding
	minY -= exportPadding
	maxX += exportPadding
	maxY += exportPadding
	return rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Rasterize draws the snapshot at exportScale.
func (s Snapshot) Rasterize() (*gg.Context, error) {
	area, ok := s.bounds()
	if !ok {
		return nil, ErrNothingToExport
	}
	palette := exportPalette(s.Theme)

	cw, ch := cellWidthPx*exportScale, cellHeightPx*exportScale
	dc := gg.NewContext(int(float64(area.W)*cw), int(float64(area.H)*ch))
	dc.SetColor(palette.background)
	dc.Clear()
	if s.Border {
		drawFrame(dc, palette.line)
	}

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    11 * exportScale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	px := func(p point) (float64, float64) {
		return (float64(p.X-area.X) + 0.5) * cw, (float64(p.Y-area.Y) + 0.5) * ch
	}

	dc.SetColor(palette.line)
	dc.SetLineWidth(float64(defaultLineStyle.Size) * exportScale / 2)
	for _, path := range s.Lines {
		for i, p := range path {
			x, y := px(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}

	for _, b := range s.Boxes {
		x := float64(b.Bounds.X-area.X) * cw
		y := float64(b.Bounds.Y-area.Y) * ch
		w := float64(b.Bounds.W) * cw
		h := float64(b.Bounds.H) * ch

		fill, text := palette.node, palette.nodeText
		if b.Central {
			fill, text = palette.central, palette.centralText
		}
		dc.DrawRoundedRectangle(x, y, w, h, 6*exportScale)
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(palette.line)
		dc.SetLineWidth(exportScale)
		dc.Stroke()

		dc.SetColor(text)
		dc.DrawStringAnchored(b.Text, x+w/2, y+h/2, 0.5, 0.35)
	}
	return dc, nil
}

// drawFrame strokes the dashed outline the terminal draws around the canvas.
func drawFrame(dc *gg.Context, c color.Color) {
	inset := exportScale
	dc.SetColor(c)
	dc.SetLineWidth(exportScale)
	dc.SetDash(4*exportScale, 4*exportScale)
	dc.DrawRectangle(inset, inset, float64(dc.Width())-2*inset, float64(dc.Height())-2*inset)
	dc.Stroke()
	dc.SetDash()
}

// ExportPNG writes the snapshot as a PNG image.
func ExportPNG(snap Snapshot, filename string) error {
	dc, err := snap.Rasterize()
	if err != nil {
		return err
	}
	return dc.SavePNG(filename)
}

// ExportPDF writes the snapshot onto a single landscape page sized to the
// image's pixel dimensions (one pixel per point).
func ExportPDF(snap Snapshot, filename string) error {
	dc, err := snap.Rasterize()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return err
	}

	w, h := float64(dc.Width()), float64(dc.Height())
	pageW, pageH := max(w, h), min(w, h)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("mind-map", opts, &buf)
	pdf.ImageOptions("mind-map", 0, 0, w, h, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return pdf.Output(f)
}

type palette struct {
	background  color.Color
	line        color.Color
	node        color.Color
	nodeText    color.Color
	central     color.Color
	centralText color.Color
}

func exportPalette(theme string) palette {
	if theme == "dark" {
		return palette{
			background:  color.RGBA{0x1e, 0x27, 0x2e, 0xff},
			line:        color.RGBA{0x95, 0xa5, 0xa6, 0xff},
			node:        color.RGBA{0x2c, 0x3e, 0x50, 0xff},
			nodeText:    color.RGBA{0xec, 0xf0, 0xf1, 0xff},
			central:     color.RGBA{0xe6, 0x7e, 0x22, 0xff},
			centralText: color.White,
		}
	}
	return palette{
		background:  color.RGBA{0xf4, 0xf7, 0xf9, 0xff},
		line:        color.RGBA{0x7f, 0x8c, 0x8d, 0xff},
		node:        color.White,
		nodeText:    color.RGBA{0x2c, 0x3e, 0x50, 0xff},
		central:     color.RGBA{0x34, 0x98, 0xdb, 0xff},
		centralText: color.White,
	}
}
