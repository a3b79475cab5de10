package main

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportSession(t *testing.T) *Session {
	t.Helper()
	s, _ := newTestSession(t)
	goal := mustCreate(t, s, "Goal", 10, 5, true)
	task := mustCreate(t, s, "Task A", 40, 12, false)
	s.Connectors.Connect(goal, task)
	return s
}

func TestCaptureHidesBorderAndRestoresIt(t *testing.T) {
	s := exportSession(t)
	require.True(t, s.Canvas.Border())

	snap := s.Canvas.Capture(lightTheme())
	assert.False(t, snap.Border)
	assert.True(t, s.Canvas.Border())
	assert.Len(t, snap.Boxes, 2)
	assert.Len(t, snap.Lines, 1)
	assert.Equal(t, "light", snap.Theme)
}

func TestCaptureUsesWorldCoordinates(t *testing.T) {
	s := exportSession(t)
	s.Canvas.Pan(30, 30)
	s.Canvas.SetZoom(200)
	s.Relayout()

	snap := s.Canvas.Capture(darkTheme())
	assert.Equal(t, 10, snap.Boxes[0].Bounds.X)
	assert.Equal(t, 5, snap.Boxes[0].Bounds.Y)
	assert.True(t, snap.Boxes[0].Central)
}

func TestExportPNG(t *testing.T) {
	s := exportSession(t)
	path := filepath.Join(t.TempDir(), "mind-map.png")

	require.NoError(t, ExportPNG(s.Canvas.Capture(lightTheme()), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)

	area, ok := s.Canvas.Capture(lightTheme()).bounds()
	require.True(t, ok)
	assert.Equal(t, int(float64(area.W)*cellWidthPx*exportScale), cfg.Width)
	assert.Equal(t, int(float64(area.H)*cellHeightPx*exportScale), cfg.Height)
}

func TestExportPDF(t *testing.T) {
	s := exportSession(t)
	path := filepath.Join(t.TempDir(), "mind-map.pdf")

	require.NoError(t, ExportPDF(s.Canvas.Capture(darkTheme()), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportEmptyDiagram(t *testing.T) {
	s, _ := newTestSession(t)
	snap := s.Canvas.Capture(lightTheme())
	dir := t.TempDir()

	assert.ErrorIs(t, ExportPNG(snap, filepath.Join(dir, "a.png")), ErrNothingToExport)
	assert.ErrorIs(t, ExportPDF(snap, filepath.Join(dir, "a.pdf")), ErrNothingToExport)
	_, err := os.Stat(filepath.Join(dir, "a.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotBoundsIncludePadding(t *testing.T) {
	snap := Snapshot{Boxes: []SnapshotBox{{Bounds: rect{X: 10, Y: 5, W: 10, H: 3}}}}
	area, ok := snap.bounds()
	require.True(t, ok)
	assert.Equal(t, rect{X: 8, Y: 3, W: 14, H: 7}, area)
}

func TestExportTaskReportsResult(t *testing.T) {
	s := exportSession(t)
	path := filepath.Join(t.TempDir(), "out.png")

	msg := exportTask(s.Canvas.Capture(lightTheme()), FormatPNG, path)()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	assert.Equal(t, path, done.path)
}

func TestRasterizeDrawsBorderOnlyWhenSet(t *testing.T) {
	s := exportSession(t)
	snap := s.Canvas.Capture(lightTheme())
	bg := color.RGBAModel.Convert(exportPalette(snap.Theme).background)

	plain, err := snap.Rasterize()
	require.NoError(t, err)
	assert.Equal(t, bg, color.RGBAModel.Convert(plain.Image().At(4, 2)))

	snap.Border = true
	framed, err := snap.Rasterize()
	require.NoError(t, err)
	assert.NotEqual(t, bg, color.RGBAModel.Convert(framed.Image().At(4, 2)))
	assert.Equal(t, plain.Width(), framed.Width())
}
