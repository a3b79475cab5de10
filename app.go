package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type exportDoneMsg struct {
	path string
	err  error
}

type model struct {
	session       *Session
	cfg           *Config
	theme         *Theme
	log           *zap.Logger
	width         int
	height        int
	mode          Mode
	input         textinput.Model
	notice        notice
	confirmAction ConfirmAction
}

func newModel(session *Session, cfg *Config, log *zap.Logger) model {
	input := textinput.New()
	input.Placeholder = "Type an idea and press enter"
	input.Prompt = "idea> "
	input.CharLimit = maxLabelLength

	return model{
		session: session,
		cfg:     cfg,
		theme:   themeByName(cfg.Theme),
		log:     log,
		mode:    ModeNormal,
		input:   input,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.session.Canvas.Resize(msg.Width, max(1, msg.Height-chromeRows))
		m.session.Relayout()
		m.input.Width = max(10, msg.Width-len(m.input.Prompt)-2)
		return m, nil

	case noticeExpiredMsg:
		m.notice.expire(msg.seq)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.log.Warn("export failed", zap.String("path", msg.path), zap.Error(msg.err))
			return m, m.notice.show("Export failed: "+userMessage(msg.err), true)
		}
		m.log.Info("export finished", zap.String("path", msg.path))
		return m, m.notice.show("Exported "+msg.path, false)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		case ModeInput:
			return m.handleInputKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}

	if m.mode == ModeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.cfg.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "i", "a", "enter":
		m.mode = ModeInput
		m.input.SetValue("")
		return m, m.input.Focus()
	case "d", "x", "delete", "backspace":
		if err := m.session.RemoveSelected(); err != nil {
			return m, m.notice.show(userMessage(err), true)
		}
		return m, nil
	case "s":
		if err := m.session.Codec.Save(); err != nil {
			m.log.Error("save failed", zap.Error(err))
			return m, m.notice.show(userMessage(err), true)
		}
		return m, m.notice.show("Map saved!", false)
	case "C":
		if m.cfg.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmClear
			return m, nil
		}
		return m.clear()
	case "t":
		m.theme = m.theme.toggled()
		return m, nil
	case "+", "=", "-", "0":
		m.handleZoom(key)
		return m, nil
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key, m.getMoveSpeed(key))
		return m, nil
	case "p":
		return m, m.export(FormatPNG)
	case "P":
		return m, m.export(FormatPDF)
	case "?":
		m.mode = ModeHelp
		return m, nil
	case "esc":
		m.session.Selection.Clear()
		return m, nil
	}
	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		_, err := m.session.AddIdea(m.input.Value())
		if err != nil {
			cmd := m.notice.show(userMessage(err), true)
			if errors.Is(err, ErrEmptyText) {
				return m, cmd
			}
			m.input.SetValue("")
			return m, cmd
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = ModeNormal
		return m, nil
	case "ctrl+v":
		text, err := readClipboardText()
		if err != nil {
			return m, m.notice.show("Clipboard unavailable", true)
		}
		m.input.SetValue(m.input.Value() + clipboardLabel(text))
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmClear:
			return m.clear()
		}
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m model) clear() (tea.Model, tea.Cmd) {
	if err := m.session.Clear(); err != nil {
		m.log.Error("clear failed", zap.Error(err))
		return m, m.notice.show(userMessage(err), true)
	}
	return m, m.notice.show("Map cleared", false)
}

// handleMouse feeds left-button events to the drag controller. Presses are
// hit-tested against nodes; once a node holds the capture, every motion and
// the release go to it wherever the pointer is. Releases are delivered in
// every mode so a modal opened mid-drag cannot leave the capture behind.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sx, sy := msg.X, msg.Y-canvasTop
	wx, wy := m.session.Canvas.ToWorld(sx, sy)
	drag := m.session.Drag

	if msg.Type == tea.MouseRelease {
		drag.PointerUp(wx, wy)
		return m, nil
	}
	if m.mode != ModeNormal {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseLeft:
		if drag.Captured() != "" {
			drag.PointerMove(wx, wy)
			return m, nil
		}
		if n := m.session.Canvas.NodeAt(sx, sy); n != nil {
			drag.PointerDown(n.ID, PointerMouse, wx, wy)
		}
	case tea.MouseMotion:
		drag.PointerMove(wx, wy)
	}
	return m, nil
}

// export snapshots the canvas now and rasterizes it off the event loop.
func (m model) export(kind ExportFormat) tea.Cmd {
	path, err := m.cfg.GetSavePath(kind.filename())
	if err != nil {
		return func() tea.Msg { return exportDoneMsg{path: kind.filename(), err: err} }
	}
	snap := m.session.Canvas.Capture(m.theme)
	return exportTask(snap, kind, path)
}

func exportTask(snap Snapshot, kind ExportFormat, path string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if kind == FormatPDF {
			err = ExportPDF(snap, path)
		} else {
			err = ExportPNG(snap, path)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (m model) View() string {
	if m.mode == ModeHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.theme.Modal.Render(helpText))
	}

	var b strings.Builder
	b.WriteString(m.titleBar())
	b.WriteString("\n")
	b.WriteString(m.session.Canvas.Render(m.session.Selection.Selected(), m.theme))
	b.WriteString("\n")
	b.WriteString(m.noticeLine())
	b.WriteString("\n")
	b.WriteString(m.promptLine())
	return b.String()
}

func (m model) titleBar() string {
	reg, conns := m.session.Registry, m.session.Connectors
	status := fmt.Sprintf("  %d ideas  %d links  zoom %d%%  [?] help",
		reg.Len(), conns.Len(), m.session.Canvas.Zoom())
	return m.theme.Title.Render("mindboard") + m.theme.Status.Render(status)
}

func (m model) noticeLine() string {
	if !m.notice.visible() {
		if id := m.session.Selection.Selected(); id != "" {
			if n := m.session.Registry.Node(id); n != nil {
				return m.theme.Status.Render(fmt.Sprintf("selected %q: click another idea to link, d to delete", n.Text))
			}
		}
		return ""
	}
	if m.notice.isError {
		return m.theme.Error.Render(m.notice.text)
	}
	return m.theme.Success.Render(m.notice.text)
}

func (m model) promptLine() string {
	switch m.mode {
	case ModeInput:
		return m.input.View()
	case ModeConfirm:
		if m.confirmAction == ConfirmClear {
			return "Clear the whole map? (y/n)"
		}
		return "Quit mindboard? (y/n)"
	}
	return m.theme.Status.Render("i add  s save  C clear  p png  P pdf  t theme  +/- zoom  q quit")
}

const helpText = `mindboard help

Ideas
  i / enter     add an idea (the first one is the central idea)
  ctrl+v        paste into the idea input
  click         select an idea; click another to link them
  drag          move an idea
  d / x         delete the selected idea (not the central one)
  esc           clear the selection

View
  h j k l       pan (shift for faster)
  + / - / 0     zoom in / out / reset
  t             toggle light and dark theme

Map
  s             save
  C             clear the map and the saved copy
  p / P         export PNG / PDF

Press any key to close.`
