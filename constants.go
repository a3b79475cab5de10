package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeInput
	ModeConfirm
	ModeHelp
)

type ConfirmAction int

const (
	ConfirmClear ConfirmAction = iota
	ConfirmQuit
)

type ExportFormat int

const (
	FormatPNG ExportFormat = iota
	FormatPDF
)

func (k ExportFormat) filename() string {
	if k == FormatPDF {
		return "mind-map.pdf"
	}
	return "mind-map.png"
}

const (
	maxLabelLength = 60
	canvasTop      = 1 // title row above the canvas
	chromeRows     = 3 // title, notice/status and input rows
)
