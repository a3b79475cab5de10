package main

import (
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// clipboardLabel turns pasted text into a single-line label. Rich text and
// HTML are reduced to their visible text, control characters are dropped
// and whitespace runs collapse to one space.
func clipboardLabel(text string) string {
	switch {
	case isRTF(text):
		text = plainFromRTF(text)
	case isHTML(text):
		text = plainFromHTML(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case r >= 32 && r != 127:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<span"))
}

func plainFromHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

// plainFromRTF keeps literal text and escaped characters, turns \par and
// \tab into whitespace and skips every other control word.
func plainFromRTF(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{', '}', '\r', '\n':
			continue
		case '\\':
		default:
			b.WriteByte(c)
			continue
		}

		if i+1 >= len(s) {
			break
		}
		next := s[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			b.WriteByte(next)
			i++
		case next == '\'' && i+3 < len(s):
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
			}
			i += 3
		case isASCIILetter(next):
			j := i + 1
			for j < len(s) && isASCIILetter(s[j]) {
				j++
			}
			word := s[i+1 : j]
			for j < len(s) && (s[j] == '-' || (s[j] >= '0' && s[j] <= '9')) {
				j++
			}
			if j < len(s) && s[j] == ' ' {
				j++
			}
			if word == "par" || word == "line" || word == "tab" {
				b.WriteByte(' ')
			}
			i = j - 1
		default:
			i++
		}
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
