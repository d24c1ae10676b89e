// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/fogleman/gg"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/image/font/basicfont"
)

var (
	litColor   = color.NRGBA{0x9c, 0xc8, 0x3c, 0xff}
	unlitColor = color.NRGBA{0x3a, 0x48, 0x22, 0xff}
	bezelColor = color.NRGBA{0x20, 0x20, 0x20, 0xff}
	inkColor   = color.NRGBA{0x10, 0x20, 0x10, 0xff}
)

// glyph maps a character code to what is drawn for it. The HD44780 A00 ROM
// matches ASCII for printable characters except 0x5C (yen) and 0x7E/0x7F
// (arrows); anything else is drawn as a placeholder.
func glyph(c byte) byte {
	if c < 0x20 || c > 0x7d || c == 0x5c {
		return '?'
	}
	return c
}

// NewTerminal returns a writer for f that keeps ANSI color codes when f is
// a terminal, translating them on Windows consoles, and strips them
// otherwise.
func NewTerminal(f *os.File) io.Writer {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return colorable.NewColorable(f)
	}
	return colorable.NewNonColorable(f)
}

// Render draws the panel to w: a frame in the backlight color around the
// visible characters. A nil palette uses ansi256.Default.
func (s *Dev) Render(w io.Writer, palette *ansi256.Palette) error {
	if palette == nil {
		palette = ansi256.Default
	}
	s.mu.Lock()
	rows := s.lines()
	on, lit := s.displayOn, bool(s.bl)
	cr, cc, cursorVisible := s.cursorCell()
	cursorVisible = cursorVisible && (s.cursor || s.blink)
	s.mu.Unlock()

	frame := unlitColor
	if lit {
		frame = litColor
	}
	edge := palette.Block(frame)
	var buf bytes.Buffer
	border := func() {
		for i := 0; i < s.cols+2; i++ {
			_, _ = buf.WriteString(edge)
		}
		_, _ = buf.WriteString("\033[0m\n")
	}
	border()
	for r, text := range rows {
		_, _ = buf.WriteString(edge)
		_, _ = buf.WriteString("\033[0m")
		for c := 0; c < len(text); c++ {
			ch := byte(' ')
			if on {
				ch = glyph(text[c])
			}
			if on && cursorVisible && r == cr && c == cc {
				// Reverse video marks the cursor cell.
				_, _ = buf.WriteString("\033[7m")
				_ = buf.WriteByte(ch)
				_, _ = buf.WriteString("\033[27m")
				continue
			}
			_ = buf.WriteByte(ch)
		}
		_, _ = buf.WriteString(edge)
		_, _ = buf.WriteString("\033[0m\n")
	}
	border()
	_, err := buf.WriteTo(w)
	return err
}

const (
	cellW  = 9
	cellH  = 16
	margin = 12
)

// Image draws the panel with one 7x13 glyph per character cell.
func (s *Dev) Image() image.Image {
	return s.draw().Image()
}

// SavePNG writes Image to path.
func (s *Dev) SavePNG(path string) error {
	return s.draw().SavePNG(path)
}

func (s *Dev) draw() *gg.Context {
	s.mu.Lock()
	rows := s.lines()
	on, lit := s.displayOn, bool(s.bl)
	cr, cc, cursorVisible := s.cursorCell()
	cursorVisible = cursorVisible && on && (s.cursor || s.blink)
	block := s.blink
	s.mu.Unlock()

	w := 2*margin + s.cols*cellW
	h := 2*margin + s.rows*cellH
	dc := gg.NewContext(w, h)
	dc.SetColor(bezelColor)
	dc.Clear()
	back := unlitColor
	if lit {
		back = litColor
	}
	dc.SetColor(back)
	dc.DrawRoundedRectangle(margin/2, margin/2, float64(w-margin), float64(h-margin), 4)
	dc.Fill()
	if !on {
		return dc
	}

	face := basicfont.Face7x13
	dc.SetFontFace(face)
	dc.SetColor(inkColor)
	for r, text := range rows {
		for c := 0; c < len(text); c++ {
			x := float64(margin + c*cellW + 1)
			y := float64(margin + r*cellH + face.Ascent + 1)
			dc.DrawString(string(glyph(text[c])), x, y)
		}
	}
	if cursorVisible {
		x := float64(margin + cc*cellW)
		y := float64(margin + cr*cellH)
		if block {
			dc.DrawRectangle(x, y, cellW-1, cellH-1)
		} else {
			dc.DrawRectangle(x, y+cellH-3, cellW-1, 2)
		}
		dc.Fill()
	}
	return dc
}
