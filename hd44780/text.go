// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// ErrNotImplemented is returned by Text for operations the controller
// doesn't have.
var ErrNotImplemented = fmt.Errorf("hd44780: %w", display.ErrNotImplemented)

// Text exposes an initialized Dev as a periph.io display.TextDisplay, with
// 1-based positions and error returns.
//
// Unlike Dev, Text keeps a copy of the display control and entry mode
// settings, so that Cursor, Display and AutoScroll can change one flag at a
// time. Errors are the ones the bus recorded, when the bus has an
// Err() error method like lcdpins.Dev.
type Text struct {
	dev       *Dev
	backlight display.DisplayBacklight

	on     bool
	cursor bool
	blink  bool
	scroll bool
}

// NewText wraps dev, which must already be initialized. backlight may be nil
// when the backlight is hard-wired.
func NewText(dev *Dev, backlight display.DisplayBacklight) *Text {
	return &Text{
		dev:       dev,
		backlight: backlight,
		on:        true,
		cursor:    dev.opts.Cursor,
		blink:     dev.opts.Blink,
		scroll:    dev.opts.Shift,
	}
}

// AutoScroll shifts the display with each character written, so the cursor
// stays in place and text scrolls.
func (t *Text) AutoScroll(enabled bool) error {
	t.scroll = enabled
	t.dev.SetEntryMode(!t.dev.opts.RightToLeft, enabled)
	return t.err()
}

// Clear clears the screen and moves the cursor to the first position.
func (t *Text) Clear() error {
	t.dev.ClearScreen()
	return t.err()
}

// Cols returns the number of columns.
func (t *Text) Cols() int {
	return t.dev.opts.Cols
}

// Rows returns the number of rows.
func (t *Text) Rows() int {
	return t.dev.opts.Rows
}

// MinCol returns 1.
func (t *Text) MinCol() int {
	return 1
}

// MinRow returns 1.
func (t *Text) MinRow() int {
	return 1
}

// Cursor sets the cursor mode. CursorOff hides both the underline and the
// blinking block, CursorUnderline and CursorBlink/CursorBlock enable them
// independently.
func (t *Text) Cursor(modes ...display.CursorMode) error {
	cursor, blink := t.cursor, t.blink
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			cursor, blink = false, false
		case display.CursorUnderline:
			cursor = true
		case display.CursorBlink, display.CursorBlock:
			blink = true
		default:
			return fmt.Errorf("hd44780: unexpected cursor: %d", mode)
		}
	}
	t.cursor, t.blink = cursor, blink
	t.dev.SetDisplayControl(t.on, cursor, blink)
	return t.err()
}

// Display turns the display on or off. DDRAM is kept.
func (t *Text) Display(on bool) error {
	t.on = on
	t.dev.SetDisplayControl(on, t.cursor, t.blink)
	return t.err()
}

// Home moves the cursor to (MinRow, MinCol).
func (t *Text) Home() error {
	t.dev.Home()
	return t.err()
}

// Move moves the cursor forward or backward. The controller can't move
// between lines.
func (t *Text) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Forward:
		t.dev.Shift(false, true)
	case display.Backward:
		t.dev.Shift(false, false)
	default:
		return ErrNotImplemented
	}
	return t.err()
}

// MoveTo moves the cursor to the 1-based (row, col).
//
// Rows 3 and 4 of 4-line panels continue lines 1 and 2 in DDRAM.
func (t *Text) MoveTo(row, col int) error {
	if row < t.MinRow() || row > t.Rows() || col < t.MinCol() || col > t.Cols() {
		return fmt.Errorf("hd44780: MoveTo(%d, %d) out of range", row, col)
	}
	bases := [4]int{0x00, 0x40, t.Cols(), 0x40 + t.Cols()}
	t.dev.SetDDRAMAddress(byte(bases[row-1] + col - 1))
	return t.err()
}

// Write writes every byte of p as a character, zero bytes included.
func (t *Text) Write(p []byte) (int, error) {
	for _, c := range p {
		t.dev.PrintChar(c)
	}
	if err := t.err(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString writes text.
func (t *Text) WriteString(text string) (int, error) {
	return t.Write([]byte(text))
}

// Backlight implements display.DisplayBacklight.
func (t *Text) Backlight(intensity display.Intensity) error {
	if t.backlight == nil {
		return ErrNotImplemented
	}
	return t.backlight.Backlight(intensity)
}

// Halt clears the display, turns it and the backlight off, then halts the
// bus.
func (t *Text) Halt() error {
	_ = t.Clear()
	_ = t.Backlight(0)
	_ = t.Display(false)
	return t.dev.Halt()
}

func (t *Text) String() string {
	return t.dev.String()
}

func (t *Text) err() error {
	if e, ok := t.dev.bus.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

var _ display.TextDisplay = &Text{}
var _ display.DisplayBacklight = &Text{}
var _ conn.Resource = &Text{}
