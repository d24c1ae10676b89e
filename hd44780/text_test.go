// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/charlcd/lcdpins/lcdpinstest"
	"github.com/GermanBionicSystems/charlcd/lcdsim"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
)

func newText(t *testing.T, rows, cols int) (*Text, *lcdsim.Dev) {
	t.Helper()
	d, sim, _ := newSimulated(t, rows, cols, nil)
	d.Init()
	d.ClearScreen()
	return NewText(d, NewBacklight(sim.BL)), sim
}

func TestTextInterface(t *testing.T) {
	text, _ := newText(t, 2, 16)
	defer func() { _ = text.Halt() }()
	errs := displaytest.TestTextDisplay(text, false)
	for _, err := range errs {
		if !errors.Is(err, display.ErrNotImplemented) {
			t.Error(err)
		}
	}
}

func TestTextMoveTo(t *testing.T) {
	text, sim := newText(t, 4, 20)
	data := []struct {
		row, col int
		want     byte
	}{
		{1, 1, 0x00},
		{2, 1, 0x40},
		{3, 1, 0x14},
		{4, 5, 0x58},
		{1, 20, 0x13},
	}
	for _, line := range data {
		if err := text.MoveTo(line.row, line.col); err != nil {
			t.Fatal(err)
		}
		if a := sim.Address(); a != line.want {
			t.Errorf("MoveTo(%d, %d) address %#02x, want %#02x", line.row, line.col, a, line.want)
		}
	}

	for _, pos := range [][2]int{{0, 1}, {1, 0}, {5, 1}, {1, 21}} {
		if err := text.MoveTo(pos[0], pos[1]); err == nil {
			t.Errorf("MoveTo(%d, %d) succeeded", pos[0], pos[1])
		}
	}

	if err := text.MoveTo(3, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := text.WriteString("row 3"); err != nil {
		t.Fatal(err)
	}
	if err := text.MoveTo(4, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := text.WriteString("row 4"); err != nil {
		t.Fatal(err)
	}
	got := sim.Lines()
	if got[2][:5] != "row 3" || got[3][:5] != "row 4" {
		t.Errorf("Lines() = %q", got)
	}
}

func TestTextWrite(t *testing.T) {
	text, sim := newText(t, 2, 16)
	n, err := text.Write([]byte{'a', 0, 'b'})
	if err != nil || n != 3 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if got := sim.Lines()[0][:3]; got != "a\x00b" {
		t.Errorf("first line %q", got)
	}
	if n, err := text.WriteString(""); n != 0 || err != nil {
		t.Errorf("WriteString(\"\") = %d, %v", n, err)
	}
}

func TestTextCursorAndDisplay(t *testing.T) {
	text, sim := newText(t, 2, 16)
	check := func(name string, cursor, blink, on bool) {
		t.Helper()
		c, b := sim.CursorMode()
		if c != cursor || b != blink || sim.DisplayOn() != on {
			t.Errorf("%s: cursor %t, blink %t, on %t", name, c, b, sim.DisplayOn())
		}
	}
	if err := text.Cursor(display.CursorOff); err != nil {
		t.Fatal(err)
	}
	check("CursorOff", false, false, true)
	if err := text.Cursor(display.CursorBlink); err != nil {
		t.Fatal(err)
	}
	check("CursorBlink", false, true, true)
	if err := text.Cursor(display.CursorUnderline); err != nil {
		t.Fatal(err)
	}
	check("CursorUnderline", true, true, true)
	if err := text.Display(false); err != nil {
		t.Fatal(err)
	}
	check("Display(false)", true, true, false)
	if err := text.Display(true); err != nil {
		t.Fatal(err)
	}
	check("Display(true)", true, true, true)
}

func TestTextMove(t *testing.T) {
	text, sim := newText(t, 2, 16)
	for _, dir := range []display.CursorDirection{display.Forward, display.Forward, display.Backward} {
		if err := text.Move(dir); err != nil {
			t.Fatal(err)
		}
	}
	if a := sim.Address(); a != 1 {
		t.Errorf("Address() = %d", a)
	}
	for _, dir := range []display.CursorDirection{display.Up, display.Down} {
		if err := text.Move(dir); !errors.Is(err, display.ErrNotImplemented) {
			t.Errorf("Move(%d) = %v", dir, err)
		}
	}
}

func TestTextAutoScroll(t *testing.T) {
	text, sim := newText(t, 2, 16)
	if err := text.AutoScroll(true); err != nil {
		t.Fatal(err)
	}
	if inc, shift := sim.EntryMode(); !inc || !shift {
		t.Errorf("EntryMode() = %t, %t", inc, shift)
	}
	if err := text.AutoScroll(false); err != nil {
		t.Fatal(err)
	}
	if _, shift := sim.EntryMode(); shift {
		t.Error("shift still on")
	}
}

func TestTextBacklight(t *testing.T) {
	text, sim := newText(t, 2, 16)
	if err := text.Backlight(0); err != nil {
		t.Fatal(err)
	}
	if sim.Backlight() {
		t.Error("backlight on after Backlight(0)")
	}
	if err := text.Backlight(0xff); err != nil {
		t.Fatal(err)
	}
	if !sim.Backlight() {
		t.Error("backlight off after Backlight(0xff)")
	}

	rec := &lcdpinstest.Record{}
	d, err := New(rec, rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewText(d, nil).Backlight(0xff); !errors.Is(err, display.ErrNotImplemented) {
		t.Errorf("Backlight() without a backlight = %v", err)
	}
}

func TestTextHalt(t *testing.T) {
	text, sim := newText(t, 2, 16)
	_, _ = text.WriteString("bye")
	if err := text.Halt(); err != nil {
		t.Fatal(err)
	}
	if sim.DisplayOn() || sim.Backlight() {
		t.Errorf("display on %t, backlight %t after Halt", sim.DisplayOn(), sim.Backlight())
	}
	blank := "                "
	if diff := cmp.Diff(sim.Lines(), []string{blank, blank}); diff != "" {
		t.Errorf("Lines() after Halt (-got +want):\n%s", diff)
	}
	if text.Rows() != 2 || text.Cols() != 16 || text.MinRow() != 1 || text.MinCol() != 1 {
		t.Error("geometry")
	}
}
