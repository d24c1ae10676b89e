// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// Instruction opcodes. The lower bits of each are flags set by the builder
// functions below.
const (
	CmdClear    byte = 0b00000001
	CmdHome     byte = 0b00000010
	entryMode   byte = 0b00000100
	displayCtl  byte = 0b00001000
	cursorShift byte = 0b00010000
	functionSet byte = 0b00100000
	CmdSetDDRAM byte = 0b10000000

	// Nibbles sent while the controller may still be in 8-bit mode. Each is
	// the high half of a function set instruction.
	nibbleReset8Bit byte = 0x3
	nibbleSet4Bit   byte = 0x2

	// Base DDRAM address of the second display line.
	line2Base byte = 0x40
)

// FunctionSet returns the function set instruction for 4-bit operation.
// twoLines = false means 1 display line. largeFont = true selects 5x10 dots,
// which the controller only honors with 1 line.
func FunctionSet(twoLines, largeFont bool) byte {
	a := functionSet
	if twoLines {
		a |= 0b00001000
	}
	if largeFont {
		a |= 0b00000100
	}
	return a
}

// DisplayControl returns the instruction that turns the whole display,
// the cursor, and cursor blinking on or off.
func DisplayControl(on, cursor, blink bool) byte {
	a := displayCtl
	if on {
		a |= 0b00000100
	}
	if cursor {
		a |= 0b00000010
	}
	if blink {
		a |= 0b00000001
	}
	return a
}

// EntryMode returns the instruction that sets whether the address counter
// increments or decrements after each character, and whether the display
// shifts with it.
func EntryMode(increment, shift bool) byte {
	a := entryMode
	if increment {
		a |= 0b00000010
	}
	if shift {
		a |= 0b00000001
	}
	return a
}

// CursorShift returns the instruction that moves the cursor, or shifts the
// whole display when display is true, by one position.
func CursorShift(display, right bool) byte {
	a := cursorShift
	if display {
		a |= 0b00001000
	}
	if right {
		a |= 0b00000100
	}
	return a
}

// rowBase returns the DDRAM address of column 0 of row. Only two bases
// exist: rows past the first all map to the second line.
func rowBase(row uint8) byte {
	if row == 0 {
		return 0
	}
	return line2Base
}
