// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 drives Hitachi HD44780 and Sitronix ST7066 character LCD
// controllers over a write-only 4-bit parallel bus.
//
// Every byte is sent as two nibbles, high nibble first, each latched by an
// enable pulse. The busy flag is never read, so each instruction is followed
// by a fixed wait covering its execution time.
//
// # Preconditions
//
// Init must be called exactly once per controller power cycle, before any
// other operation. Cursor positions must be within the display geometry.
// None of this is checked unless Opts.Strict is set.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// The 4-bit initialization sequence is figure 24, page 46.
package hd44780

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/charlcd/delay"
	"github.com/GermanBionicSystems/charlcd/lcdpins"
	"periph.io/x/conn/v3"
)

// Mode tells the controller how to interpret a byte.
type Mode bool

const (
	// Command bytes are instructions.
	Command Mode = false
	// Data bytes are characters written at the current DDRAM address.
	Data Mode = true
)

func (m Mode) String() string {
	if m == Data {
		return "Data"
	}
	return "Command"
}

// InitStyle selects the power-on sequence.
type InitStyle int

const (
	// InitDatasheet follows figure 24 of the datasheet: three 8-bit reset
	// nibbles, the 4-bit switch, then function set, display control and
	// entry mode.
	InitDatasheet InitStyle = iota
	// InitAbbreviated sends a single function set nibble before the full
	// instructions. It works on some modules but is not guaranteed to
	// recover a controller left mid-byte.
	//
	// It is not a byte for byte match of the common MSP430 sequence, which
	// sends function set and display on back to back and only waits after
	// display on and entry mode. Here each of the three instructions is
	// followed by 10ms; the extra wait is harmless.
	//
	// Deprecated: use InitDatasheet.
	InitAbbreviated
)

func (s InitStyle) String() string {
	switch s {
	case InitDatasheet:
		return "datasheet"
	case InitAbbreviated:
		return "abbreviated"
	}
	return fmt.Sprintf("InitStyle(%d)", int(s))
}

// Opts holds the display geometry, the settings sent during Init and the
// timing.
type Opts struct {
	// Rows and Cols is the display geometry. It only drives address
	// computation and Strict checks.
	Rows int
	Cols int
	// LargeFont selects 5x10 dots. Only 1-line displays support it.
	LargeFont bool
	// Cursor shows the underline cursor, Blink blinks the character cell.
	Cursor bool
	Blink  bool
	// RightToLeft decrements the address counter after each character.
	RightToLeft bool
	// Shift moves the whole display with every character written.
	Shift bool

	Style InitStyle
	// PowerOnDelay is the wait, in milliseconds, before the first nibble.
	// The controller needs 40ms after Vcc rises; MCUs often boot faster than
	// the LCD powers up.
	PowerOnDelay uint
	// ResetAttempts is how many times the 8-bit reset nibble is sent. At
	// least 3.
	ResetAttempts int
	// ExecCycles is the wait after each instruction or character, in cycles
	// of the Delayer. Most instructions take 37µs.
	ExecCycles uint
	// ClearDelay is the wait after clear and return home, in milliseconds.
	// Both take 1.52ms.
	ClearDelay uint

	// Strict panics on precondition violations: Init called twice, any
	// operation before Init, cursor position out of range.
	Strict bool
}

// DefaultOpts is a 16x2 display with an underline cursor, left to right
// entry, timed for the 1MHz reference clock.
var DefaultOpts = Opts{
	Rows:          2,
	Cols:          16,
	Cursor:        true,
	Style:         InitDatasheet,
	PowerOnDelay:  80,
	ResetAttempts: 3,
	ExecCycles:    50,
	ClearDelay:    2,
}

// Validate returns an error if the options can't describe an HD44780 panel.
func (o *Opts) Validate() error {
	if o.Rows < 1 || o.Rows > 4 {
		return fmt.Errorf("hd44780: %d rows not in [1, 4]", o.Rows)
	}
	if o.Cols < 1 || o.Cols > 40 {
		return fmt.Errorf("hd44780: %d columns not in [1, 40]", o.Cols)
	}
	if o.Rows*o.Cols > 80 {
		return fmt.Errorf("hd44780: %dx%d exceeds the 80 character DDRAM", o.Rows, o.Cols)
	}
	if o.LargeFont && o.Rows > 1 {
		return errors.New("hd44780: the 5x10 font needs a 1 line display")
	}
	switch o.Style {
	case InitDatasheet:
		if o.ResetAttempts < 3 {
			return fmt.Errorf("hd44780: %d reset attempts, need at least 3", o.ResetAttempts)
		}
	case InitAbbreviated:
	default:
		return fmt.Errorf("hd44780: unknown %s", o.Style)
	}
	return nil
}

// Dev is an HD44780 controller on a 4-bit bus.
//
// Dev has no state of its own beyond its configuration: the controller's
// address counter and display flags are never mirrored. It is not safe for
// concurrent use, and must not be used from an interrupt handler or a
// goroutine racing with the main loop since interleaved line writes corrupt
// the transfer.
type Dev struct {
	bus   lcdpins.Bus
	delay delay.Delayer
	opts  Opts
	ready bool
}

// New returns a Dev on bus. dl paces the initialization and execution waits;
// delay.Default is used when it's nil. The controller is not touched until
// Init.
func New(bus lcdpins.Bus, dl delay.Delayer, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, errors.New("hd44780: nil bus")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if dl == nil {
		dl = delay.Default
	}
	return &Dev{bus: bus, delay: dl, opts: *opts}, nil
}

// Init runs the controller's power-on reset sequence and turns the display
// on. It doesn't clear DDRAM; call ClearScreen for a blank display.
//
// Init is not idempotent. A second call replays the reset nibbles, which the
// datasheet leaves undefined on a configured controller. Call it once per
// power cycle.
func (d *Dev) Init() {
	if d.opts.Strict && d.ready {
		panic("hd44780: Init called twice")
	}
	d.bus.ConfigureOutputs()
	if d.opts.Style == InitAbbreviated {
		d.initAbbreviated()
	} else {
		d.initDatasheet()
	}
	d.ready = true
}

func (d *Dev) initDatasheet() {
	d.delay.Milliseconds(d.opts.PowerOnDelay)
	d.bus.SetRegisterSelect(bool(Command))
	// The controller may be in 8-bit mode, or in 4-bit mode waiting for a
	// low nibble. Three 8-bit function sets bring either back to 8-bit.
	for i := 0; i < d.opts.ResetAttempts; i++ {
		d.sendNibble(nibbleReset8Bit)
		d.delay.Milliseconds(5)
	}
	d.sendNibble(nibbleSet4Bit)
	d.delay.Milliseconds(1)
	for _, cmd := range d.setup() {
		d.sendByte(cmd, Command)
		d.delay.Milliseconds(1)
	}
}

func (d *Dev) initAbbreviated() {
	d.delay.Milliseconds(100)
	d.bus.SetRegisterSelect(bool(Command))
	d.sendNibble(functionSet >> 4)
	d.delay.Milliseconds(20)
	for _, cmd := range d.setup() {
		d.sendByte(cmd, Command)
		d.delay.Milliseconds(10)
	}
}

// setup returns function set, display control and entry mode.
func (d *Dev) setup() [3]byte {
	return [3]byte{
		FunctionSet(d.opts.Rows > 1, d.opts.LargeFont),
		DisplayControl(true, d.opts.Cursor, d.opts.Blink),
		EntryMode(!d.opts.RightToLeft, d.opts.Shift),
	}
}

// SendCommand sends op as an instruction.
func (d *Dev) SendCommand(op byte) {
	d.check()
	d.sendByte(op, Command)
	if op == CmdClear || op&^0x01 == CmdHome {
		d.delay.Milliseconds(d.opts.ClearDelay)
		return
	}
	d.delay.Cycles(d.opts.ExecCycles)
}

// PrintChar writes ch at the current DDRAM address. The controller then
// moves the address as set by the entry mode.
func (d *Dev) PrintChar(ch byte) {
	d.check()
	d.sendByte(ch, Data)
	d.delay.Cycles(d.opts.ExecCycles)
}

// Print writes each byte of text up to the first zero byte. nil and empty
// text write nothing.
func (d *Dev) Print(text []byte) {
	for _, c := range text {
		if c == 0 {
			return
		}
		d.PrintChar(c)
	}
}

// PrintString is Print for a string.
func (d *Dev) PrintString(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == 0 {
			return
		}
		d.PrintChar(text[i])
	}
}

// SetCursorPosition moves the address counter to zero based (row, col).
// Row 0 is the first line, every other row the second line, as on 2-line
// controllers.
func (d *Dev) SetCursorPosition(row, col uint8) {
	if d.opts.Strict && (int(row) >= d.opts.Rows || int(col) >= d.opts.Cols) {
		panic(fmt.Sprintf("hd44780: cursor (%d, %d) outside %dx%d display", row, col, d.opts.Rows, d.opts.Cols))
	}
	d.SendCommand(CmdSetDDRAM | rowBase(row) | col)
}

// ClearScreen blanks the display and returns the cursor home. Clear already
// homes the cursor; the explicit return home covers controllers where it
// doesn't.
func (d *Dev) ClearScreen() {
	d.SendCommand(CmdClear)
	d.SendCommand(CmdHome)
}

// Home returns the cursor to address 0 and undoes any display shift.
func (d *Dev) Home() {
	d.SendCommand(CmdHome)
}

// SetDDRAMAddress moves the address counter to addr (0 <= addr < 128).
func (d *Dev) SetDDRAMAddress(addr byte) {
	d.SendCommand(CmdSetDDRAM | addr&0x7f)
}

// SetDisplayControl turns the display, the cursor and blinking on or off.
func (d *Dev) SetDisplayControl(on, cursor, blink bool) {
	d.SendCommand(DisplayControl(on, cursor, blink))
}

// SetEntryMode sets the address direction and display shift applied after
// each character.
func (d *Dev) SetEntryMode(increment, shift bool) {
	d.SendCommand(EntryMode(increment, shift))
}

// Shift moves the cursor, or the whole display when display is true, one
// position left or right without writing.
func (d *Dev) Shift(display, right bool) {
	d.SendCommand(CursorShift(display, right))
}

// Halt halts the bus if it is a conn.Resource. The controller keeps
// displaying its contents.
func (d *Dev) Halt() error {
	if r, ok := d.bus.(conn.Resource); ok {
		return r.Halt()
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("HD44780{%v} - Rows: %d, Cols: %d", d.bus, d.opts.Rows, d.opts.Cols)
}

func (d *Dev) check() {
	if d.opts.Strict && !d.ready {
		panic("hd44780: used before Init")
	}
}

// sendByte sets RS for mode and sends value high nibble first, the order
// the controller latches in 4-bit mode.
func (d *Dev) sendByte(value byte, mode Mode) {
	d.bus.SetRegisterSelect(bool(mode))
	d.sendNibble(value >> 4)
	d.sendNibble(value & 0x0f)
}

func (d *Dev) sendNibble(n byte) {
	d.bus.SetDataNibble(n)
	d.bus.PulseEnable()
}

var _ conn.Resource = &Dev{}
