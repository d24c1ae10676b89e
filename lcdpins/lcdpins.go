// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdpins

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/charlcd/delay"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Bus is the set of line operations the 4-bit protocol is built on. Calls
// have a hardware side effect and report nothing back.
type Bus interface {
	// ConfigureOutputs makes the data, RS and E lines outputs and drives
	// them low.
	ConfigureOutputs()
	// SetDataNibble drives D4..D7 to the low four bits of v. The upper bits
	// are ignored.
	SetDataNibble(v byte)
	// SetRegisterSelect drives RS high for character data, low for
	// instructions.
	SetRegisterSelect(data bool)
	// PulseEnable drives E low, high, then low again. The controller samples
	// the data and RS lines on this pulse.
	PulseEnable()
}

const nibbleMask gpio.GPIOValue = 0x0f

var (
	// ErrDataLines is returned when the data group has fewer than four
	// lines.
	ErrDataLines = errors.New("lcdpins: data group needs at least 4 lines (D4..D7)")
	// ErrMissingLine is returned when RS or E is nil.
	ErrMissingLine = errors.New("lcdpins: register select and enable lines are required")
)

// Opts holds the optional lines and the enable timing.
type Opts struct {
	// RW is the read/write line. It's held low. Leave nil if it's tied to
	// ground.
	RW gpio.PinOut
	// Backlight is returned by Dev.Backlight. The bus never drives it.
	Backlight gpio.PinOut
	// HoldCycles is how long each level of the enable pulse is held, in
	// cycles of Delay.
	HoldCycles uint
	// Delay paces the enable pulse. delay.Default is used when nil.
	Delay delay.Delayer
}

// DefaultOpts holds E for 200 cycles of a 1MHz reference clock per level,
// well above the 450ns minimum pulse width.
var DefaultOpts = Opts{HoldCycles: 200}

// Dev drives an HD44780 bus over periph.io GPIO lines.
//
// The first write error is kept and every later write is skipped, so the
// protocol layer doesn't need to check each line change. Use Err to inspect
// it.
type Dev struct {
	data      gpio.Group
	rs        gpio.PinOut
	e         gpio.PinOut
	rw        gpio.PinOut
	backlight gpio.PinOut
	delay     delay.Delayer
	hold      uint
	err       error
}

// New returns a Dev using the first four lines of data as D4..D7, in
// ascending order, and the rs and e lines. The lines are not touched until
// ConfigureOutputs is called.
func New(data gpio.Group, rs, e gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if data == nil || len(data.Pins()) < 4 {
		return nil, ErrDataLines
	}
	if rs == nil || e == nil {
		return nil, ErrMissingLine
	}
	dl := opts.Delay
	if dl == nil {
		dl = delay.Default
	}
	return &Dev{
		data:      data,
		rs:        rs,
		e:         e,
		rw:        opts.RW,
		backlight: opts.Backlight,
		delay:     dl,
		hold:      opts.HoldCycles,
	}, nil
}

// ConfigureOutputs implements Bus.
func (d *Dev) ConfigureOutputs() {
	d.dataOut(0)
	d.out(d.rs, gpio.Low)
	d.out(d.e, gpio.Low)
	if d.rw != nil {
		d.out(d.rw, gpio.Low)
	}
}

// SetDataNibble implements Bus.
func (d *Dev) SetDataNibble(v byte) {
	d.dataOut(v)
}

// SetRegisterSelect implements Bus.
func (d *Dev) SetRegisterSelect(data bool) {
	d.out(d.rs, gpio.Level(data))
}

// PulseEnable implements Bus.
func (d *Dev) PulseEnable() {
	d.out(d.e, gpio.Low)
	d.delay.Cycles(d.hold)
	d.out(d.e, gpio.High)
	d.delay.Cycles(d.hold)
	d.out(d.e, gpio.Low)
	d.delay.Cycles(d.hold)
}

// Err returns the first error a line write returned, if any.
func (d *Dev) Err() error {
	return d.err
}

// Backlight returns the backlight line given in Opts, or nil.
func (d *Dev) Backlight() gpio.PinOut {
	return d.backlight
}

// Halt implements conn.Resource. It drives every line low and returns the
// first error seen since the Dev was created.
func (d *Dev) Halt() error {
	d.ConfigureOutputs()
	return d.err
}

func (d *Dev) String() string {
	return fmt.Sprintf("lcdpins{D4-D7: %s, RS: %s, E: %s}", d.data, d.rs, d.e)
}

func (d *Dev) dataOut(v byte) {
	if d.err != nil {
		return
	}
	if err := d.data.Out(gpio.GPIOValue(v)&nibbleMask, nibbleMask); err != nil {
		d.err = fmt.Errorf("lcdpins: data lines: %w", err)
	}
}

func (d *Dev) out(p gpio.PinOut, l gpio.Level) {
	if d.err != nil {
		return
	}
	if err := p.Out(l); err != nil {
		d.err = fmt.Errorf("lcdpins: %s: %w", p, err)
	}
}

var _ Bus = &Dev{}
var _ conn.Resource = &Dev{}
