// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdpins

import (
	"errors"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

var errWriteOnly = errors.New("lcdpins: lines are write-only")

// lines is a gpio.Group over discrete output pins. Out writes one pin at a
// time, so a nibble change isn't atomic; that's fine since the controller
// only samples on the enable pulse.
type lines struct {
	pins []gpio.PinOut
}

// Lines returns a gpio.Group made of the given pins, in order. Use it to
// wire pins looked up one by one, e.g. with gpioreg.ByName:
//
//	data := lcdpins.Lines(d4, d5, d6, d7)
func Lines(pins ...gpio.PinOut) gpio.Group {
	return &lines{pins: pins}
}

func (l *lines) Pins() []pin.Pin {
	result := make([]pin.Pin, len(l.pins))
	for ix, p := range l.pins {
		result[ix] = p
	}
	return result
}

func (l *lines) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(l.pins) {
		return nil
	}
	return l.pins[offset]
}

func (l *lines) ByName(name string) pin.Pin {
	for _, p := range l.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func (l *lines) ByNumber(number int) pin.Pin {
	for _, p := range l.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// Out drives the pins selected by mask. A zero mask selects every pin.
func (l *lines) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(l.pins)) - 1
	}
	for ix, p := range l.pins {
		bit := gpio.GPIOValue(1 << ix)
		if mask&bit == 0 {
			continue
		}
		if err := p.Out(gpio.Level(value&bit != 0)); err != nil {
			return err
		}
	}
	return nil
}

func (l *lines) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	return 0, errWriteOnly
}

func (l *lines) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, errWriteOnly
}

func (l *lines) Halt() error {
	var first error
	for _, p := range l.pins {
		if err := p.Halt(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (l *lines) String() string {
	names := make([]string, len(l.pins))
	for ix, p := range l.pins {
		names[ix] = p.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}

var _ gpio.Group = &lines{}
