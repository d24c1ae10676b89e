// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build tinygo

package lcdpins

import (
	"machine"

	"github.com/GermanBionicSystems/charlcd/delay"
)

// Machine drives the bus from microcontroller pins when built with TinyGo.
type Machine struct {
	data  [4]machine.Pin
	rs    machine.Pin
	e     machine.Pin
	delay delay.Delayer
	hold  uint
}

// NewMachine returns a Machine bus. d4..d7 are the data lines in ascending
// order.
func NewMachine(d4, d5, d6, d7, rs, e machine.Pin, opts *Opts) *Machine {
	if opts == nil {
		opts = &DefaultOpts
	}
	dl := opts.Delay
	if dl == nil {
		dl = delay.Default
	}
	return &Machine{
		data:  [4]machine.Pin{d4, d5, d6, d7},
		rs:    rs,
		e:     e,
		delay: dl,
		hold:  opts.HoldCycles,
	}
}

// ConfigureOutputs implements Bus.
func (m *Machine) ConfigureOutputs() {
	for _, p := range append(m.data[:], m.rs, m.e) {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
}

// SetDataNibble implements Bus.
func (m *Machine) SetDataNibble(v byte) {
	for i, p := range m.data {
		p.Set(v&(1<<i) != 0)
	}
}

// SetRegisterSelect implements Bus.
func (m *Machine) SetRegisterSelect(data bool) {
	m.rs.Set(data)
}

// PulseEnable implements Bus.
func (m *Machine) PulseEnable() {
	m.e.Low()
	m.delay.Cycles(m.hold)
	m.e.High()
	m.delay.Cycles(m.hold)
	m.e.Low()
	m.delay.Cycles(m.hold)
}

var _ Bus = &Machine{}
