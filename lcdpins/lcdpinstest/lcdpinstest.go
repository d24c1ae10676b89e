// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdpinstest is meant to be used to test drivers built on
// lcdpins.Bus without hardware.
package lcdpinstest

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/charlcd/delay"
	"github.com/GermanBionicSystems/charlcd/lcdpins"
)

// Kind identifies a recorded call.
type Kind int

const (
	Configure Kind = iota
	Nibble
	RegisterSelect
	Pulse
	Milliseconds
	Cycles
)

func (k Kind) String() string {
	switch k {
	case Configure:
		return "Configure"
	case Nibble:
		return "Nibble"
	case RegisterSelect:
		return "RegisterSelect"
	case Pulse:
		return "Pulse"
	case Milliseconds:
		return "Milliseconds"
	case Cycles:
		return "Cycles"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op is one recorded call. Value is the nibble for Nibble, 1 (data) or 0
// (command) for RegisterSelect, and the wait length for Milliseconds and
// Cycles.
type Op struct {
	Kind  Kind
	Value uint
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%d)", o.Kind, o.Value)
}

// Record implements lcdpins.Bus and delay.Delayer. It records every call
// and never waits, so a driver can be handed the same Record for both.
type Record struct {
	sync.Mutex
	Ops []Op
}

// ConfigureOutputs implements lcdpins.Bus.
func (r *Record) ConfigureOutputs() {
	r.add(Configure, 0)
}

// SetDataNibble implements lcdpins.Bus.
func (r *Record) SetDataNibble(v byte) {
	r.add(Nibble, uint(v&0x0f))
}

// SetRegisterSelect implements lcdpins.Bus.
func (r *Record) SetRegisterSelect(data bool) {
	v := uint(0)
	if data {
		v = 1
	}
	r.add(RegisterSelect, v)
}

// PulseEnable implements lcdpins.Bus.
func (r *Record) PulseEnable() {
	r.add(Pulse, 0)
}

// Milliseconds implements delay.Delayer.
func (r *Record) Milliseconds(n uint) {
	r.add(Milliseconds, n)
}

// Cycles implements delay.Delayer.
func (r *Record) Cycles(n uint) {
	r.add(Cycles, n)
}

// Reset forgets all recorded calls.
func (r *Record) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Ops = nil
}

// Sampled is what the controller latches on one enable pulse.
type Sampled struct {
	Data   bool
	Nibble byte
}

// Pulses replays the record and returns the state of RS and D4..D7 at each
// enable pulse. The lines start low, as after ConfigureOutputs.
func (r *Record) Pulses() []Sampled {
	r.Lock()
	defer r.Unlock()
	var out []Sampled
	var cur Sampled
	for _, op := range r.Ops {
		switch op.Kind {
		case Configure:
			cur = Sampled{}
		case Nibble:
			cur.Nibble = byte(op.Value)
		case RegisterSelect:
			cur.Data = op.Value == 1
		case Pulse:
			out = append(out, cur)
		}
	}
	return out
}

// Transfer is one byte sent as two nibbles.
type Transfer struct {
	Data  bool
	Value byte
}

func (t Transfer) String() string {
	if t.Data {
		return fmt.Sprintf("data(%#02x)", t.Value)
	}
	return fmt.Sprintf("cmd(%#02x)", t.Value)
}

// Bytes pairs pulses high nibble first. It returns an error if the count is
// odd or RS changes within a byte.
func Bytes(pulses []Sampled) ([]Transfer, error) {
	if len(pulses)%2 != 0 {
		return nil, fmt.Errorf("lcdpinstest: %d pulses do not make whole bytes", len(pulses))
	}
	out := make([]Transfer, 0, len(pulses)/2)
	for i := 0; i < len(pulses); i += 2 {
		hi, lo := pulses[i], pulses[i+1]
		if hi.Data != lo.Data {
			return nil, fmt.Errorf("lcdpinstest: register select changed inside byte %d", i/2)
		}
		out = append(out, Transfer{Data: hi.Data, Value: hi.Nibble<<4 | lo.Nibble})
	}
	return out, nil
}

func (r *Record) add(k Kind, v uint) {
	r.Lock()
	defer r.Unlock()
	r.Ops = append(r.Ops, Op{Kind: k, Value: v})
}

var _ lcdpins.Bus = &Record{}
var _ delay.Delayer = &Record{}
