// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package delay provides the blocking wait primitives used to pace a
// bit-banged bus.
//
// Waits are expressed either in milliseconds or in cycles of a fixed
// reference clock. The reference frequency is configuration: it is never
// measured at runtime, so timing is only as correct as the frequency given to
// New.
package delay

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Delayer blocks the caller for a fixed amount of time. Both waits always
// complete; there is no cancellation.
type Delayer interface {
	// Milliseconds blocks for n milliseconds.
	Milliseconds(n uint)
	// Cycles blocks for n periods of the reference clock.
	Cycles(n uint)
}

// ReferenceFrequency is the clock rate of the microcontroller the driver
// timings were first tuned on.
const ReferenceFrequency = physic.MegaHertz

var errFrequency = errors.New("delay: reference frequency must be positive")

// Clock implements Delayer for a fixed reference clock.
type Clock struct {
	freq   physic.Frequency
	period time.Duration
}

// Default is a Clock running at ReferenceFrequency.
var Default = &Clock{freq: ReferenceFrequency, period: ReferenceFrequency.Period()}

// New returns a Clock running at f.
func New(f physic.Frequency) (*Clock, error) {
	if f <= 0 {
		return nil, errFrequency
	}
	p := f.Period()
	if p <= 0 {
		return nil, fmt.Errorf("delay: %s is too fast to time on this host", f)
	}
	return &Clock{freq: f, period: p}, nil
}

// Frequency returns the reference clock rate.
func (c *Clock) Frequency() physic.Frequency {
	return c.freq
}

// Milliseconds implements Delayer.
//
// Millisecond waits are long enough for the scheduler to honor them, so they
// sleep instead of spinning.
func (c *Clock) Milliseconds(n uint) {
	if n == 0 {
		return
	}
	time.Sleep(time.Duration(n) * time.Millisecond)
}

// Cycles implements Delayer.
//
// time.Sleep cannot resolve sub-microsecond waits, so this spins on the
// monotonic clock.
func (c *Clock) Cycles(n uint) {
	if n == 0 {
		return
	}
	spin(time.Duration(n) * c.period)
}

func (c *Clock) String() string {
	return fmt.Sprintf("Clock{%s}", c.freq)
}

func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

var _ Delayer = &Clock{}
