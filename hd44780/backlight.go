// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// GPIOBacklight switches a backlight with a single GPIO line, e.g. the
// transistor on most LCD backpacks. Any non-zero intensity turns it on.
type GPIOBacklight struct {
	pin gpio.PinOut
}

// NewBacklight returns a GPIOBacklight on pin.
func NewBacklight(pin gpio.PinOut) *GPIOBacklight {
	return &GPIOBacklight{pin: pin}
}

// Backlight implements display.DisplayBacklight.
func (bl *GPIOBacklight) Backlight(intensity display.Intensity) error {
	return bl.pin.Out(gpio.Level(intensity > 0))
}

var _ display.DisplayBacklight = &GPIOBacklight{}
