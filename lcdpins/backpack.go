// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdpins

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/mcp23xxx"
	"periph.io/x/devices/v3/nxp74hc595"
	"periph.io/x/devices/v3/pcf857x"
)

const (
	// GPIO numbers (not physical pins) of the MCP23008 on the Adafruit
	// I2C/SPI backpack. The 74HC595 on its SPI side uses the same numbers.
	afD4        = 3
	afD5        = 4
	afD6        = 5
	afD7        = 6
	afRS        = 1
	afE         = 2
	afBacklight = 7

	// GPIO numbers of the PCF8574 on the common LCD1602/LCD2004 backpacks.
	pcfD4        = 4
	pcfD5        = 5
	pcfD6        = 6
	pcfD7        = 7
	pcfRS        = 0
	pcfRW        = 1
	pcfE         = 2
	pcfBacklight = 3
)

// NewPCF857x returns a Dev for the PCF8574 I²C backpacks sold with LCD1602 and
// LCD2004 modules.
//
// # Product Information
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// R/W is wired on these backpacks, so it's driven low along with the other
// lines. Only the Delay and HoldCycles fields of opts are used.
func NewPCF857x(bus i2c.Bus, address uint16, opts *Opts) (*Dev, error) {
	pcf, err := pcf857x.New(bus, address, pcf857x.PCF8574)
	if err != nil {
		return nil, fmt.Errorf("lcdpins: %w", err)
	}
	gr, err := pcf.Group(pcfD4, pcfD5, pcfD6, pcfD7, pcfRS, pcfE, pcfBacklight)
	if err != nil {
		return nil, fmt.Errorf("lcdpins: %w", err)
	}
	pins := gr.Pins()
	o := backpackOpts(opts)
	o.RW = pcf.Pins[pcfRW]
	o.Backlight = pins[6].(gpio.PinOut)
	return New(gr, pins[4].(gpio.PinOut), pins[5].(gpio.PinOut), &o)
}

// NewAdafruitI2C returns a Dev for the I²C side of the Adafruit I2C/SPI LCD
// backpack, which uses an MCP23008 I/O expander.
//
// # Product Information
//
// https://www.adafruit.com/product/292
func NewAdafruitI2C(bus i2c.Bus, address uint16, opts *Opts) (*Dev, error) {
	mcp, err := mcp23xxx.NewI2C(bus, mcp23xxx.MCP23008, address)
	if err != nil {
		return nil, fmt.Errorf("lcdpins: %w", err)
	}
	grp := mcp.Group(0, []int{afD4, afD5, afD6, afD7, afRS, afE, afBacklight})
	if grp == nil {
		return nil, errors.New("lcdpins: MCP23008 pin group unavailable")
	}
	gr := *grp
	rs, _ := gr.ByOffset(4).(gpio.PinOut)
	e, _ := gr.ByOffset(5).(gpio.PinOut)
	o := backpackOpts(opts)
	o.Backlight, _ = gr.ByOffset(6).(gpio.PinOut)
	return New(gr, rs, e, &o)
}

// NewAdafruitSPI returns a Dev for the SPI side of the Adafruit I2C/SPI LCD
// backpack, a 74HC595 serial to parallel shift register.
func NewAdafruitSPI(c spi.Conn, opts *Opts) (*Dev, error) {
	chip, err := nxp74hc595.New(c)
	if err != nil {
		return nil, fmt.Errorf("lcdpins: %w", err)
	}
	// The data lines are wired in reverse order on this side.
	gr, err := chip.Group(afD7, afD6, afD5, afD4)
	if err != nil {
		return nil, fmt.Errorf("lcdpins: %w", err)
	}
	o := backpackOpts(opts)
	o.Backlight = chip.Pins[afBacklight]
	return New(gr, chip.Pins[afRS], chip.Pins[afE], &o)
}

func backpackOpts(opts *Opts) Opts {
	if opts == nil {
		opts = &DefaultOpts
	}
	return Opts{HoldCycles: opts.HoldCycles, Delay: opts.Delay}
}
