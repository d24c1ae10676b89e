// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/charlcd/hd44780"
	"github.com/GermanBionicSystems/charlcd/lcdpins"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/pcf857x"
	"periph.io/x/host/v3"
)

func pinOut(name string) gpio.PinOut {
	p := gpioreg.ByName(name)
	if p == nil {
		log.Fatalf("no pin %s", name)
	}
	return p
}

// This example drives a display wired directly to the host's GPIO header:
// D4..D7 on GPIO27, GPIO22, GPIO23 and GPIO24, RS on GPIO17, E on GPIO18.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	data := lcdpins.Lines(pinOut("GPIO27"), pinOut("GPIO22"), pinOut("GPIO23"), pinOut("GPIO24"))
	bus, err := lcdpins.New(data, pinOut("GPIO17"), pinOut("GPIO18"), nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd, err := hd44780.New(bus, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd.Init()
	lcd.ClearScreen()
	lcd.PrintString("Connor...")
	lcd.SetCursorPosition(1, 6)
	lcd.PrintString("Wake up!!!")
	if err := bus.Err(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(lcd)
}

// Text exposes the controller as a display.TextDisplay.
func ExampleNewText() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	data := lcdpins.Lines(pinOut("GPIO27"), pinOut("GPIO22"), pinOut("GPIO23"), pinOut("GPIO24"))
	bus, err := lcdpins.New(data, pinOut("GPIO17"), pinOut("GPIO18"), nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd, err := hd44780.New(bus, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd.Init()
	text := hd44780.NewText(lcd, hd44780.NewBacklight(pinOut("GPIO25")))
	defer func() { _ = text.Halt() }()

	_ = text.Clear()
	_, _ = text.WriteString("Line 1")
	_ = text.MoveTo(2, 2)
	_, _ = text.WriteString("Line 2")
	time.Sleep(5 * time.Second)

	for _, e := range displaytest.TestTextDisplay(text, true) {
		if !errors.Is(e, display.ErrNotImplemented) {
			log.Println(e)
		}
	}
}

// A 20x4 display behind a PCF8574 I²C backpack.
func ExampleNew_pcf857x() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()
	bus, err := lcdpins.NewPCF857x(b, pcf857x.DefaultAddress, nil)
	if err != nil {
		log.Fatal(err)
	}
	opts := hd44780.DefaultOpts
	opts.Rows, opts.Cols = 4, 20
	opts.Cursor = false
	lcd, err := hd44780.New(bus, nil, &opts)
	if err != nil {
		log.Fatal(err)
	}
	lcd.Init()
	bl := hd44780.NewBacklight(bus.Backlight())
	for range 5 {
		_ = bl.Backlight(0)
		time.Sleep(500 * time.Millisecond)
		_ = bl.Backlight(255)
		time.Sleep(500 * time.Millisecond)
	}
	lcd.ClearScreen()
	lcd.PrintString("Hello")
	if err := bus.Err(); err != nil {
		log.Fatal(err)
	}
}

// A 16x2 display behind the Adafruit I²C/SPI backpack, in SPI mode.
func ExampleNew_adafruitSPI() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	c, err := p.Connect(physic.MegaHertz, spi.Mode1, 8)
	if err != nil {
		log.Fatal(err)
	}
	bus, err := lcdpins.NewAdafruitSPI(c, nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd, err := hd44780.New(bus, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	lcd.Init()
	lcd.ClearScreen()
	lcd.PrintString("Hello")
}
