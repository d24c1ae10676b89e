// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcddemo alternates two messages on a character LCD while a ticker blinks
// an LED.
//
// The display is either wired to host GPIO lines, behind an I²C or SPI
// backpack, or emulated in the terminal with -sim.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/GermanBionicSystems/charlcd/delay"
	"github.com/GermanBionicSystems/charlcd/hd44780"
	"github.com/GermanBionicSystems/charlcd/lcdpins"
	"github.com/GermanBionicSystems/charlcd/lcdsim"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type config struct {
	sim      bool
	backpack string
	i2cName  string
	spiName  string
	addr     uint
	pins     string
	bl       string
	led      string
	rows     int
	cols     int
	hz       physic.Frequency
	style    string
	strict   bool
	interval time.Duration
	png      string
}

func pinOut(name string) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no pin %q", name)
	}
	return p, nil
}

// openBus returns the bus, the emulated controller when -sim is set, and a
// function releasing what was opened.
func openBus(cfg *config, dl delay.Delayer) (*lcdpins.Dev, *lcdsim.Dev, func(), error) {
	opts := lcdpins.DefaultOpts
	opts.Delay = dl
	none := func() {}
	if cfg.sim {
		sim := lcdsim.New(cfg.rows, cfg.cols)
		opts.RW, opts.Backlight = sim.RW, sim.BL
		bus, err := lcdpins.New(sim.Data, sim.RS, sim.E, &opts)
		return bus, sim, none, err
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, none, err
	}
	switch cfg.backpack {
	case "":
		names := strings.Split(cfg.pins, ",")
		if len(names) != 6 {
			return nil, nil, none, fmt.Errorf("-pins needs D4,D5,D6,D7,RS,E, got %q", cfg.pins)
		}
		pins := make([]gpio.PinOut, len(names))
		for i, n := range names {
			p, err := pinOut(strings.TrimSpace(n))
			if err != nil {
				return nil, nil, none, err
			}
			pins[i] = p
		}
		if cfg.bl != "" {
			p, err := pinOut(cfg.bl)
			if err != nil {
				return nil, nil, none, err
			}
			opts.Backlight = p
		}
		bus, err := lcdpins.New(lcdpins.Lines(pins[:4]...), pins[4], pins[5], &opts)
		return bus, nil, none, err
	case "pcf8574", "adafruit-i2c":
		b, err := i2creg.Open(cfg.i2cName)
		if err != nil {
			return nil, nil, none, err
		}
		var bus *lcdpins.Dev
		if cfg.backpack == "pcf8574" {
			bus, err = lcdpins.NewPCF857x(b, uint16(cfg.addr), &opts)
		} else {
			bus, err = lcdpins.NewAdafruitI2C(b, uint16(cfg.addr), &opts)
		}
		if err != nil {
			_ = b.Close()
			return nil, nil, none, err
		}
		return bus, nil, func() { _ = b.Close() }, nil
	case "adafruit-spi":
		p, err := spireg.Open(cfg.spiName)
		if err != nil {
			return nil, nil, none, err
		}
		c, err := p.Connect(physic.MegaHertz, spi.Mode1, 8)
		if err != nil {
			_ = p.Close()
			return nil, nil, none, err
		}
		bus, err := lcdpins.NewAdafruitSPI(c, &opts)
		if err != nil {
			_ = p.Close()
			return nil, nil, none, err
		}
		return bus, nil, func() { _ = p.Close() }, nil
	}
	return nil, nil, none, fmt.Errorf("unknown backpack %q", cfg.backpack)
}

// tick blinks led, if any, and wakes the main loop every d. It never touches
// the display.
func tick(ctx context.Context, d time.Duration, led gpio.PinOut, wake chan<- struct{}) {
	t := time.NewTicker(d)
	defer t.Stop()
	level := gpio.Low
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if led != nil {
			level = !level
			if err := led.Out(level); err != nil {
				log.Printf("led: %v", err)
			}
		}
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

func wait(ctx context.Context, wake <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return false
	case <-wake:
		return true
	}
}

func mainImpl() error {
	cfg := config{hz: delay.ReferenceFrequency}
	flag.BoolVar(&cfg.sim, "sim", false, "emulate the display in the terminal")
	flag.StringVar(&cfg.backpack, "backpack", "", "pcf8574, adafruit-i2c or adafruit-spi; empty for direct GPIO wiring")
	flag.StringVar(&cfg.i2cName, "i2c", "", "I²C bus to use")
	flag.StringVar(&cfg.spiName, "spi", "", "SPI port to use")
	flag.UintVar(&cfg.addr, "addr", 0x20, "backpack I²C address")
	flag.StringVar(&cfg.pins, "pins", "GPIO27,GPIO22,GPIO23,GPIO24,GPIO17,GPIO18", "D4,D5,D6,D7,RS,E lines for direct wiring")
	flag.StringVar(&cfg.bl, "bl", "", "backlight line for direct wiring")
	flag.StringVar(&cfg.led, "led", "", "LED line toggled on each tick")
	flag.IntVar(&cfg.rows, "rows", 2, "display rows")
	flag.IntVar(&cfg.cols, "cols", 16, "display columns")
	flag.Var(&cfg.hz, "hz", "reference clock for cycle delays")
	flag.StringVar(&cfg.style, "style", "datasheet", "init sequence: datasheet or abbreviated")
	flag.BoolVar(&cfg.strict, "strict", false, "panic on driver misuse")
	flag.DurationVar(&cfg.interval, "interval", time.Second, "time each message is shown")
	flag.StringVar(&cfg.png, "png", "", "with -sim, save the panel to this PNG file on exit")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	dl, err := delay.New(cfg.hz)
	if err != nil {
		return err
	}
	opts := hd44780.DefaultOpts
	opts.Rows, opts.Cols = cfg.rows, cfg.cols
	opts.Strict = cfg.strict
	switch cfg.style {
	case "datasheet":
	case "abbreviated":
		opts.Style = hd44780.InitAbbreviated
	default:
		return fmt.Errorf("unknown -style %q", cfg.style)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	bus, sim, release, err := openBus(&cfg, dl)
	if err != nil {
		return err
	}
	defer release()
	lcd, err := hd44780.New(bus, dl, &opts)
	if err != nil {
		return err
	}
	var led gpio.PinOut
	if cfg.led != "" && !cfg.sim {
		if led, err = pinOut(cfg.led); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	wake := make(chan struct{}, 1)
	go tick(ctx, cfg.interval, led, wake)

	term := lcdsim.NewTerminal(os.Stdout)
	show := func() error {
		if err := bus.Err(); err != nil {
			return err
		}
		if sim == nil {
			return nil
		}
		return sim.Render(term, nil)
	}

	log.Printf("%s", lcd)
	lcd.Init()
	for {
		lcd.ClearScreen()
		lcd.PrintString("Connor...")
		lcd.SetCursorPosition(1, 6)
		if err := show(); err != nil {
			return err
		}
		if !wait(ctx, wake) {
			break
		}
		lcd.PrintString("Wake up!!!")
		if err := show(); err != nil {
			return err
		}
		if !wait(ctx, wake) {
			break
		}
	}

	if sim != nil && cfg.png != "" {
		if err := sim.SavePNG(cfg.png); err != nil {
			return err
		}
	}
	if led != nil {
		_ = led.Out(gpio.Low)
	}
	return lcd.Halt()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "lcddemo: %s.\n", err)
		os.Exit(1)
	}
}
