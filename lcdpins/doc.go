// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdpins owns the signal lines of a 4-bit parallel HD44780/ST7066
// interface: four data lines (D4..D7), register select (RS), enable (E) and
// optionally read/write (RW), which is held low since the bus is write-only.
//
// The lines can come from any periph.io GPIO source: host pins looked up with
// gpioreg, a gpioioctl LineSet, or an I/O expander such as the PCF8574,
// MCP23008 or 74HC595 found on LCD backpacks.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// Bus timing is on page 49 (enable pulse width PWEH >= 450ns, enable cycle
// tcycE >= 1000ns).
package lcdpins
