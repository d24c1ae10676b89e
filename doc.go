// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package charlcd is a container for the HD44780 character LCD driver and
// its buses.
//
// hd44780 speaks the controller protocol, lcdpins carries it over GPIO lines
// or an I/O expander backpack, delay paces the transfers and lcdsim emulates
// a panel for tests and demos.
package charlcd
