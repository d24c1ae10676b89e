// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsim emulates an HD44780 character LCD controller behind periph.io
// GPIO lines.
//
// Hand its lines to lcdpins.New and drive it with hd44780 to run the full
// stack without hardware: the emulator latches D4..D7 and RS on the falling
// edge of E, decodes the 4-bit protocol from power-on 8-bit mode, and keeps
// DDRAM, the address counter and the display flags the way the controller
// does. It then renders the panel to a terminal or an image.
//
// Useful while you are waiting for your LCD to come by mail.
package lcdsim

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// State is the controller's progress through initialization.
type State int

const (
	// Uninitialized is the power-on state: 8-bit interface, display off.
	Uninitialized State = iota
	// FourBitPending is after the 4-bit switch, before a 4-bit function set.
	FourBitPending
	// Configured is after the function set, display still off.
	Configured
	// Ready is after the display was turned on.
	Ready
	// ReadyEntrySet is after the entry mode was set on a ready display.
	ReadyEntrySet
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case FourBitPending:
		return "FourBitPending"
	case Configured:
		return "Configured"
	case Ready:
		return "Ready"
	case ReadyEntrySet:
		return "ReadyEntrySet"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Instruction is one byte the controller executed.
type Instruction struct {
	Data  bool
	Value byte
}

func (i Instruction) String() string {
	if i.Data {
		return fmt.Sprintf("data(%#02x)", i.Value)
	}
	return fmt.Sprintf("cmd(%#02x)", i.Value)
}

var errNoEdges = errors.New("lcdsim: edge detection not supported")

const (
	ddramSize = 0x80
	blank     = ' '
)

// Dev is an emulated controller and the lines wired to it.
type Dev struct {
	// Data is D4..D7, in that order.
	Data gpio.Group
	// RS, E and RW are the control lines. BL switches the emulated
	// backlight.
	RS gpio.PinOut
	E  gpio.PinOut
	RW gpio.PinOut
	BL gpio.PinOut

	mu   sync.Mutex
	rows int
	cols int

	// Line levels.
	d  byte
	rs gpio.Level
	e  gpio.Level
	rw gpio.Level
	bl gpio.Level

	fourBit bool
	pending bool
	high    byte

	state     State
	twoLine   bool
	bigFont   bool
	displayOn bool
	cursor    bool
	blink     bool
	increment bool
	shift     bool
	ac        byte
	offset    int
	ddram     [ddramSize]byte
	log       []Instruction
}

// New returns a controller in its power-on state behind a rows x cols
// panel. The backlight starts on.
func New(rows, cols int) *Dev {
	s := &Dev{rows: rows, cols: cols, increment: true, bl: gpio.High}
	for i := range s.ddram {
		s.ddram[i] = blank
	}
	g := &dataLines{dev: s}
	for i := range g.pins {
		i := i
		g.pins[i] = &line{dev: s, name: fmt.Sprintf("LCD_D%d", 4+i), number: 4 + i, set: func(l gpio.Level) {
			if l {
				s.d |= 1 << i
			} else {
				s.d &^= 1 << i
			}
		}}
	}
	s.Data = g
	s.RS = &line{dev: s, name: "LCD_RS", number: 0, set: func(l gpio.Level) { s.rs = l }}
	s.RW = &line{dev: s, name: "LCD_RW", number: 1, set: func(l gpio.Level) { s.rw = l }}
	s.E = &line{dev: s, name: "LCD_E", number: 2, set: s.setEnable}
	s.BL = &line{dev: s, name: "LCD_BL", number: 3, set: func(l gpio.Level) { s.bl = l }}
	return s
}

// State returns the initialization state.
func (s *Dev) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FourBit reports whether the controller is in 4-bit interface mode.
func (s *Dev) FourBit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fourBit
}

// TwoLine reports whether the function set selected 2 display lines.
func (s *Dev) TwoLine() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.twoLine
}

// DisplayOn reports whether the display is on.
func (s *Dev) DisplayOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayOn
}

// CursorMode returns the cursor and blink flags.
func (s *Dev) CursorMode() (cursor, blink bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.blink
}

// EntryMode returns the entry mode flags.
func (s *Dev) EntryMode() (increment, shift bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.increment, s.shift
}

// Address returns the DDRAM address counter.
func (s *Dev) Address() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ac
}

// Backlight reports whether the backlight line is high.
func (s *Dev) Backlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bool(s.bl)
}

// Instructions returns every byte executed since power-on. Nibbles sent in
// 8-bit mode show up as the instruction they form, e.g. 0x30.
func (s *Dev) Instructions() []Instruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Instruction(nil), s.log...)
}

// Lines returns the characters visible on each row, taking the display shift
// into account. It ignores whether the display is on.
func (s *Dev) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines()
}

func (s *Dev) lines() []string {
	lineLen := 80
	if s.twoLine {
		lineLen = 40
	}
	out := make([]string, s.rows)
	var buf bytes.Buffer
	for r := 0; r < s.rows; r++ {
		buf.Reset()
		line, start := 0, r*s.cols
		if s.twoLine {
			line, start = r%2, (r/2)*s.cols
		}
		for c := 0; c < s.cols; c++ {
			pos := mod(start+c+s.offset, lineLen)
			buf.WriteByte(s.ddram[line*0x40+pos])
		}
		out[r] = buf.String()
	}
	return out
}

// cursorCell returns the (row, col) showing the address counter, if it's
// visible.
func (s *Dev) cursorCell() (int, int, bool) {
	lineLen := 80
	line, pos := 0, int(s.ac)
	if s.twoLine {
		lineLen = 40
		line, pos = int(s.ac)/0x40, int(s.ac)%0x40
	}
	for r := 0; r < s.rows; r++ {
		l, start := 0, r*s.cols
		if s.twoLine {
			l, start = r%2, (r/2)*s.cols
		}
		if l != line {
			continue
		}
		c := mod(pos-s.offset-start, lineLen)
		if c < s.cols {
			return r, c, true
		}
	}
	return 0, 0, false
}

func (s *Dev) String() string {
	return fmt.Sprintf("lcdsim{%dx%d}", s.rows, s.cols)
}

// setEnable latches the bus on the falling edge of E.
func (s *Dev) setEnable(l gpio.Level) {
	falling := s.e == gpio.High && l == gpio.Low
	s.e = l
	if !falling || s.rw == gpio.High {
		return
	}
	nibble := s.d & 0x0f
	if !s.fourBit {
		// D0..D3 aren't wired in 4-bit mode and read as 0.
		s.execute(bool(s.rs), nibble<<4)
		return
	}
	if !s.pending {
		s.high = nibble
		s.pending = true
		return
	}
	s.pending = false
	s.execute(bool(s.rs), s.high<<4|nibble)
}

func (s *Dev) execute(data bool, v byte) {
	s.log = append(s.log, Instruction{Data: data, Value: v})
	if data {
		s.ddram[s.ac&(ddramSize-1)] = v
		s.step(s.increment)
		if s.shift {
			s.shiftDisplay(!s.increment)
		}
		return
	}
	switch {
	case v&0x80 != 0:
		s.ac = v & 0x7f
	case v&0x40 != 0:
		// CGRAM address; custom characters aren't emulated.
	case v&0x20 != 0:
		s.functionSet(v&0x10 != 0, v&0x08 != 0, v&0x04 != 0)
	case v&0x10 != 0:
		if v&0x08 != 0 {
			s.shiftDisplay(v&0x04 != 0)
		} else {
			s.step(v&0x04 != 0)
		}
	case v&0x08 != 0:
		s.displayOn, s.cursor, s.blink = v&0x04 != 0, v&0x02 != 0, v&0x01 != 0
		if s.displayOn && s.state == Configured {
			s.state = Ready
		}
	case v&0x04 != 0:
		s.increment, s.shift = v&0x02 != 0, v&0x01 != 0
		if s.state == Ready {
			s.state = ReadyEntrySet
		}
	case v&0x02 != 0:
		s.ac, s.offset = 0, 0
	case v&0x01 != 0:
		for i := range s.ddram {
			s.ddram[i] = blank
		}
		s.ac, s.offset, s.increment = 0, 0, true
	}
}

func (s *Dev) functionSet(eightBit, twoLine, bigFont bool) {
	switch {
	case eightBit:
		s.fourBit, s.pending = false, false
		s.state = Uninitialized
	case !s.fourBit:
		// The switch itself: N and F are not latched since D0..D3 are
		// floating.
		s.fourBit, s.pending = true, false
		s.state = FourBitPending
	default:
		s.twoLine, s.bigFont = twoLine, bigFont
		if s.state == FourBitPending {
			s.state = Configured
		}
	}
}

// step moves the address counter, skipping the gap between the two lines.
func (s *Dev) step(up bool) {
	if up {
		s.ac++
	} else {
		s.ac--
	}
	if s.twoLine {
		switch s.ac {
		case 0x28:
			s.ac = 0x40
		case 0x68:
			s.ac = 0x00
		case 0x3f:
			s.ac = 0x27
		case 0xff:
			s.ac = 0x67
		}
		return
	}
	switch s.ac {
	case 0x50:
		s.ac = 0
	case 0xff:
		s.ac = 0x4f
	}
}

// shiftDisplay moves the visible window. Shifting the display right shows
// lower addresses.
func (s *Dev) shiftDisplay(right bool) {
	if right {
		s.offset--
	} else {
		s.offset++
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// line is one emulated wire. Writes go straight into the controller.
type line struct {
	dev    *Dev
	name   string
	number int
	set    func(gpio.Level)
}

func (l *line) String() string   { return l.name }
func (l *line) Halt() error      { return nil }
func (l *line) Name() string     { return l.name }
func (l *line) Number() int      { return l.number }
func (l *line) Function() string { return "Out" }

func (l *line) Out(level gpio.Level) error {
	l.dev.mu.Lock()
	defer l.dev.mu.Unlock()
	l.set(level)
	return nil
}

func (l *line) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("lcdsim: %s: PWM not supported", l.name)
}

// dataLines is D4..D7 as a gpio.Group.
type dataLines struct {
	dev  *Dev
	pins [4]*line
}

func (g *dataLines) Pins() []pin.Pin {
	out := make([]pin.Pin, len(g.pins))
	for i, p := range g.pins {
		out[i] = p
	}
	return out
}

func (g *dataLines) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(g.pins) {
		return nil
	}
	return g.pins[offset]
}

func (g *dataLines) ByName(name string) pin.Pin {
	for _, p := range g.pins {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (g *dataLines) ByNumber(number int) pin.Pin {
	for _, p := range g.pins {
		if p.number == number {
			return p
		}
	}
	return nil
}

// Out sets the lines selected by mask in one step. A zero mask selects all.
func (g *dataLines) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = 0x0f
	}
	g.dev.mu.Lock()
	defer g.dev.mu.Unlock()
	m := byte(mask & 0x0f)
	g.dev.d = g.dev.d&^m | byte(value)&m
	return nil
}

func (g *dataLines) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if mask == 0 {
		mask = 0x0f
	}
	g.dev.mu.Lock()
	defer g.dev.mu.Unlock()
	return gpio.GPIOValue(g.dev.d) & mask, nil
}

func (g *dataLines) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, errNoEdges
}

func (g *dataLines) Halt() error {
	return nil
}

func (g *dataLines) String() string {
	return "lcdsim[D4 D5 D6 D7]"
}

var _ gpio.PinOut = &line{}
var _ gpio.Group = &dataLines{}
