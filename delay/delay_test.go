// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package delay

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name    string
		f       physic.Frequency
		wantErr bool
	}{
		{name: "reference", f: ReferenceFrequency},
		{name: "16MHz", f: 16 * physic.MegaHertz},
		{name: "zero", f: 0, wantErr: true},
		{name: "negative", f: -physic.Hertz, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.f)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("New(%s) expected an error", tc.f)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.Frequency() != tc.f {
				t.Errorf("Frequency() = %s, want %s", c.Frequency(), tc.f)
			}
		})
	}
}

func TestCyclesBlocks(t *testing.T) {
	c, err := New(physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	c.Cycles(2000)
	if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
		t.Errorf("Cycles(2000) at 1MHz returned after %s", elapsed)
	}
}

func TestMillisecondsBlocks(t *testing.T) {
	start := time.Now()
	Default.Milliseconds(3)
	if elapsed := time.Since(start); elapsed < 3*time.Millisecond {
		t.Errorf("Milliseconds(3) returned after %s", elapsed)
	}
}

func TestZeroIsImmediate(t *testing.T) {
	start := time.Now()
	Default.Cycles(0)
	Default.Milliseconds(0)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("zero waits took %s", elapsed)
	}
}
