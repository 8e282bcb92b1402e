// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import "testing"

// TestCatchOverflow tests the overflow clamping function.
func TestCatchOverflow(t *testing.T) {
	tests := []struct {
		input    uint16
		expected uint8
	}{
		{0, 0},
		{128, 128},
		{255, 255},
		{256, 255}, // Overflow case
		{300, 255}, // Overflow case
	}

	for _, tt := range tests {
		result := CatchOverflow(tt.input)
		if result != tt.expected {
			t.Errorf("CatchOverflow(%d) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

// TestAlphaRunsReset verifies a fresh buffer describes a single empty run
// spanning the whole width.
func TestAlphaRunsReset(t *testing.T) {
	ar := NewAlphaRuns(10)
	if !ar.IsEmpty() {
		t.Fatal("freshly reset AlphaRuns should be empty")
	}
	if ar.runs[0] != 10 {
		t.Errorf("runs[0] = %d, want 10", ar.runs[0])
	}
	if ar.alpha[0] != 0 {
		t.Errorf("alpha[0] = %d, want 0", ar.alpha[0])
	}
}

// TestAlphaRunsAddFullCoverage adds a full-width, fully-covered run and
// checks the resulting alpha value is no longer empty.
func TestAlphaRunsAddFullCoverage(t *testing.T) {
	ar := NewAlphaRuns(10)
	ar.Add(0, 0, 10, 0, 255, 0)
	if ar.IsEmpty() {
		t.Fatal("AlphaRuns should not be empty after a full-coverage add")
	}
	if ar.alpha[0] != 255 {
		t.Errorf("alpha[0] = %d, want 255", ar.alpha[0])
	}
	if ar.runs[0] != 10 {
		t.Errorf("runs[0] = %d, want 10", ar.runs[0])
	}
}

// TestAlphaRunsAddPartialSpan verifies breakRun splits the run table so a
// narrower span doesn't bleed alpha into neighboring pixels.
func TestAlphaRunsAddPartialSpan(t *testing.T) {
	ar := NewAlphaRuns(10)
	ar.Add(2, 0, 4, 0, 255, 0)

	if ar.alpha[2] != 255 {
		t.Errorf("alpha[2] = %d, want 255", ar.alpha[2])
	}
	if ar.alpha[0] != 0 {
		t.Errorf("alpha[0] = %d, want 0 (untouched leading pixels)", ar.alpha[0])
	}
}

// TestAlphaRunsAddAccumulates checks that overlapping adds accumulate
// coverage instead of overwriting it, up to the CatchOverflow clamp.
func TestAlphaRunsAddAccumulates(t *testing.T) {
	ar := NewAlphaRuns(4)
	ar.Add(0, 0, 4, 0, 100, 0)
	ar.Add(0, 0, 4, 0, 200, 0)

	if ar.alpha[0] != 255 {
		t.Errorf("alpha[0] = %d, want 255 after overflowing accumulation", ar.alpha[0])
	}
}
