package quant

import "testing"

func TestDequantize_Endpoints(t *testing.T) {
	r := Range{Min: -2, Max: 10}
	if got := Dequantize(0, r); got != r.Min {
		t.Fatalf("q=0: got %v, want %v", got, r.Min)
	}
	if got := Dequantize(65535, r); got != r.Max {
		t.Fatalf("q=65535: got %v, want %v", got, r.Max)
	}
}

func TestDequantize_Monotonic(t *testing.T) {
	r := Range{Min: 1.5, Max: 99.25}
	prev := Dequantize(0, r)
	for q := 1; q <= 65535; q += 37 {
		cur := Dequantize(uint16(q), r)
		if cur < prev {
			t.Fatalf("non-monotonic at q=%d: prev=%v cur=%v", q, prev, cur)
		}
		prev = cur
	}
}

func TestDequantize_Degenerate(t *testing.T) {
	r := Range{Min: 5, Max: 5}
	for _, q := range []uint16{0, 1, 32768, 65535} {
		if got := Dequantize(q, r); got != 5 {
			t.Fatalf("q=%d: got %v, want 5", q, got)
		}
	}
}

func TestRange_Span(t *testing.T) {
	if got := (Range{Min: 0, Max: 10}).Span(); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
	if got := (Range{Min: 5, Max: 5}).Span(); got != 1 {
		t.Fatalf("degenerate span: got %v, want 1", got)
	}
}
