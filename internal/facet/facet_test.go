package facet

import "testing"

func strp(s string) *string { return &s }

func TestRoute_CountsPreserved(t *testing.T) {
	r := NewRouter(2, 2)
	chunk := Chunk{Rows: []Row{
		{Col: 0, RowIdx: 0, XS: 1, YS: 1, Color: strp("#FF0000")},
		{Col: 1, RowIdx: 0, XS: 2, YS: 2},
		{Col: 0, RowIdx: 1, XS: 3, YS: 3},
		{Col: 5, RowIdx: 0, XS: 4, YS: 4}, // out of range col
		{Col: 0, RowIdx: 5, XS: 5, YS: 5}, // out of range row
	}}
	buckets, stats := r.Route(chunk)
	if stats.Routed+stats.Discarded != len(chunk.Rows) {
		t.Fatalf("routed+discarded=%d, want %d", stats.Routed+stats.Discarded, len(chunk.Rows))
	}
	if stats.Discarded != 2 {
		t.Fatalf("discarded=%d, want 2", stats.Discarded)
	}
	if len(buckets) != 4 {
		t.Fatalf("len(buckets)=%d, want 4", len(buckets))
	}
	b00 := buckets[PanelIndex(0, 0, 2)]
	if len(b00) != 1 || *b00[0].Color != "#FF0000" {
		t.Fatalf("bucket(0,0)=%+v, want one red tuple", b00)
	}
}

func TestRoute_PreservesArrivalOrder(t *testing.T) {
	r := NewRouter(1, 1)
	chunk := Chunk{Rows: []Row{
		{Col: 0, RowIdx: 0, XS: 1},
		{Col: 0, RowIdx: 0, XS: 2},
		{Col: 0, RowIdx: 0, XS: 3},
	}}
	buckets, _ := r.Route(chunk)
	b := buckets[0]
	for i, want := range []uint16{1, 2, 3} {
		if b[i].XS != want {
			t.Fatalf("bucket[%d].XS=%d, want %d", i, b[i].XS, want)
		}
	}
}

func TestRoute_EmptyChunk(t *testing.T) {
	r := NewRouter(3, 3)
	buckets, stats := r.Route(Chunk{})
	if stats.Routed != 0 || stats.Discarded != 0 {
		t.Fatalf("stats=%+v, want zero", stats)
	}
	if len(buckets) != 9 {
		t.Fatalf("len(buckets)=%d, want 9", len(buckets))
	}
}
