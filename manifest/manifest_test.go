package manifest

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	p := Pack(12345, 6789)
	x, y := p.Unpack()
	if x != 12345 || y != 6789 {
		t.Errorf("round trip = (%d,%d), want (12345,6789)", x, y)
	}
}

func TestAddTilesForBoundsSimple(t *testing.T) {
	m := &Manifest{ZoomMin: 4, ZoomMax: 4, tiles: make(map[int][]PackedTile)}
	addTilesForBounds(m, 4, -10, -10, 10, 10)
	finalize(m)
	if len(m.Tiles(4)) == 0 {
		t.Fatal("expected at least one tile covering a bbox around the origin")
	}
}

func TestAddTilesForBoundsAntimeridianSplit(t *testing.T) {
	// A bbox crossing the antimeridian (lonMin > lonMax) must be split
	// into two queries and produce tiles at both the far-east and
	// far-west edges of the map, not the tiles in between.
	m := &Manifest{ZoomMin: 2, ZoomMax: 2, tiles: make(map[int][]PackedTile)}
	addTilesForBounds(m, 2, 170, -5, -170, 5)
	finalize(m)

	tiles := m.Tiles(2)
	if len(tiles) == 0 {
		t.Fatal("expected tiles from antimeridian-split bbox")
	}

	n := 1 << 2
	sawEastEdge, sawWestEdge := false, false
	for _, pt := range tiles {
		x, _ := pt.Unpack()
		if x == n-1 {
			sawEastEdge = true
		}
		if x == 0 {
			sawWestEdge = true
		}
	}
	if !sawEastEdge || !sawWestEdge {
		t.Errorf("antimeridian split should touch both x=0 and x=%d, got %v", n-1, tiles)
	}
}

func TestFinalizeSortsAndDedupes(t *testing.T) {
	m := &Manifest{tiles: map[int][]PackedTile{
		3: {Pack(5, 5), Pack(1, 1), Pack(5, 5), Pack(2, 2)},
	}}
	finalize(m)

	tiles := m.Tiles(3)
	want := []PackedTile{Pack(1, 1), Pack(2, 2), Pack(5, 5)}
	if len(tiles) != len(want) {
		t.Fatalf("got %v, want %v", tiles, want)
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Errorf("tiles[%d] = %v, want %v", i, tiles[i], want[i])
		}
	}
}

func TestContainsBinarySearch(t *testing.T) {
	m := &Manifest{tiles: map[int][]PackedTile{
		5: {Pack(1, 1), Pack(3, 3), Pack(3, 4), Pack(9, 0)},
	}}
	finalize(m)

	if !m.Contains(5, 3, 4) {
		t.Error("expected Contains to find (3,4)")
	}
	if m.Contains(5, 3, 5) {
		t.Error("expected Contains to reject an absent tile")
	}
	if m.Contains(6, 1, 1) {
		t.Error("expected Contains to reject a zoom with no entries")
	}
}

func TestCountAndFlatten(t *testing.T) {
	m := &Manifest{ZoomMin: 1, ZoomMax: 2, tiles: map[int][]PackedTile{
		1: {Pack(0, 0), Pack(1, 0)},
		2: {Pack(0, 0)},
	}}
	finalize(m)

	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}
	triples := m.Flatten()
	if len(triples) != 3 {
		t.Fatalf("Flatten() len = %d, want 3", len(triples))
	}
	// zoom-major order: zoom 1's tiles precede zoom 2's.
	if triples[0].Z != 1 || triples[2].Z != 2 {
		t.Errorf("Flatten() not zoom-major: %+v", triples)
	}
}
