package webmerc

import "testing"

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestEquatorialResolution(t *testing.T) {
	// z=0: whole world (2*OriginShift) in 256 pixels.
	got := EquatorialResolution(0)
	want := 2 * OriginShift / 256
	if !almostEqual(got, want, 1e-6) {
		t.Errorf("EquatorialResolution(0) = %v, want %v", got, want)
	}
}

func TestLatitudeAdjustedResolutionScenarioA(t *testing.T) {
	// From the spec's boundary scenario A: max_lod=11, center lat ~47.6N.
	// 76.437 / cos(47.6°) = 76.437 / 0.6743 ≈ 113.36.
	got := LatitudeAdjustedResolution(11, 47.6)
	if !almostEqual(got, 113.36, 0.05) {
		t.Errorf("LatitudeAdjustedResolution(11, 47.6) = %v, want ~113.36", got)
	}
}

func TestTileExtentOrigin(t *testing.T) {
	minX, minY, maxX, maxY := TileExtent(0, 0, 0)
	if !almostEqual(minX, -OriginShift, 1e-3) || !almostEqual(minY, -OriginShift, 1e-3) {
		t.Errorf("tile(0,0,0) min corner = (%v,%v), want (-OriginShift,-OriginShift)", minX, minY)
	}
	if !almostEqual(maxX, OriginShift, 1e-3) || !almostEqual(maxY, OriginShift, 1e-3) {
		t.Errorf("tile(0,0,0) max corner = (%v,%v), want (OriginShift,OriginShift)", maxX, maxY)
	}
}

func TestTileExtentXYZvsTMS(t *testing.T) {
	// At z=1, xyz (0,0) is the NW quadrant: top-left of the map.
	_, _, _, maxY := TileExtent(1, 0, 0)
	if !almostEqual(maxY, OriginShift, 1e-3) {
		t.Errorf("xyz (0,0) at z=1 should touch the north edge, maxY=%v", maxY)
	}
}

func TestMetersLonLatRoundTrip(t *testing.T) {
	lon, lat := -122.5, 47.6
	mx, my := LonLatToMeters(lon, lat)
	lon2, lat2 := MetersToLonLat(mx, my)
	if !almostEqual(lon, lon2, 1e-6) || !almostEqual(lat, lat2, 1e-6) {
		t.Errorf("round trip (%v,%v) -> (%v,%v)", lon, lat, lon2, lat2)
	}
}

func TestTileAtBounds(t *testing.T) {
	x, y := TileAt(-180, 85, 4)
	if x != 0 || y != 0 {
		t.Errorf("TileAt(-180,85,4) = (%d,%d), want (0,0)", x, y)
	}
	x, y = TileAt(179.999, -85, 4)
	if x != 15 || y != 15 {
		t.Errorf("TileAt(179.999,-85,4) = (%d,%d), want (15,15)", x, y)
	}
}

func TestTileAtClampsOutOfRangeLatitude(t *testing.T) {
	x, y := TileAt(0, 89, 3)
	if y < 0 || y >= 8 {
		t.Errorf("TileAt clamp failed: y=%d out of [0,8)", y)
	}
	_ = x
}
