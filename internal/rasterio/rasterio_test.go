package rasterio

import "testing"

func TestGeoTransformApply(t *testing.T) {
	gt := GeoTransform{100, 2, 0, 200, 0, -2}
	x, y := gt.Apply(10, 10)
	if x != 120 || y != 180 {
		t.Errorf("Apply(10,10) = (%v,%v), want (120,180)", x, y)
	}
}

func TestParseResamplingDefaultsToBilinear(t *testing.T) {
	cases := map[string]Resampling{
		"nearest":     Nearest,
		"bilinear":    Bilinear,
		"cubic":       Cubic,
		"cubicspline": CubicSpline,
		"lanczos":     Lanczos,
		"average":     Average,
		"mode":        Mode,
		"bogus":       Bilinear,
		"":            Bilinear,
	}
	for in, want := range cases {
		if got := ParseResampling(in); got != want {
			t.Errorf("ParseResampling(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestVSIZipPath(t *testing.T) {
	got := VSIZipPath("/data/zips", "sec_seattle", "sec_seattle.tif")
	want := "/vsizip//data/zips/sec_seattle.zip/sec_seattle.tif"
	if got != want {
		t.Errorf("VSIZipPath = %q, want %q", got, want)
	}
}

func TestOpenMissingFile(t *testing.T) {
	Init()
	_, err := Open("/nonexistent/path/does-not-exist.tif")
	if err == nil {
		t.Error("expected error opening a nonexistent file")
	}
}

func TestGCPsToGeoTransformRejectsTooFew(t *testing.T) {
	_, err := GCPsToGeoTransform([]GCP{{PixelX: 0, PixelY: 0, X: 0, Y: 0}})
	if err == nil {
		t.Error("expected insufficient-gcps error with one point")
	}
}
