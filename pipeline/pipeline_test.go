package pipeline

import (
	"testing"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
)

func TestClampWindow(t *testing.T) {
	x0, y0, w, h := clampWindow(-10, -5, 120, 90, 100, 80)
	if x0 != 0 || y0 != 0 || w != 100 || h != 80 {
		t.Errorf("clampWindow out-of-bounds = (%d,%d,%d,%d), want (0,0,100,80)", x0, y0, w, h)
	}

	x0, y0, w, h = clampWindow(1000, 500, 7000, 5500, 8000, 6000)
	if x0 != 1000 || y0 != 500 || w != 6000 || h != 5000 {
		t.Errorf("clampWindow in-bounds = (%d,%d,%d,%d), want (1000,500,6000,5000)", x0, y0, w, h)
	}
}

func TestClampWindowDisjointYieldsEmpty(t *testing.T) {
	_, _, w, h := clampWindow(9000, 9000, 9500, 9500, 100, 100)
	if w > 0 && h > 0 {
		t.Errorf("expected empty window for disjoint bbox, got w=%d h=%d", w, h)
	}
}

func TestShiftGeoTransform(t *testing.T) {
	gt := rasterio.GeoTransform{0, 2, 0, 0, 0, -2}
	shifted := shiftGeoTransform(gt, 10, 5)
	x, y := shifted.Apply(0, 0)
	if x != 20 || y != -10 {
		t.Errorf("shifted origin = (%v,%v), want (20,-10)", x, y)
	}
	if shifted[1] != gt[1] || shifted[5] != gt[5] {
		t.Error("shiftGeoTransform must not alter pixel size coefficients")
	}
}

func TestRingFromVertices(t *testing.T) {
	vs := []catalog.Vertex{{X: 1000, Y: 500}, {X: 7000, Y: 500}, {X: 7000, Y: 5500}}
	r := ringFromVertices(vs, 1000, 500)
	if r.X[0] != 0 || r.Y[0] != 0 {
		t.Errorf("first vertex = (%v,%v), want (0,0)", r.X[0], r.Y[0])
	}
	if r.X[1] != 6000 || r.Y[2] != 5000 {
		t.Errorf("unexpected shifted vertices: %+v", r)
	}
}

func TestSortByWorkDescending(t *testing.T) {
	small := &catalog.Dataset{Name: "small", Mask: &catalog.Mask{Rings: []catalog.Ring{{
		Vertices: []catalog.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	}}}}
	big := &catalog.Dataset{Name: "big", Mask: &catalog.Mask{Rings: []catalog.Ring{{
		Vertices: []catalog.Vertex{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
	}}}}
	bare := &catalog.Dataset{Name: "bare"}

	datasets := []*catalog.Dataset{small, bare, big}
	SortByWorkDescending(datasets)

	if datasets[0].Name != "big" {
		t.Errorf("first dataset = %s, want big", datasets[0].Name)
	}
	if datasets[len(datasets)-1].Name != "small" && datasets[len(datasets)-1].Name != "bare" {
		t.Errorf("last dataset should be one of the zero/near-zero estimates, got %s", datasets[len(datasets)-1].Name)
	}
}

func TestErrorKindUnwrap(t *testing.T) {
	cause := &myErr{"boom"}
	err := newErr(InsufficientGCPs, "ds1", "gcp-affine", cause)
	if err.Kind != InsufficientGCPs {
		t.Errorf("Kind = %v, want InsufficientGCPs", err.Kind)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the wrapped cause")
	}
}

type myErr struct{ msg string }

func (e *myErr) Error() string { return e.msg }
