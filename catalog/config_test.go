package catalog

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `{
  "datasets": {
    "sec_seattle": {
      "zip_file": "sec_seattle",
      "mask": [[[1000,500],[7000,500],[7000,5500],[1000,5500]]],
      "geobound": [null, 47.0, null, null],
      "gcps": [[100,200,-122.5,47.6],[7900,200,-121.0,47.6],[4000,5900,-121.7,46.0]],
      "max_lod": 11
    },
    "sec_bare": {
      "zip_file": "sec_bare",
      "input_file": "custom.tif",
      "max_lod": 9
    }
  },
  "tilesets": {
    "sectionals": {
      "tile_path": "sec",
      "zoom": [5, 11],
      "datasets": ["sec_seattle", "sec_bare"]
    }
  }
}`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "aeronav.conf.json")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDatasetDefaults(t *testing.T) {
	c, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}

	d, ok := c.Dataset("sec_bare")
	if !ok {
		t.Fatal("sec_bare not found")
	}
	if d.InputFile != "custom.tif" {
		t.Errorf("InputFile = %q, want custom.tif", d.InputFile)
	}
	if d.TmpFile != "_sec_bare.tif" {
		t.Errorf("TmpFile = %q, want _sec_bare.tif", d.TmpFile)
	}

	d2, ok := c.Dataset("sec_seattle")
	if !ok {
		t.Fatal("sec_seattle not found")
	}
	if d2.InputFile != "sec_seattle.tif" {
		t.Errorf("default InputFile = %q, want sec_seattle.tif", d2.InputFile)
	}
}

func TestLoadMaskAndGeoBoundsAndGCPs(t *testing.T) {
	c, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	d, _ := c.Dataset("sec_seattle")

	if d.Mask == nil || len(d.Mask.Rings) != 1 {
		t.Fatalf("expected one mask ring, got %v", d.Mask)
	}
	if len(d.Mask.Outer().Vertices) != 4 {
		t.Fatalf("expected 4 outer vertices, got %d", len(d.Mask.Outer().Vertices))
	}

	if d.GeoBounds == nil {
		t.Fatal("expected geobounds")
	}
	if !math.IsNaN(d.GeoBounds.LonMin) {
		t.Errorf("LonMin should be NaN (null), got %v", d.GeoBounds.LonMin)
	}
	if d.GeoBounds.LatMin != 47.0 {
		t.Errorf("LatMin = %v, want 47.0", d.GeoBounds.LatMin)
	}
	if !d.GeoBounds.HasAnyBound() {
		t.Error("HasAnyBound should be true")
	}

	if len(d.GCPs) != 3 {
		t.Fatalf("expected 3 gcps, got %d", len(d.GCPs))
	}
	if d.GCPs[0].PixelX != 100 || d.GCPs[0].Lon != -122.5 {
		t.Errorf("unexpected first gcp: %+v", d.GCPs[0])
	}
}

func TestLoadTilesetLookupByNameOrPath(t *testing.T) {
	c, err := Load(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Tileset("sectionals"); !ok {
		t.Error("lookup by name failed")
	}
	if _, ok := c.Tileset("sec"); !ok {
		t.Error("lookup by tile_path failed")
	}
	if _, ok := c.Tileset("nonexistent"); ok {
		t.Error("expected lookup miss")
	}
}

func TestLoadMissingTopLevelKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	os.WriteFile(path, []byte(`{"datasets":{}}`), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing tilesets key")
	}
}

func TestMaskOuterArea(t *testing.T) {
	m := &Mask{Rings: []Ring{{Vertices: []Vertex{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}}}}
	if got := m.OuterArea(); got != 100 {
		t.Errorf("OuterArea = %v, want 100", got)
	}
}

func TestMaskOuterAreaZero(t *testing.T) {
	m := &Mask{Rings: []Ring{{Vertices: []Vertex{{X: 1, Y: 1}, {X: 2, Y: 2}}}}}
	if got := m.OuterArea(); got != 0 {
		t.Errorf("OuterArea = %v, want 0 for degenerate ring", got)
	}
}
