package mosaic

import (
	"path/filepath"
	"testing"

	"github.com/ryandrake08/aeronav/catalog"
)

func testCatalog() *catalog.Catalog {
	src := `{
	  "datasets": {
	    "hi": {"zip_file": "hi", "max_lod": 12},
	    "mid": {"zip_file": "mid", "max_lod": 8},
	    "lo": {"zip_file": "lo", "max_lod": 4}
	  },
	  "tilesets": {
	    "t": {"tile_path": "t", "zoom": [0, 12], "datasets": ["hi", "mid", "lo"]}
	  }
	}`
	c, err := catalog.LoadFromBytes([]byte(src))
	if err != nil {
		panic(err)
	}
	return c
}

func TestQualifyingFilesOrderingAndFiltering(t *testing.T) {
	cat := testCatalog()
	ts, _ := cat.Tileset("t")

	existing := map[string]bool{
		filepath.Join("/tmp", "_hi.tif"):  true,
		filepath.Join("/tmp", "_mid.tif"): true,
		filepath.Join("/tmp", "_lo.tif"):  true,
	}
	exists := func(p string) bool { return existing[p] }

	files, err := qualifyingFiles(cat, ts, 6, "/tmp", exists)
	if err != nil {
		t.Fatal(err)
	}
	// zoom=6: lo (max_lod=4) is excluded; hi, mid qualify, ordered
	// max_lod descending (hi=12 first, mid=8 last -> renders on top).
	want := []string{filepath.Join("/tmp", "_hi.tif"), filepath.Join("/tmp", "_mid.tif")}
	if len(files) != 2 || files[0] != want[0] || files[1] != want[1] {
		t.Errorf("got %v, want %v", files, want)
	}
}

func TestQualifyingFilesSkipsMissingRasters(t *testing.T) {
	cat := testCatalog()
	ts, _ := cat.Tileset("t")
	exists := func(p string) bool { return false }

	_, err := qualifyingFiles(cat, ts, 1, "/tmp", exists)
	if err != ErrNoQualifyingDatasets {
		t.Errorf("expected ErrNoQualifyingDatasets, got %v", err)
	}
}

func TestQualifyingFilesZoomAboveAllMaxLOD(t *testing.T) {
	cat := testCatalog()
	ts, _ := cat.Tileset("t")
	exists := func(p string) bool { return true }

	_, err := qualifyingFiles(cat, ts, 20, "/tmp", exists)
	if err != ErrNoQualifyingDatasets {
		t.Errorf("expected ErrNoQualifyingDatasets above every dataset's max_lod, got %v", err)
	}
}
