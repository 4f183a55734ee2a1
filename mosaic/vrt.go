// Package mosaic builds per-tileset, per-zoom virtual mosaics
// referencing the subset of a tileset's processed rasters that qualify
// at that zoom, ordered so lower-max-LOD rasters render on top of
// higher-max-LOD ones.
package mosaic

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
)

// ErrNoQualifyingDatasets is returned by BuildZoomVRT when no dataset in
// the tileset qualifies at the requested zoom (i.e. nothing to build).
var ErrNoQualifyingDatasets = fmt.Errorf("vrt-build-failed: no qualifying datasets")

type sortEntry struct {
	path   string
	maxLOD int
}

// BuildZoomVRT builds the virtual mosaic for tileset ts at zoom, from
// whichever of its datasets have max_lod >= zoom and a processed raster
// present on disk under tmpPath. Returns the VRT path on success, or
// ErrNoQualifyingDatasets if nothing qualifies.
func BuildZoomVRT(cat *catalog.Catalog, ts *catalog.Tileset, zoom int, tmpPath string) (string, error) {
	files, err := qualifyingFiles(cat, ts, zoom, tmpPath, statExists)
	if err != nil {
		return "", err
	}

	vrtPath := filepath.Join(tmpPath, fmt.Sprintf("__%s__z%d.vrt", ts.Name, zoom))
	if err := rasterio.BuildVRT(vrtPath, files); err != nil {
		return "", err
	}
	return vrtPath, nil
}

func statExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// qualifyingFiles selects and orders the processed-raster paths that
// qualify for tileset ts at zoom, pulled out from BuildZoomVRT so the
// selection logic can be tested without touching GDAL.
func qualifyingFiles(cat *catalog.Catalog, ts *catalog.Tileset, zoom int, tmpPath string, exists func(string) bool) ([]string, error) {
	var entries []sortEntry

	for _, name := range ts.Datasets {
		d, ok := cat.Dataset(name)
		if !ok {
			continue
		}
		if d.MaxLOD < zoom {
			continue
		}
		path := filepath.Join(tmpPath, d.TmpFile)
		if !exists(path) {
			continue
		}
		entries = append(entries, sortEntry{path: path, maxLOD: d.MaxLOD})
	}

	if len(entries) == 0 {
		return nil, ErrNoQualifyingDatasets
	}

	// Descending by max_lod: higher-LOD (finer) rasters form the
	// bottom of the stack; lower-LOD rasters are listed last and thus
	// render on top, per the VRT library's top-most-last convention.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].maxLOD > entries[j].maxLOD
	})

	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.path
	}
	return files, nil
}
