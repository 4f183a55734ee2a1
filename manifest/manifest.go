// Package manifest computes, for a tileset, the exact set of (z,x,y)
// tile coordinates that must be produced: one pass over the tileset's
// already-processed datasets, converting each one's geographic coverage
// into tile coordinates at every zoom it contributes to.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
	"github.com/ryandrake08/aeronav/internal/webmerc"
)

// PackedTile is (x<<16)|y for a fixed zoom, the manifest's in-memory
// tile representation; x and y must fit in 16 bits (zoom <= 15).
type PackedTile uint32

// Pack combines an (x,y) tile coordinate into one PackedTile.
func Pack(x, y int) PackedTile {
	return PackedTile(uint32(x)<<16 | uint32(y))
}

// Unpack splits a PackedTile back into (x,y).
func (p PackedTile) Unpack() (x, y int) {
	return int(p >> 16), int(p & 0xFFFF)
}

// Manifest holds, per zoom level, the sorted and deduplicated set of
// tiles any dataset in the tileset covers at that zoom.
type Manifest struct {
	ZoomMin, ZoomMax int
	tiles            map[int][]PackedTile
}

// Tiles returns the sorted, deduplicated packed-tile slice for zoom z.
func (m *Manifest) Tiles(z int) []PackedTile {
	return m.tiles[z]
}

// Contains reports whether (x,y) is present in the manifest at zoom z,
// via binary search.
func (m *Manifest) Contains(z, x, y int) bool {
	tiles := m.tiles[z]
	target := Pack(x, y)
	i := sort.Search(len(tiles), func(i int) bool { return tiles[i] >= target })
	return i < len(tiles) && tiles[i] == target
}

// Count returns the total number of tiles across every zoom.
func (m *Manifest) Count() int {
	n := 0
	for _, ts := range m.tiles {
		n += len(ts)
	}
	return n
}

// Triple is one (z,x,y) tile coordinate.
type Triple struct{ Z, X, Y int }

// Flatten returns every (z,x,y) triple in the manifest as a single
// ordered vector, zoom-major, used as the tile engine's Phase 1 job
// list.
func (m *Manifest) Flatten() []Triple {
	var out []Triple
	for z := m.ZoomMin; z <= m.ZoomMax; z++ {
		for _, pt := range m.tiles[z] {
			x, y := pt.Unpack()
			out = append(out, Triple{Z: z, X: x, Y: y})
		}
	}
	return out
}

// datasetBounds reads a processed raster's geotransform/size and
// returns its geographic (lon, lat) bounding box.
func datasetBounds(path string) (lonMin, latMin, lonMax, latMax float64, err error) {
	ds, err := rasterio.Open(path)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("manifest-read-failed: %w", err)
	}
	defer ds.Close()

	minX, minY, maxX, maxY := ds.Bounds()
	lonMin, latMin = webmerc.MetersToLonLat(minX, minY)
	lonMax, latMax = webmerc.MetersToLonLat(maxX, maxY)
	return lonMin, latMin, lonMax, latMax, nil
}

// Build computes the manifest for tileset ts, reading each of its
// processed datasets' extents from tmpPath. Datasets whose processed
// raster is not yet present are skipped (they contribute no tiles).
func Build(cat *catalog.Catalog, ts *catalog.Tileset, tmpPath string) (*Manifest, error) {
	m := &Manifest{
		ZoomMin: ts.ZoomMin,
		ZoomMax: ts.ZoomMax,
		tiles:   make(map[int][]PackedTile),
	}

	for _, name := range ts.Datasets {
		d, ok := cat.Dataset(name)
		if !ok {
			continue
		}
		path := filepath.Join(tmpPath, d.TmpFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		lonMin, latMin, lonMax, latMax, err := datasetBounds(path)
		if err != nil {
			return nil, err
		}

		// ds_max_zoom = min(max_lod, tileset.zoom_max); a dataset whose
		// max_lod falls below zoom_min contributes nothing (the range
		// [zoom_min, ds_max_zoom] is empty).
		dsMaxZoom := d.MaxLOD
		if dsMaxZoom > ts.ZoomMax {
			dsMaxZoom = ts.ZoomMax
		}

		for z := ts.ZoomMin; z <= dsMaxZoom; z++ {
			addTilesForBounds(m, z, lonMin, latMin, lonMax, latMax)
		}
	}

	finalize(m)
	return m, nil
}

// addTilesForBounds inserts every (x,y) tile at zoom z that a
// geographic bbox intersects, handling antimeridian crossing (lonMin >
// lonMax) by splitting into two bbox queries, and clamping latitude to
// the Mercator-valid range.
func addTilesForBounds(m *Manifest, z int, lonMin, latMin, lonMax, latMax float64) {
	if latMin < -85 {
		latMin = -85
	}
	if latMax > 85 {
		latMax = 85
	}
	if lonMin < -180 {
		lonMin = -180
	}
	if lonMax > 180 {
		lonMax = 180
	}

	if lonMin > lonMax {
		addTilesForBounds(m, z, lonMin, latMin, 180, latMax)
		addTilesForBounds(m, z, -180, latMin, lonMax, latMax)
		return
	}

	x0, y0 := webmerc.TileAt(lonMin, latMax, z) // NW corner: min x, min y (xyz y grows south)
	x1, y1 := webmerc.TileAt(lonMax, latMin, z) // SE corner: max x, max y

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			m.tiles[z] = append(m.tiles[z], Pack(x, y))
		}
	}
}

// finalize sorts and deduplicates each zoom's packed-tile slice.
func finalize(m *Manifest) {
	for z, tiles := range m.tiles {
		sort.Slice(tiles, func(i, j int) bool { return tiles[i] < tiles[j] })
		deduped := tiles[:0]
		var last PackedTile
		for i, t := range tiles {
			if i == 0 || t != last {
				deduped = append(deduped, t)
				last = t
			}
		}
		m.tiles[z] = deduped
	}
}
