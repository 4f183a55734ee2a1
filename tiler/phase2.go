package tiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
)

type coord struct{ x, y int }

// runPhase2Zoom scans the already-written child zoom directory, finds
// every distinct parent tile, and synthesizes it by compositing and
// downsampling its children. Phase 2 never touches a tile Phase 1
// already wrote.
func runPhase2Zoom(ts *catalog.Tileset, z int, opts Options, driverName, ext string) error {
	childZoom := z + 1
	childDir := filepath.Join(opts.OutPath, ts.TilePath, itoa(childZoom))

	parents, err := scanParents(childDir, ext)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, p := range parents {
		if err := generateOverviewTile(p.x, p.y, z, childZoom, ts, opts, driverName, ext); err != nil {
			return err
		}
	}
	return nil
}

// scanParents walks {childDir}/{x}/{y}.{ext} and returns the sorted,
// deduplicated set of parent (x/2, y/2) coordinates. It reads what
// Phase 1 actually wrote to disk rather than re-deriving from the
// manifest, since the two must agree by construction.
func scanParents(childDir, ext string) ([]coord, error) {
	xEntries, err := os.ReadDir(childDir)
	if err != nil {
		return nil, err
	}

	seen := make(map[coord]bool)
	var parents []coord
	suffix := "." + ext

	for _, xe := range xEntries {
		if !xe.IsDir() {
			continue
		}
		cx, err := strconv.Atoi(xe.Name())
		if err != nil {
			continue
		}
		yEntries, err := os.ReadDir(filepath.Join(childDir, xe.Name()))
		if err != nil {
			continue
		}
		for _, ye := range yEntries {
			name := ye.Name()
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			cy, err := strconv.Atoi(strings.TrimSuffix(name, suffix))
			if err != nil {
				continue
			}
			px, py := parentOf(cx, cy)
			c := coord{px, py}
			if !seen[c] {
				seen[c] = true
				parents = append(parents, c)
			}
		}
	}

	sort.Slice(parents, func(i, j int) bool {
		if parents[i].x != parents[j].x {
			return parents[i].x < parents[j].x
		}
		return parents[i].y < parents[j].y
	})
	return parents, nil
}

// generateOverviewTile composites the (up to) four children of (px,py)
// at childZoom into a 2*TileSize square and downsamples it into the
// parent tile.
func generateOverviewTile(px, py, z, childZoom int, ts *catalog.Tileset, opts Options, driverName, ext string) error {
	outFile := tilePath(opts.OutPath, ts.TilePath, z, px, py, ext)
	if _, err := os.Stat(outFile); err == nil {
		return nil // a Phase-1 base tile already occupies this slot
	}

	composite, err := rasterio.CreateRGBAMem(TileSize*2, TileSize*2)
	if err != nil {
		return fmt.Errorf("tile-write-failed: %w", err)
	}
	defer composite.Close()

	children := childCoords(px, py)
	offsets := quadrantOffsets()
	hasAny := false

	for i, c := range children {
		childFile := tilePath(opts.OutPath, ts.TilePath, childZoom, c[0], c[1], ext)
		childDS, err := rasterio.Open(childFile)
		if err != nil {
			continue // child tile doesn't exist; leave its quadrant blank
		}
		hasAny = true
		if err := blitChild(composite, childDS, offsets[i][0], offsets[i][1]); err != nil {
			childDS.Close()
			return err
		}
		childDS.Close()
	}

	if !hasAny {
		return nil
	}

	rgba := make([][]byte, 4)
	for b := 0; b < 4; b++ {
		buf, err := composite.ReadBand(b+1, 0, 0, TileSize*2, TileSize*2, TileSize, TileSize, opts.Resampling)
		if err != nil {
			return fmt.Errorf("tile-write-failed: downsample band %d: %w", b+1, err)
		}
		rgba[b] = buf
	}

	if alphaIsEmpty(rgba[3]) {
		return nil
	}
	return writeTile(rgba, outFile, driverName)
}

// blitChild copies a child tile's bands into composite at (ox, oy),
// filling the alpha quadrant opaque when the child has no alpha band.
func blitChild(composite, childDS *rasterio.Dataset, ox, oy int) error {
	bandCount := childDS.BandCount()
	for b := 0; b < 4; b++ {
		if b < bandCount {
			buf, err := childDS.ReadBand(b+1, 0, 0, TileSize, TileSize, TileSize, TileSize, rasterio.Nearest)
			if err != nil {
				return fmt.Errorf("tile-write-failed: read child band %d: %w", b+1, err)
			}
			if err := composite.WriteBand(b+1, ox, oy, TileSize, TileSize, buf); err != nil {
				return fmt.Errorf("tile-write-failed: composite write band %d: %w", b+1, err)
			}
		} else if b == 3 && bandCount == 3 {
			if err := composite.FillBand(4, ox, oy, TileSize, TileSize, 255); err != nil {
				return fmt.Errorf("tile-write-failed: composite fill alpha: %w", err)
			}
		}
	}
	return nil
}
