package tiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/clog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
	"github.com/ryandrake08/aeronav/internal/webmerc"
	"github.com/ryandrake08/aeronav/jobqueue"
	"github.com/ryandrake08/aeronav/manifest"
	"github.com/ryandrake08/aeronav/mosaic"
)

// runPhase1 builds every zoom's virtual mosaic once, then dispatches
// the flattened (z,x,y) triples to a jobqueue worker pool, which hands
// the next tile index to whichever worker finishes its current tile.
// Each worker keeps its own z -> open VRT handle cache, since a given
// worker is only ever running one job at a time.
func runPhase1(cat *catalog.Catalog, ts *catalog.Tileset, triples []manifest.Triple, opts Options, driverName, ext string) error {
	if len(triples) == 0 {
		return nil
	}

	vrtPaths := make(map[int]string)
	for _, t := range triples {
		if _, ok := vrtPaths[t.Z]; ok {
			continue
		}
		path, err := mosaic.BuildZoomVRT(cat, ts, t.Z, opts.TmpPath)
		if err != nil {
			clog.Error("tileset %s zoom %d: %v; no base tiles will be produced at this zoom", ts.Name, t.Z, err)
			path = ""
		}
		vrtPaths[t.Z] = path
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > len(triples) {
		maxWorkers = len(triples)
	}

	caches := make([]map[int]*rasterio.Dataset, maxWorkers)

	res := jobqueue.Run(jobqueue.Config{
		NumJobs:    len(triples),
		MaxWorkers: maxWorkers,
		Init: func(workerID int) error {
			rasterio.Init()
			caches[workerID] = make(map[int]*rasterio.Dataset)
			return nil
		},
		Job: func(workerID, index int) error {
			t := triples[index]
			vrtPath := vrtPaths[t.Z]
			if vrtPath == "" {
				return nil // no qualifying VRT at this zoom; nothing to sample
			}
			ds, err := vrtHandle(caches[workerID], t.Z, vrtPath)
			if err != nil {
				return fmt.Errorf("tile-write-failed: open vrt for zoom %d: %w", t.Z, err)
			}
			return generateBaseTile(ds, t.Z, t.X, t.Y, ts, opts, driverName, ext)
		},
	})

	for _, cache := range caches {
		for _, ds := range cache {
			ds.Close()
		}
	}

	if !res.Ok() {
		return fmt.Errorf("tile-write-failed: %d of %d base tiles failed", res.Failed, res.Failed+res.Succeeded)
	}
	return nil
}

// vrtHandle returns the worker-local open handle for zoom z, opening
// and caching it on first use.
func vrtHandle(cache map[int]*rasterio.Dataset, z int, path string) (*rasterio.Dataset, error) {
	if ds, ok := cache[z]; ok {
		return ds, nil
	}
	ds, err := rasterio.Open(path)
	if err != nil {
		return nil, err
	}
	cache[z] = ds
	return ds, nil
}

// generateBaseTile produces one tile by reading a resampled window out
// of the zoom-VRT ds. Returns nil both when the tile is written and
// when it is legitimately skipped (already exists, disjoint from the
// dataset, or entirely transparent).
func generateBaseTile(ds *rasterio.Dataset, z, x, y int, ts *catalog.Tileset, opts Options, driverName, ext string) error {
	outFile := tilePath(opts.OutPath, ts.TilePath, z, x, y, ext)
	if _, err := os.Stat(outFile); err == nil {
		return nil // already exists, idempotent re-run
	}

	tileMinX, tileMinY, tileMaxX, tileMaxY := webmerc.TileExtent(z, x, y)

	dsMinX, dsMinY, dsMaxX, dsMaxY := ds.Bounds()
	dsWidth, dsHeight := ds.XSize(), ds.YSize()

	win, ok := computeWindow(tileMinX, tileMinY, tileMaxX, tileMaxY,
		dsMinX, dsMinY, dsMaxX, dsMaxY, dsWidth, dsHeight)
	if !ok {
		return nil
	}

	bandCount := ds.BandCount()
	if bandCount < 3 {
		return fmt.Errorf("tile-write-failed: dataset has %d bands, want >= 3", bandCount)
	}

	rgba := make([][]byte, 4)
	for b := 0; b < 4; b++ {
		rgba[b] = make([]byte, TileSize*TileSize)
	}

	for b := 0; b < 3; b++ {
		buf, err := ds.ReadBand(b+1, win.SrcX, win.SrcY, win.SrcW, win.SrcH, win.DstW, win.DstH, opts.Resampling)
		if err != nil {
			return fmt.Errorf("tile-write-failed: read band %d: %w", b+1, err)
		}
		blit(rgba[b], buf, win.DstX, win.DstY, win.DstW, win.DstH)
	}

	if bandCount >= 4 {
		buf, err := ds.ReadBand(4, win.SrcX, win.SrcY, win.SrcW, win.SrcH, win.DstW, win.DstH, opts.Resampling)
		if err != nil {
			return fmt.Errorf("tile-write-failed: read alpha band: %w", err)
		}
		blit(rgba[3], buf, win.DstX, win.DstY, win.DstW, win.DstH)
	} else {
		fillRect(rgba[3], win.DstX, win.DstY, win.DstW, win.DstH, 255)
	}

	if alphaIsEmpty(rgba[3]) {
		return nil
	}

	return writeTile(rgba, outFile, driverName)
}

// blit copies a dstW x dstH buffer into dst at (dstX, dstY) within a
// TileSize x TileSize plane.
func blit(dst, src []byte, dstX, dstY, dstW, dstH int) {
	for row := 0; row < dstH; row++ {
		srcOff := row * dstW
		dstOff := (dstY+row)*TileSize + dstX
		copy(dst[dstOff:dstOff+dstW], src[srcOff:srcOff+dstW])
	}
}

// fillRect sets a dstW x dstH rectangle of dst to value.
func fillRect(dst []byte, x, y, w, h int, value byte) {
	for row := 0; row < h; row++ {
		off := (y+row)*TileSize + x
		for col := 0; col < w; col++ {
			dst[off+col] = value
		}
	}
}

// writeTile builds a MEM dataset from four TileSize x TileSize RGBA
// band buffers and translates it to the configured output format.
func writeTile(rgba [][]byte, outFile, driverName string) error {
	mem, err := rasterio.CreateRGBAMem(TileSize, TileSize)
	if err != nil {
		return fmt.Errorf("tile-write-failed: %w", err)
	}
	defer mem.Close()

	for b := 0; b < 4; b++ {
		if err := mem.WriteBand(b+1, 0, 0, TileSize, TileSize, rgba[b]); err != nil {
			return fmt.Errorf("tile-write-failed: write band %d: %w", b+1, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return fmt.Errorf("tile-write-failed: mkdir %s: %w", filepath.Dir(outFile), err)
	}

	if err := rasterio.SaveAs(mem, outFile, driverName); err != nil {
		return err
	}
	return nil
}

// tilePath builds the on-disk path for tile (z,x,y).
func tilePath(outPath, tilePathPrefix string, z, x, y int, ext string) string {
	return filepath.Join(outPath, tilePathPrefix, itoa(z), itoa(x), fmt.Sprintf("%d.%s", y, ext))
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
