// Package tiler is the two-phase tile engine: Phase 1 samples base
// tiles directly out of each zoom's virtual mosaic in parallel; Phase 2
// synthesizes lower-zoom overview tiles from already-written children,
// sequentially from the highest zoom down to the lowest.
package tiler

import (
	"fmt"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/clog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
	"github.com/ryandrake08/aeronav/manifest"
)

// Options configures one tileset's tile generation run.
type Options struct {
	TmpPath    string
	OutPath    string
	Format     string // png | jpeg | webp
	Resampling rasterio.Resampling
	MaxWorkers int
}

// GenerateTileset runs both phases of tile production for tileset ts.
func GenerateTileset(cat *catalog.Catalog, ts *catalog.Tileset, opts Options) error {
	driverName, ext, err := driverForFormat(opts.Format)
	if err != nil {
		return err
	}

	m, err := manifest.Build(cat, ts, opts.TmpPath)
	if err != nil {
		return fmt.Errorf("manifest-read-failed: %w", err)
	}

	triples := m.Flatten()
	clog.Info("  Phase 1: base tiles (zoom %d to %d), %d tiles, %d workers",
		m.ZoomMin, m.ZoomMax, len(triples), opts.MaxWorkers)

	if err := runPhase1(cat, ts, triples, opts, driverName, ext); err != nil {
		return err
	}

	if m.ZoomMax > m.ZoomMin {
		clog.Info("  Phase 2: overview tiles (zoom %d to %d)", m.ZoomMax-1, m.ZoomMin)
		for z := m.ZoomMax - 1; z >= m.ZoomMin; z-- {
			if err := runPhase2Zoom(ts, z, opts, driverName, ext); err != nil {
				return fmt.Errorf("tile-write-failed: overview zoom %d: %w", z, err)
			}
		}
	}

	clog.Info("  tile generation complete")
	return nil
}
