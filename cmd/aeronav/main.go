// Command aeronav converts FAA aeronautical charts packaged as
// georeferenced ZIP archives into a web map tile pyramid, driven by a
// JSON catalog describing each chart's mask, ground control points,
// and the tilesets it belongs to.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/clog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
	"github.com/ryandrake08/aeronav/pipeline"
	"github.com/ryandrake08/aeronav/tiler"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type cliOptions struct {
	configPath          string
	zipPath             string
	tmpPath             string
	outPath             string
	tilesets            string
	format              string
	jobs                int
	tileWorkers         int
	epsg                int
	reprojectResampling string
	tileResampling      string
	cleanup             bool
	tileOnly            bool
	quiet               bool
	list                bool
}

func run(args []string) int {
	opts := cliOptions{}

	fs := flag.NewFlagSet("aeronav", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "aeronav.conf.json", "config file")
	fs.StringVar(&opts.configPath, "c", "aeronav.conf.json", "config file (shorthand)")
	fs.StringVar(&opts.zipPath, "zippath", "", "directory containing ZIP files")
	fs.StringVar(&opts.zipPath, "z", "", "directory containing ZIP files (shorthand)")
	fs.StringVar(&opts.tmpPath, "tmppath", "/tmp/aeronav2tiles", "temp directory")
	fs.StringVar(&opts.tmpPath, "t", "/tmp/aeronav2tiles", "temp directory (shorthand)")
	fs.StringVar(&opts.outPath, "outpath", "", "output directory for tiles (if omitted, no tiles generated)")
	fs.StringVar(&opts.outPath, "o", "", "output directory for tiles (shorthand)")
	fs.StringVar(&opts.tilesets, "tilesets", "", "comma-separated tileset names (default: all)")
	fs.StringVar(&opts.tilesets, "s", "", "comma-separated tileset names (shorthand)")
	fs.StringVar(&opts.format, "format", "webp", "tile format: png, jpeg, webp")
	fs.StringVar(&opts.format, "f", "webp", "tile format (shorthand)")
	fs.IntVar(&opts.jobs, "jobs", 0, "concurrent dataset jobs (default: auto)")
	fs.IntVar(&opts.jobs, "j", 0, "concurrent dataset jobs (shorthand)")
	fs.IntVar(&opts.tileWorkers, "tile-workers", 0, "tile generation workers (default: auto)")
	fs.IntVar(&opts.tileWorkers, "w", 0, "tile generation workers (shorthand)")
	fs.IntVar(&opts.epsg, "epsg", 3857, "target EPSG code")
	fs.IntVar(&opts.epsg, "e", 3857, "target EPSG code (shorthand)")
	fs.StringVar(&opts.reprojectResampling, "reproject-resampling", "bilinear", "resampling for reprojection")
	fs.StringVar(&opts.tileResampling, "tile-resampling", "bilinear", "resampling for tile generation")
	fs.BoolVar(&opts.cleanup, "cleanup", false, "remove temp directory after processing")
	fs.BoolVar(&opts.cleanup, "C", false, "remove temp directory after processing (shorthand)")
	fs.BoolVar(&opts.tileOnly, "tile-only", false, "skip processing, reuse existing reprojected files")
	fs.BoolVar(&opts.tileOnly, "T", false, "skip processing (shorthand)")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress progress output")
	fs.BoolVar(&opts.quiet, "q", false, "suppress progress output (shorthand)")
	fs.BoolVar(&opts.list, "list", false, "list available tilesets and exit")
	fs.BoolVar(&opts.list, "l", false, "list available tilesets and exit (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if opts.quiet {
		clog.SetQuiet(true)
	}

	cat, err := catalog.Load(opts.configPath)
	if err != nil {
		clog.Error("loading config: %v", err)
		return 1
	}

	if opts.list {
		listTilesets(cat)
		return 0
	}

	cpuCount := runtime.NumCPU()
	jobs := opts.jobs
	if jobs == 0 {
		jobs = cpuCount
		if jobs > 4 {
			jobs = 4
		}
	}
	threadsPerJob := cpuCount / jobs
	if threadsPerJob < 1 {
		threadsPerJob = 1
	}
	tileWorkers := opts.tileWorkers
	if tileWorkers == 0 {
		tileWorkers = cpuCount
	}

	clog.Info("aeronav - FAA chart tile generator")
	clog.Info("  zippath: %s", orNone(opts.zipPath, "none - datasets will not be processed"))
	clog.Info("  outpath: %s", orNone(opts.outPath, "none - tiles will not be generated"))
	clog.Info("  tmppath: %s", opts.tmpPath)
	clog.Info("  CPUs: %d, jobs: %d, threads/job: %d, tile workers: %d", cpuCount, jobs, threadsPerJob, tileWorkers)

	if opts.outPath != "" {
		if err := os.MkdirAll(opts.outPath, 0o755); err != nil {
			clog.Error("creating outpath: %v", err)
			return 1
		}
	}
	if err := os.MkdirAll(opts.tmpPath, 0o755); err != nil {
		clog.Error("creating tmppath: %v", err)
		return 1
	}

	tilesets, err := resolveTilesets(cat, opts.tilesets)
	if err != nil {
		clog.Error("%v", err)
		return 1
	}
	if len(tilesets) == 0 {
		clog.Error("no valid tilesets to process")
		return 1
	}

	totalDatasets := 0
	for _, ts := range tilesets {
		totalDatasets += len(ts.Datasets)
	}
	clog.Info("Processing %d tileset(s) with %d total dataset(s)...", len(tilesets), totalDatasets)

	anyFatal := false

	if opts.zipPath != "" && !opts.tileOnly {
		rasterio.Init()
		if !processDatasets(cat, tilesets, opts, jobs, threadsPerJob) {
			clog.Error("dataset processing had failures")
			anyFatal = true
		}
	}

	if opts.outPath != "" {
		rasterio.Init()
		if !generateTiles(cat, tilesets, opts, tileWorkers) {
			anyFatal = true
		}
	}

	if opts.cleanup {
		clog.Info("Cleaning up temp directory: %s", opts.tmpPath)
		if err := os.RemoveAll(opts.tmpPath); err != nil {
			clog.Error("removing temp directory: %v", err)
			anyFatal = true
		}
	}

	clog.Info("")
	clog.Info("Done.")
	if anyFatal {
		return 1
	}
	return 0
}

func orNone(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func listTilesets(cat *catalog.Catalog) {
	fmt.Println("Available tilesets:")
	for _, name := range cat.TilesetNames() {
		ts, ok := cat.Tileset(name)
		if !ok {
			continue
		}
		fmt.Printf("  %-40s (%s, zoom %d-%d)\n", ts.Name, ts.TilePath, ts.ZoomMin, ts.ZoomMax)
	}
}

// resolveTilesets looks up either the explicitly requested tileset
// names or, if none were given, every tileset in the catalog. An
// unknown requested name is logged and skipped rather than aborting
// the whole run.
func resolveTilesets(cat *catalog.Catalog, requested string) ([]*catalog.Tileset, error) {
	var names []string
	if requested != "" {
		names = strings.Split(requested, ",")
	} else {
		names = cat.TilesetNames()
	}

	var out []*catalog.Tileset
	for _, name := range names {
		ts, ok := cat.Tileset(name)
		if !ok {
			clog.Error("unknown tileset: %s", name)
			continue
		}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// processDatasets runs the raster pipeline over the union of every
// requested tileset's datasets, deduplicated by name, sorted by
// estimated work descending.
func processDatasets(cat *catalog.Catalog, tilesets []*catalog.Tileset, opts cliOptions, jobs, threadsPerJob int) bool {
	seen := make(map[string]bool)
	var datasets []*catalog.Dataset
	for _, ts := range tilesets {
		for _, name := range ts.Datasets {
			if seen[name] {
				continue
			}
			seen[name] = true
			d, ok := cat.Dataset(name)
			if !ok {
				continue
			}
			datasets = append(datasets, d)
		}
	}
	pipeline.SortByWorkDescending(datasets)

	res := pipeline.RunAll(datasets, pipeline.Options{
		ZipPath:             opts.zipPath,
		TmpPath:             opts.tmpPath,
		TargetEPSG:          opts.epsg,
		ReprojectResampling: rasterio.ParseResampling(opts.reprojectResampling),
		ThreadsPerJob:       threadsPerJob,
	}, jobs)

	return res.Ok()
}

// generateTiles runs the tile engine for each tileset in turn.
func generateTiles(cat *catalog.Catalog, tilesets []*catalog.Tileset, opts cliOptions, tileWorkers int) bool {
	ok := true
	for _, ts := range tilesets {
		clog.Info("")
		clog.Info("=== Tiles: %s ===", ts.Name)
		err := tiler.GenerateTileset(cat, ts, tiler.Options{
			TmpPath:    opts.tmpPath,
			OutPath:    opts.outPath,
			Format:     opts.format,
			Resampling: rasterio.ParseResampling(opts.tileResampling),
			MaxWorkers: tileWorkers,
		})
		if err != nil {
			clog.Error("tileset %s: %v", ts.Name, err)
			ok = false
		}
	}
	return ok
}
