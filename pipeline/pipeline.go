// Package pipeline implements the per-dataset raster transform: open
// from a ZIP archive, expand any palette, rasterize an optional mask,
// fit an affine from ground control points, warp to the target CRS at
// a latitude-normalized resolution, optionally clip to a geographic
// bound, and persist with embedded overviews. Stages run strictly in
// sequence within one dataset; the caller parallelizes across datasets
// (see the jobqueue package).
package pipeline

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
	"github.com/ryandrake08/aeronav/internal/webmerc"
)

// Options configures one pipeline run, shared across every dataset a
// worker processes.
type Options struct {
	ZipPath             string
	TmpPath             string
	TargetEPSG          int
	ReprojectResampling rasterio.Resampling
	ThreadsPerJob       int
}

// state threads the dataset being transformed plus the offset
// bookkeeping (§4.2) through the stage sequence.
type state struct {
	ds                 *rasterio.Dataset
	origWidth, origHeight int
	wox, woy           int // window offset set by stage 2, in original pixel space
	cox, coy           int // cumulative offset set by stage 3, in original pixel space
}

func (s *state) close() {
	if s != nil {
		s.ds.Close()
	}
}

// ProcessDataset runs all seven stages for one dataset, writing the
// processed raster to opts.TmpPath/dataset.TmpFile. It is safe to call
// concurrently for different datasets; it opens and closes every handle
// it uses internally.
func ProcessDataset(d *catalog.Dataset, opts Options) error {
	st, err := stageOpen(d, opts)
	if err != nil {
		return err
	}
	defer st.close()

	if err := stageExpandAndWindow(d, st); err != nil {
		return err
	}
	if err := stageMaskRasterize(d, st); err != nil {
		return err
	}
	if err := stageGCPAffine(d, st); err != nil {
		return err
	}
	centerLon, centerLat, err := stageWarp(d, st, opts)
	if err != nil {
		return err
	}
	if err := stageClip(d, st, centerLon, centerLat); err != nil {
		return err
	}
	return stagePersist(d, st, opts)
}

// stageOpen is pipeline stage 1: open from archive.
func stageOpen(d *catalog.Dataset, opts Options) (*state, error) {
	path := rasterio.VSIZipPath(opts.ZipPath, d.ZipFile, d.InputFile)
	ds, err := rasterio.Open(path)
	if err != nil {
		return nil, newErr(SourceNotFound, d.Name, "open", err)
	}
	return &state{ds: ds, origWidth: ds.XSize(), origHeight: ds.YSize()}, nil
}

// stageExpandAndWindow is pipeline stage 2: palette expansion + source
// windowing.
func stageExpandAndWindow(d *catalog.Dataset, st *state) error {
	if !st.ds.HasColorTable() {
		return nil
	}

	opts := rasterio.TranslateOptions{ExpandRGB: true}
	if d.Mask != nil {
		minX, minY, maxX, maxY := d.Mask.Outer().BBox()
		x0, y0, w, h := clampWindow(minX, minY, maxX, maxY, st.origWidth, st.origHeight)
		if w <= 0 || h <= 0 {
			return newErr(MaskInvalid, d.Name, "expand-and-window", fmt.Errorf("mask bbox does not intersect image bounds"))
		}
		st.wox, st.woy = x0, y0
		opts.SrcWinValid = true
		opts.SrcWin = [4]int{x0, y0, w, h}
	}

	out, err := rasterio.TranslateToMem(st.ds, opts)
	if err != nil {
		return newErr(PaletteExpandFailed, d.Name, "expand-and-window", err)
	}
	st.ds.Close()
	st.ds = out
	return nil
}

// stageMaskRasterize is pipeline stage 3: mask rasterization.
func stageMaskRasterize(d *catalog.Dataset, st *state) error {
	if d.Mask == nil {
		return nil
	}

	minXAbs, minYAbs, maxXAbs, maxYAbs := d.Mask.Outer().BBox()
	x0, y0, w, h := clampWindow(minXAbs, minYAbs, maxXAbs, maxYAbs, st.origWidth, st.origHeight)
	if w <= 0 || h <= 0 {
		return newErr(MaskInvalid, d.Name, "mask-rasterize", fmt.Errorf("mask bbox does not intersect image bounds"))
	}
	if d.Mask.OuterArea() == 0 {
		return newErr(MaskInvalid, d.Name, "mask-rasterize", fmt.Errorf("outer ring has zero area"))
	}
	st.cox, st.coy = x0, y0

	// Local offset of this window within the current (possibly
	// already stage-2-windowed) raster.
	localX, localY := x0-st.wox, y0-st.woy
	if localX < 0 || localY < 0 || localX+w > st.ds.XSize() || localY+h > st.ds.YSize() {
		return newErr(MaskInvalid, d.Name, "mask-rasterize", fmt.Errorf("mask window falls outside current raster bounds"))
	}

	dst, err := rasterio.CreateRGBAMem(w, h)
	if err != nil {
		return newErr(MaskInvalid, d.Name, "mask-rasterize", err)
	}

	bandCount := st.ds.BandCount()
	for band := 1; band <= 3; band++ {
		srcBand := band
		if srcBand > bandCount {
			srcBand = 1 // grayscale-ish source: replicate band 1 into G/B
		}
		buf, err := st.ds.ReadBand(srcBand, localX, localY, w, h, w, h, rasterio.Nearest)
		if err != nil {
			dst.Close()
			return newErr(MaskInvalid, d.Name, "mask-rasterize", err)
		}
		if err := dst.WriteBand(band, 0, 0, w, h, buf); err != nil {
			dst.Close()
			return newErr(MaskInvalid, d.Name, "mask-rasterize", err)
		}
	}
	// Alpha starts fully transparent; the rasterize call below burns
	// 255 only inside the polygon.
	if err := dst.FillBand(4, 0, 0, w, h, 0); err != nil {
		dst.Close()
		return newErr(MaskInvalid, d.Name, "mask-rasterize", err)
	}

	gt := shiftGeoTransform(st.ds.GeoTransform(), float64(localX), float64(localY))
	dst.SetGeoTransform(gt)
	dst.SetProjection(st.ds.Projection())

	outer := ringFromVertices(d.Mask.Outer().Vertices, float64(st.cox), float64(st.coy))
	var holes []rasterio.Ring
	for _, h := range d.Mask.Holes() {
		holes = append(holes, ringFromVertices(h.Vertices, float64(st.cox), float64(st.coy)))
	}
	if err := rasterio.RasterizeMaskAlpha(dst, 4, outer, holes); err != nil {
		dst.Close()
		return newErr(MaskInvalid, d.Name, "mask-rasterize", err)
	}

	st.ds.Close()
	st.ds = dst
	return nil
}

// stageGCPAffine is pipeline stage 4: GCP-derived affine.
func stageGCPAffine(d *catalog.Dataset, st *state) error {
	if len(d.GCPs) == 0 {
		return nil
	}

	srcWKT := st.ds.Projection()
	var srcSR *rasterio.SpatialRef
	var err error
	if srcWKT != "" {
		srcSR, err = rasterio.FromWKT(srcWKT)
		if err != nil {
			return newErr(CRSTransformFailed, d.Name, "gcp-affine", err)
		}
		defer srcSR.Close()
	} else {
		srcSR = rasterio.WGS84()
		defer srcSR.Close()
	}

	wgs84 := rasterio.WGS84()
	defer wgs84.Close()

	var transform *rasterio.CoordinateTransform
	if srcWKT != "" {
		transform, err = rasterio.NewCoordinateTransform(wgs84, srcSR)
		if err != nil {
			return newErr(CRSTransformFailed, d.Name, "gcp-affine", err)
		}
		defer transform.Close()
	}

	gcps := make([]rasterio.GCP, 0, len(d.GCPs))
	for _, g := range d.GCPs {
		x, y := g.Lon, g.Lat
		if transform != nil {
			x, y, err = transform.Transform(g.Lon, g.Lat)
			if err != nil {
				return newErr(CRSTransformFailed, d.Name, "gcp-affine", err)
			}
		}
		gcps = append(gcps, rasterio.GCP{
			PixelX: g.PixelX - float64(st.cox),
			PixelY: g.PixelY - float64(st.coy),
			X:      x,
			Y:      y,
		})
	}

	gt, err := rasterio.GCPsToGeoTransform(gcps)
	if err != nil {
		return newErr(InsufficientGCPs, d.Name, "gcp-affine", err)
	}
	if err := st.ds.SetGeoTransform(gt); err != nil {
		return newErr(CRSTransformFailed, d.Name, "gcp-affine", err)
	}
	if srcWKT == "" {
		st.ds.SetProjection(wgs84.WKT())
	}
	return nil
}

// stageWarp is pipeline stage 5: latitude-normalized warp. Returns the
// raster's WGS84 center, reused by the clip stage's dummy-coordinate
// trick.
func stageWarp(d *catalog.Dataset, st *state, opts Options) (centerLon, centerLat float64, err error) {
	minX, minY, maxX, maxY := st.ds.Bounds()
	cx, cy := (minX+maxX)/2, (minY+maxY)/2

	wkt := st.ds.Projection()
	if wkt == "" {
		centerLon, centerLat = cx, cy
	} else {
		srcSR, err := rasterio.FromWKT(wkt)
		if err != nil {
			return 0, 0, newErr(CRSTransformFailed, d.Name, "warp", err)
		}
		defer srcSR.Close()
		wgs84 := rasterio.WGS84()
		defer wgs84.Close()

		t, err := rasterio.NewCoordinateTransform(srcSR, wgs84)
		if err != nil {
			return 0, 0, newErr(CRSTransformFailed, d.Name, "warp", err)
		}
		defer t.Close()
		centerLon, centerLat, err = t.Transform(cx, cy)
		if err != nil {
			return 0, 0, newErr(CRSTransformFailed, d.Name, "warp", err)
		}
	}

	resolution := webmerc.LatitudeAdjustedResolution(d.MaxLOD, centerLat)

	out, err := rasterio.WarpToMem(st.ds, rasterio.WarpOptions{
		TargetEPSG: opts.TargetEPSG,
		Resolution: resolution,
		Resampling: opts.ReprojectResampling,
		NumThreads: opts.ThreadsPerJob,
		DstAlpha:   true,
	})
	if err != nil {
		return 0, 0, newErr(WarpFailed, d.Name, "warp", err)
	}
	st.ds.Close()
	st.ds = out
	return centerLon, centerLat, nil
}

// stageClip is pipeline stage 6: optional geographic clip.
func stageClip(d *catalog.Dataset, st *state, centerLon, centerLat float64) error {
	if !d.GeoBounds.HasAnyBound() {
		return nil
	}

	wgs84 := rasterio.WGS84()
	defer wgs84.Close()
	dstWKT := st.ds.Projection()
	dstSR, err := rasterio.FromWKT(dstWKT)
	if err != nil {
		return newErr(ClipFailed, d.Name, "clip", err)
	}
	defer dstSR.Close()

	t, err := rasterio.NewCoordinateTransform(wgs84, dstSR)
	if err != nil {
		return newErr(ClipFailed, d.Name, "clip", err)
	}
	defer t.Close()

	minX, minY, maxX, maxY := st.ds.Bounds()
	tightened := false

	if !math.IsNaN(d.GeoBounds.LonMin) {
		x, _, err := t.Transform(d.GeoBounds.LonMin, centerLat)
		if err != nil {
			return newErr(ClipFailed, d.Name, "clip", err)
		}
		if x > minX {
			minX = x
			tightened = true
		}
	}
	if !math.IsNaN(d.GeoBounds.LonMax) {
		x, _, err := t.Transform(d.GeoBounds.LonMax, centerLat)
		if err != nil {
			return newErr(ClipFailed, d.Name, "clip", err)
		}
		if x < maxX {
			maxX = x
			tightened = true
		}
	}
	if !math.IsNaN(d.GeoBounds.LatMin) {
		_, y, err := t.Transform(centerLon, d.GeoBounds.LatMin)
		if err != nil {
			return newErr(ClipFailed, d.Name, "clip", err)
		}
		if y > minY {
			minY = y
			tightened = true
		}
	}
	if !math.IsNaN(d.GeoBounds.LatMax) {
		_, y, err := t.Transform(centerLon, d.GeoBounds.LatMax)
		if err != nil {
			return newErr(ClipFailed, d.Name, "clip", err)
		}
		if y < maxY {
			maxY = y
			tightened = true
		}
	}

	if !tightened {
		return nil
	}

	out, err := rasterio.TranslateToMem(st.ds, rasterio.TranslateOptions{
		ProjWinValid: true,
		ProjWin:      [4]float64{minX, maxY, maxX, minY},
	})
	if err != nil {
		return newErr(ClipFailed, d.Name, "clip", err)
	}
	st.ds.Close()
	st.ds = out
	return nil
}

// stagePersist is pipeline stage 7: persist with overviews.
func stagePersist(d *catalog.Dataset, st *state, opts Options) error {
	path := filepath.Join(opts.TmpPath, d.TmpFile)
	written, err := rasterio.SaveGeoTIFF(st.ds, path)
	if err != nil {
		return newErr(SaveFailed, d.Name, "persist", err)
	}
	written.Close()

	updated, err := rasterio.OpenUpdate(path)
	if err != nil {
		return newErr(SaveFailed, d.Name, "persist", err)
	}
	defer updated.FlushAndClose()

	if err := rasterio.BuildOverviews(updated, rasterio.DefaultOverviewLevels); err != nil {
		return newErr(OverviewBuildFailed, d.Name, "persist", err)
	}
	return nil
}

func clampWindow(minX, minY, maxX, maxY float64, width, height int) (x0, y0, w, h int) {
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > float64(width) {
		maxX = float64(width)
	}
	if maxY > float64(height) {
		maxY = float64(height)
	}
	x0 = int(math.Floor(minX))
	y0 = int(math.Floor(minY))
	w = int(math.Ceil(maxX)) - x0
	h = int(math.Ceil(maxY)) - y0
	return
}

func shiftGeoTransform(gt rasterio.GeoTransform, dx, dy float64) rasterio.GeoTransform {
	x, y := gt.Apply(dx, dy)
	shifted := gt
	shifted[0] = x
	shifted[3] = y
	return shifted
}

func ringFromVertices(vs []catalog.Vertex, offsetX, offsetY float64) rasterio.Ring {
	r := rasterio.Ring{X: make([]float64, len(vs)), Y: make([]float64, len(vs))}
	for i, v := range vs {
		r.X[i] = v.X - offsetX
		r.Y[i] = v.Y - offsetY
	}
	return r
}
