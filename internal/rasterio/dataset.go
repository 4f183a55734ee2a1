package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// GeoTransform is the 6-coefficient affine mapping pixel/line to
// georeferenced coordinates, in GDAL's canonical order:
// [0]=origin x, [1]=pixel width, [2]=row rotation,
// [3]=origin y, [4]=column rotation, [5]=pixel height (negative).
type GeoTransform [6]float64

// Apply maps a (pixel, line) coordinate to georeferenced (x, y).
func (gt GeoTransform) Apply(px, py float64) (x, y float64) {
	x = gt[0] + px*gt[1] + py*gt[2]
	y = gt[3] + px*gt[4] + py*gt[5]
	return
}

// Dataset wraps a GDALDatasetH. The zero value is not usable; obtain one
// via Open, OpenUpdate, CreateRGBAMem, TranslateToMem, or WarpToMem.
type Dataset struct {
	h C.GDALDatasetH
}

func wrap(h C.GDALDatasetH) *Dataset {
	if h == nil {
		return nil
	}
	return &Dataset{h: h}
}

// VSIZipPath builds the GDAL virtual-filesystem path for a member of a
// ZIP archive: /vsizip/{zippath}/{zipFile}.zip/{inputFile}.
func VSIZipPath(zipPath, zipFile, inputFile string) string {
	return fmt.Sprintf("/vsizip/%s/%s.zip/%s", zipPath, zipFile, inputFile)
}

// Open opens path read-only. Returns an error wrapping the path if GDAL
// cannot open it (source-not-found).
func Open(path string) (*Dataset, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	h := C.GDALOpenEx(cPath, C.GDAL_OF_READONLY|C.GDAL_OF_VERBOSE_ERROR, nil, nil, nil)
	if h == nil {
		return nil, fmt.Errorf("open %s: not found or unreadable", path)
	}
	return wrap(h), nil
}

// OpenUpdate opens path for read-write, used to reopen a just-written
// GeoTIFF to build overviews in a second pass.
func OpenUpdate(path string) (*Dataset, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	h := C.GDALOpenEx(cPath, C.GDAL_OF_RASTER|C.GDAL_OF_UPDATE|C.GDAL_OF_VERBOSE_ERROR, nil, nil, nil)
	if h == nil {
		return nil, fmt.Errorf("open %s for update: failed", path)
	}
	return wrap(h), nil
}

// Close releases the underlying handle. Safe to call on a nil Dataset.
func (d *Dataset) Close() {
	if d == nil || d.h == nil {
		return
	}
	C.GDALClose(d.h)
	d.h = nil
}

// handle exposes the raw GDALDatasetH for the other rasterio files in
// this package. Not exported outside the package.
func (d *Dataset) handle() C.GDALDatasetH {
	return d.h
}

// XSize returns the raster width in pixels.
func (d *Dataset) XSize() int {
	return int(C.GDALGetRasterXSize(d.h))
}

// YSize returns the raster height in pixels.
func (d *Dataset) YSize() int {
	return int(C.GDALGetRasterYSize(d.h))
}

// BandCount returns the number of raster bands.
func (d *Dataset) BandCount() int {
	return int(C.GDALGetRasterCount(d.h))
}

// GeoTransform returns the dataset's affine geotransform.
func (d *Dataset) GeoTransform() GeoTransform {
	var gt GeoTransform
	C.GDALGetGeoTransform(d.h, (*C.double)(unsafe.Pointer(&gt[0])))
	return gt
}

// SetGeoTransform assigns the dataset's affine geotransform.
func (d *Dataset) SetGeoTransform(gt GeoTransform) error {
	if C.GDALSetGeoTransform(d.h, (*C.double)(unsafe.Pointer(&gt[0]))) != C.CE_None {
		return fmt.Errorf("SetGeoTransform failed")
	}
	return nil
}

// Projection returns the dataset's spatial reference as WKT, or "" if
// none is set.
func (d *Dataset) Projection() string {
	return C.GoString(C.GDALGetProjectionRef(d.h))
}

// SetProjection assigns the dataset's spatial reference from WKT.
func (d *Dataset) SetProjection(wkt string) error {
	cWkt := C.CString(wkt)
	defer C.free(unsafe.Pointer(cWkt))
	if C.GDALSetProjection(d.h, cWkt) != C.CE_None {
		return fmt.Errorf("SetProjection failed")
	}
	return nil
}

// HasColorTable reports whether band 1 carries a palette.
func (d *Dataset) HasColorTable() bool {
	band := C.GDALGetRasterBand(d.h, 1)
	if band == nil {
		return false
	}
	return C.GDALGetRasterColorTable(band) != nil
}

// Bounds returns the dataset's extent in its own CRS/pixel units:
// (minX, minY, maxX, maxY), accounting for a possibly-negative pixel
// height.
func (d *Dataset) Bounds() (minX, minY, maxX, maxY float64) {
	gt := d.GeoTransform()
	w, h := float64(d.XSize()), float64(d.YSize())
	x0, y0 := gt.Apply(0, 0)
	x1, y1 := gt.Apply(w, h)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return x0, y0, x1, y1
}

// FlushAndClose flushes pending writes then closes the dataset.
func (d *Dataset) FlushAndClose() {
	if d == nil || d.h == nil {
		return
	}
	C.GDALFlushCache(d.h)
	d.Close()
}
