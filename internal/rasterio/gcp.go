package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #include "gdal_alg.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// GCP is a pixel-to-georeferenced control point, already adjusted to
// whatever coordinate system the caller wants the affine fit in (pixel
// coordinates here are expected to already have the cumulative window
// offset subtracted).
type GCP struct {
	PixelX, PixelY float64
	X, Y           float64 // georeferenced (e.g. source-CRS x/y)
}

// GCPsToGeoTransform fits a best-affine geotransform through the given
// GCPs. Requires at least 3 non-collinear points; GDAL itself enforces
// the non-collinearity check and returns false when the system is
// singular.
func GCPsToGeoTransform(gcps []GCP) (GeoTransform, error) {
	if len(gcps) < 3 {
		return GeoTransform{}, fmt.Errorf("insufficient-gcps: need >= 3, got %d", len(gcps))
	}

	cGCPs := make([]C.GDAL_GCP, len(gcps))
	id := C.CString("")
	defer C.free(unsafe.Pointer(id))
	for i, g := range gcps {
		cGCPs[i].pszId = id
		cGCPs[i].pszInfo = id
		cGCPs[i].dfGCPPixel = C.double(g.PixelX)
		cGCPs[i].dfGCPLine = C.double(g.PixelY)
		cGCPs[i].dfGCPX = C.double(g.X)
		cGCPs[i].dfGCPY = C.double(g.Y)
		cGCPs[i].dfGCPZ = 0
	}

	var gt GeoTransform
	ok := C.GDALGCPsToGeoTransform(
		C.int(len(gcps)),
		&cGCPs[0],
		(*C.double)(unsafe.Pointer(&gt[0])),
		C.int(1), // bApproxOK
	)
	if ok == 0 {
		return GeoTransform{}, fmt.Errorf("insufficient-gcps: GDALGCPsToGeoTransform failed (collinear or singular points)")
	}
	return gt, nil
}
