package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #include "ogr_api.h"
// #include "ogr_srs_api.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// SpatialRef wraps an OGRSpatialReferenceH, always created with
// traditional GIS axis order (longitude, latitude) pinned explicitly.
// Omitting this forces (latitude, longitude) for some authorities at
// high latitudes, which silently corrupts center-latitude normalization
// and GCP pixel adjustment.
type SpatialRef struct {
	h C.OGRSpatialReferenceH
}

// WGS84 returns a geographic WGS84 spatial reference.
func WGS84() *SpatialRef {
	h := C.OSRNewSpatialReference(nil)
	C.OSRImportFromEPSG(h, 4326)
	C.OSRSetAxisMappingStrategy(h, C.OAMS_TRADITIONAL_GIS_ORDER)
	return &SpatialRef{h: h}
}

// FromEPSG returns a projected or geographic spatial reference for the
// given EPSG code.
func FromEPSG(code int) *SpatialRef {
	h := C.OSRNewSpatialReference(nil)
	C.OSRImportFromEPSG(h, C.int(code))
	C.OSRSetAxisMappingStrategy(h, C.OAMS_TRADITIONAL_GIS_ORDER)
	return &SpatialRef{h: h}
}

// FromWKT parses a WKT spatial reference string.
func FromWKT(wkt string) (*SpatialRef, error) {
	h := C.OSRNewSpatialReference(nil)
	cWkt := C.CString(wkt)
	defer C.free(unsafe.Pointer(cWkt))
	if C.OSRImportFromWkt(h, &cWkt) != C.OGRERR_NONE {
		C.OSRDestroySpatialReference(h)
		return nil, fmt.Errorf("invalid WKT spatial reference")
	}
	C.OSRSetAxisMappingStrategy(h, C.OAMS_TRADITIONAL_GIS_ORDER)
	return &SpatialRef{h: h}, nil
}

// Close releases the underlying handle.
func (s *SpatialRef) Close() {
	if s == nil || s.h == nil {
		return
	}
	C.OSRDestroySpatialReference(s.h)
	s.h = nil
}

// WKT exports the spatial reference as WKT.
func (s *SpatialRef) WKT() string {
	var wkt *C.char
	C.OSRExportToWkt(s.h, &wkt)
	defer C.free(unsafe.Pointer(wkt))
	return C.GoString(wkt)
}

// CoordinateTransform is a one-shot (x, y) -> (x', y') transform between
// two spatial references, both forced to traditional (lon, lat) axis
// order when geographic.
type CoordinateTransform struct {
	h C.OGRCoordinateTransformationH
}

// NewCoordinateTransform builds a transform from src to dst.
func NewCoordinateTransform(src, dst *SpatialRef) (*CoordinateTransform, error) {
	h := C.OCTNewCoordinateTransformation(src.h, dst.h)
	if h == nil {
		return nil, fmt.Errorf("crs-transform-failed: cannot construct coordinate transformation")
	}
	return &CoordinateTransform{h: h}, nil
}

// Close releases the underlying handle.
func (t *CoordinateTransform) Close() {
	if t == nil || t.h == nil {
		return
	}
	C.OCTDestroyCoordinateTransformation(t.h)
	t.h = nil
}

// Transform maps one (x, y) point through the transform.
func (t *CoordinateTransform) Transform(x, y float64) (float64, float64, error) {
	cx, cy := C.double(x), C.double(y)
	ok := C.OCTTransform(t.h, 1, &cx, &cy, nil)
	if ok == 0 {
		return 0, 0, fmt.Errorf("crs-transform-failed: point (%v, %v) did not transform", x, y)
	}
	return float64(cx), float64(cy), nil
}
