package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #include "gdal_alg.h"
// #include "ogr_api.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
)

// Ring is a polygon ring in the rasterize-time coordinate system
// (already offset-adjusted by the caller).
type Ring struct {
	X, Y []float64
}

// RasterizeMaskAlpha burns a polygon (outer ring plus holes) into band
// alphaBand of dst with value 255, leaving everything outside the
// polygon at the band's current value. Rasterization is performed
// against a temporary identity geotransform and the dataset's original
// geotransform is restored afterward, since OGR geometry coordinates
// here are in pixel space, not georeferenced space.
func RasterizeMaskAlpha(dst *Dataset, alphaBand int, outer Ring, holes []Ring) error {
	saved := dst.GeoTransform()
	identity := GeoTransform{0, 1, 0, 0, 0, 1}
	if err := dst.SetGeoTransform(identity); err != nil {
		return fmt.Errorf("mask-invalid: set identity geotransform: %w", err)
	}
	defer dst.SetGeoTransform(saved)

	if len(outer.X) < 3 {
		return fmt.Errorf("mask-invalid: outer ring has fewer than 3 vertices")
	}

	geom := C.OGR_G_CreateGeometry(C.wkbPolygon)
	if geom == nil {
		return fmt.Errorf("mask-invalid: OGR_G_CreateGeometry failed")
	}
	defer C.OGR_G_DestroyGeometry(geom)

	addRing(geom, outer)
	for _, h := range holes {
		addRing(geom, h)
	}

	geoms := []C.OGRGeometryH{geom}
	bands := []C.int{C.int(alphaBand)}
	burnValues := []C.double{255.0}

	cErr := C.GDALRasterizeGeometries(
		dst.handle(),
		1, &bands[0],
		1, &geoms[0],
		nil, nil,
		&burnValues[0],
		nil, nil, nil,
	)
	if cErr != C.CE_None {
		return fmt.Errorf("mask-invalid: GDALRasterizeGeometries failed")
	}
	return nil
}

func addRing(geom C.OGRGeometryH, r Ring) {
	lr := C.OGR_G_CreateGeometry(C.wkbLinearRing)
	for i := range r.X {
		C.OGR_G_AddPoint_2D(lr, C.double(r.X[i]), C.double(r.Y[i]))
	}
	// Close the ring explicitly; OGR requires first == last point.
	if len(r.X) > 0 {
		C.OGR_G_AddPoint_2D(lr, C.double(r.X[0]), C.double(r.Y[0]))
	}
	C.OGR_G_AddGeometryDirectly(geom, lr)
}
