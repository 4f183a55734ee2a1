package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// SaveGeoTIFF writes src to path as a tiled, LZW-compressed GeoTIFF with
// BIGTIFF enabled when needed, then returns a fresh handle opened for
// update so the caller can build overviews on it.
func SaveGeoTIFF(src *Dataset, path string) (*Dataset, error) {
	driverName := C.CString("GTiff")
	defer C.free(unsafe.Pointer(driverName))
	driver := C.GDALGetDriverByName(driverName)
	if driver == nil {
		return nil, fmt.Errorf("save-failed: GTiff driver unavailable")
	}

	opts := []string{"COMPRESS=LZW", "TILED=YES", "BIGTIFF=IF_SAFER"}
	cOpts := make([]*C.char, len(opts)+1)
	for i, o := range opts {
		cOpts[i] = C.CString(o)
	}
	cOpts[len(opts)] = nil
	defer func() {
		for _, c := range cOpts[:len(opts)] {
			C.free(unsafe.Pointer(c))
		}
	}()

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var cErr C.CPLErr
	dst := C.GDALCreateCopy(driver, cPath, src.handle(), C.int(0),
		(**C.char)(unsafe.Pointer(&cOpts[0])), nil, nil)
	if dst == nil {
		return nil, fmt.Errorf("save-failed: GDALCreateCopy failed for %s (err=%v)", path, cErr)
	}
	C.GDALFlushCache(dst)
	return wrap(dst), nil
}

// SaveAs writes src to path using the named GDAL driver (e.g. "PNG",
// "JPEG", "WEBP"), with no creation options. Used by the tile engine,
// which writes each tile with a user-configured output format.
func SaveAs(src *Dataset, path, driverName string) error {
	cDriverName := C.CString(driverName)
	defer C.free(unsafe.Pointer(cDriverName))
	driver := C.GDALGetDriverByName(cDriverName)
	if driver == nil {
		return fmt.Errorf("tile-write-failed: %s driver unavailable", driverName)
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	dst := C.GDALCreateCopy(driver, cPath, src.handle(), C.int(0), nil, nil, nil)
	if dst == nil {
		return fmt.Errorf("tile-write-failed: GDALCreateCopy failed for %s", path)
	}
	C.GDALClose(dst)
	return nil
}
