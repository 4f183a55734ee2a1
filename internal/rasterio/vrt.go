package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #include "gdal_utils.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// BuildVRT writes a virtual-mosaic file at vrtPath referencing
// sourceFiles in order (first = bottom of stack, last = drawn on top).
func BuildVRT(vrtPath string, sourceFiles []string) error {
	if len(sourceFiles) == 0 {
		return fmt.Errorf("vrt-build-failed: no source files")
	}

	opts := C.GDALBuildVRTOptionsNew(nil, nil)
	if opts == nil {
		return fmt.Errorf("vrt-build-failed: GDALBuildVRTOptionsNew failed")
	}
	defer C.GDALBuildVRTOptionsFree(opts)

	cFiles := make([]*C.char, len(sourceFiles))
	for i, f := range sourceFiles {
		cFiles[i] = C.CString(f)
	}
	defer func() {
		for _, c := range cFiles {
			C.free(unsafe.Pointer(c))
		}
	}()

	cPath := C.CString(vrtPath)
	defer C.free(unsafe.Pointer(cPath))

	var usageErr C.int
	vrt := C.GDALBuildVRT(cPath, C.int(len(cFiles)), nil, &cFiles[0], opts, &usageErr)
	if vrt == nil || usageErr != 0 {
		return fmt.Errorf("vrt-build-failed: GDALBuildVRT failed for %s", vrtPath)
	}
	C.GDALClose(vrt)
	return nil
}
