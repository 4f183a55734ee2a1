package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #include "cpl_string.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// DefaultOverviewLevels are the decimation factors this program embeds
// in every processed raster: {2,4,8,16,32,64}, always AVERAGE resampled.
var DefaultOverviewLevels = []int{2, 4, 8, 16, 32, 64}

// overviewCompressionOptions are the CPL config options GDAL's GTiff
// driver consults when building internal overview IFDs. They are not
// inherited from the main image's COMPRESS=LZW creation option (set in
// SaveGeoTIFF), so they must be set before GDALBuildOverviews runs.
var overviewCompressionOptions = map[string]string{
	"COMPRESS_OVERVIEW":    "LZW",
	"PHOTOMETRIC_OVERVIEW": "RGB",
	"INTERLEAVE_OVERVIEW":  "PIXEL",
}

// BuildOverviews builds in-file overviews at the given decimation
// levels using AVERAGE resampling. dst must be open for update.
func BuildOverviews(dst *Dataset, levels []int) error {
	restore := setOverviewCompressionOptions()
	defer restore()

	cMethod := C.CString(OverviewResampleName)
	defer C.free(unsafe.Pointer(cMethod))

	cLevels := make([]C.int, len(levels))
	for i, l := range levels {
		cLevels[i] = C.int(l)
	}

	cErr := C.GDALBuildOverviews(dst.handle(), cMethod, C.int(len(levels)), &cLevels[0], 0, nil, nil, nil)
	if cErr != C.CE_None {
		return fmt.Errorf("overview-build-failed")
	}
	return nil
}

// setOverviewCompressionOptions sets the overview compression options
// for the duration of one GDALBuildOverviews call and returns a closure
// that restores whatever was set before (nil meaning unset).
func setOverviewCompressionOptions() func() {
	prev := make(map[string]*string, len(overviewCompressionOptions))
	for key, val := range overviewCompressionOptions {
		prev[key] = cplGetConfigOption(key)
		cplSetConfigOption(key, val)
	}
	return func() {
		for key, val := range prev {
			if val == nil {
				cplSetConfigOptionNil(key)
			} else {
				cplSetConfigOption(key, *val)
			}
		}
	}
}

func cplGetConfigOption(key string) *string {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))
	cVal := C.CPLGetConfigOption(cKey, nil)
	if cVal == nil {
		return nil
	}
	val := C.GoString(cVal)
	return &val
}

func cplSetConfigOption(key, val string) {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))
	cVal := C.CString(val)
	defer C.free(unsafe.Pointer(cVal))
	C.CPLSetConfigOption(cKey, cVal)
}

func cplSetConfigOptionNil(key string) {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))
	C.CPLSetConfigOption(cKey, nil)
}
