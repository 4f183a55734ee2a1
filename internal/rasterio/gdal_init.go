// Package rasterio is the cgo boundary onto GDAL: the only way this
// program opens rasters, warps them, rasterizes polygons into them, and
// builds virtual mosaics and overviews. Every other package works in
// terms of the types this package exposes; none of them import "C"
// directly.
package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #include "gdal_frmts.h"
// #include "cpl_string.h"
// #cgo pkg-config: gdal
import "C"

import (
	"os"
	"sync"
	"unsafe"
)

var initOnce sync.Once

// Init registers GDAL's raster drivers and applies the environment and
// CPL options this pipeline depends on. It is idempotent and safe to
// call once per process before any dataset is opened; call it from each
// job-queue worker's init hook.
func Init() {
	initOnce.Do(func() {
		setDefaultEnv("GDAL_DISABLE_READDIR_ON_OPEN", "EMPTY_DIR")
		setDefaultEnv("GDAL_PAM_ENABLED", "NO")
		setDefaultEnv("GDAL_MAX_DATASET_POOL_SIZE", "20")

		key := C.CString("GTIFF_SRS_SOURCE")
		defer C.free(unsafe.Pointer(key))
		val := C.CString("GEOKEYS")
		defer C.free(unsafe.Pointer(val))
		C.CPLSetConfigOption(key, val)

		registerDrivers()
	})
}

func setDefaultEnv(envVar, defaultVal string) {
	if _, ok := os.LookupEnv(envVar); !ok {
		os.Setenv(envVar, defaultVal)
	}
}

func registerDrivers() {
	// Register GTiff explicitly first: it is on the hot path for every
	// dataset this program opens (source charts, processed rasters,
	// VRTs reference it), and GDAL probes drivers in registration order.
	C.GDALRegister_GTiff()
	C.GDALAllRegister()
}
