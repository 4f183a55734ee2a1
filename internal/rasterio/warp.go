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

// WarpOptions configures the latitude-normalized reprojection stage.
type WarpOptions struct {
	TargetEPSG  int
	Resolution  float64 // square pixel size, in target CRS units
	Resampling  Resampling
	NumThreads  int
	DstAlpha    bool
}

// WarpToMem reprojects src into a new in-memory dataset per opts. Used
// by the latitude-normalized warp stage (§4.2 stage 5).
func WarpToMem(src *Dataset, opts WarpOptions) (*Dataset, error) {
	args := []string{
		"-of", "MEM",
		"-t_srs", fmt.Sprintf("EPSG:%d", opts.TargetEPSG),
		"-tr", ftoa(opts.Resolution), ftoa(opts.Resolution),
		"-r", opts.Resampling.String(),
	}
	if opts.NumThreads > 1 {
		args = append(args, "-wo", fmt.Sprintf("NUM_THREADS=%d", opts.NumThreads))
	}
	if opts.DstAlpha {
		args = append(args, "-dstalpha")
	}

	cArgv, free := argv(args)
	defer free()

	warpOpts := C.GDALWarpAppOptionsNew(cArgv, nil)
	if warpOpts == nil {
		return nil, fmt.Errorf("warp-failed: GDALWarpAppOptionsNew failed")
	}
	defer C.GDALWarpAppOptionsFree(warpOpts)

	emptyPath := C.CString("")
	defer C.free(unsafe.Pointer(emptyPath))

	srcHandles := []C.GDALDatasetH{src.handle()}
	var usageErr C.int
	dst := C.GDALWarp(emptyPath, nil, 1, &srcHandles[0], warpOpts, &usageErr)
	if dst == nil || usageErr != 0 {
		return nil, fmt.Errorf("warp-failed: GDALWarp failed")
	}
	return wrap(dst), nil
}
