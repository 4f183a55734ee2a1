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

// argv builds a NULL-terminated char** from Go strings and returns a
// free function to release it.
func argv(args []string) (**C.char, func()) {
	cArgs := make([]*C.char, len(args)+1)
	for i, a := range args {
		cArgs[i] = C.CString(a)
	}
	cArgs[len(args)] = nil
	ptr := (**C.char)(unsafe.Pointer(&cArgs[0]))
	return ptr, func() {
		for _, c := range cArgs[:len(args)] {
			C.free(unsafe.Pointer(c))
		}
	}
}

// TranslateOptions configures a GDALTranslate call. A zero value copies
// the source unmodified into memory.
type TranslateOptions struct {
	ExpandRGB bool
	// SrcWin, if Valid, requests a window read in source pixel space:
	// xoff, yoff, xsize, ysize.
	SrcWin      [4]int
	SrcWinValid bool
	// ProjWin, if Valid, requests a window read in georeferenced
	// coordinates: ulx, uly, lrx, lry.
	ProjWin      [4]float64
	ProjWinValid bool
}

// TranslateToMem runs GDALTranslate against src, producing a new
// in-memory dataset. Used for palette expansion + source windowing
// (stage 2) and geographic clip (stage 6).
func TranslateToMem(src *Dataset, opts TranslateOptions) (*Dataset, error) {
	args := []string{"-of", "MEM"}
	if opts.ExpandRGB {
		args = append(args, "-expand", "rgb")
	}
	if opts.SrcWinValid {
		args = append(args, "-srcwin",
			itoa(opts.SrcWin[0]), itoa(opts.SrcWin[1]), itoa(opts.SrcWin[2]), itoa(opts.SrcWin[3]))
	}
	if opts.ProjWinValid {
		args = append(args, "-projwin",
			ftoa(opts.ProjWin[0]), ftoa(opts.ProjWin[1]), ftoa(opts.ProjWin[2]), ftoa(opts.ProjWin[3]))
	}

	cArgv, free := argv(args)
	defer free()

	translateOpts := C.GDALTranslateOptionsNew(cArgv, nil)
	if translateOpts == nil {
		return nil, fmt.Errorf("GDALTranslateOptionsNew failed")
	}
	defer C.GDALTranslateOptionsFree(translateOpts)

	emptyPath := C.CString("")
	defer C.free(unsafe.Pointer(emptyPath))

	var usageErr C.int
	dst := C.GDALTranslate(emptyPath, src.handle(), translateOpts, &usageErr)
	if dst == nil || usageErr != 0 {
		return nil, fmt.Errorf("GDALTranslate failed")
	}
	return wrap(dst), nil
}

func itoa(i int) string     { return fmt.Sprintf("%d", i) }
func ftoa(f float64) string { return fmt.Sprintf("%.10f", f) }
