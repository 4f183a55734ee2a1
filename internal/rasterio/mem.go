package rasterio

// #include <stdlib.h>
// #include "gdal.h"
// #cgo pkg-config: gdal
import "C"

import (
	"fmt"
	"unsafe"
)

// ColorInterp names the four bands this program always works with:
// byte RGBA.
type ColorInterp int

const (
	RedBand ColorInterp = iota
	GreenBand
	BlueBand
	AlphaBand
)

func (c ColorInterp) gdal() C.GDALColorInterp {
	switch c {
	case RedBand:
		return C.GCI_RedBand
	case GreenBand:
		return C.GCI_GreenBand
	case BlueBand:
		return C.GCI_BlueBand
	default:
		return C.GCI_AlphaBand
	}
}

// CreateRGBAMem creates an in-memory 4-band byte raster of the given
// size, with band color interpretations set to R, G, B, A.
func CreateRGBAMem(xsize, ysize int) (*Dataset, error) {
	driverName := C.CString("MEM")
	defer C.free(unsafe.Pointer(driverName))
	driver := C.GDALGetDriverByName(driverName)
	if driver == nil {
		return nil, fmt.Errorf("MEM driver unavailable")
	}

	emptyPath := C.CString("")
	defer C.free(unsafe.Pointer(emptyPath))
	h := C.GDALCreate(driver, emptyPath, C.int(xsize), C.int(ysize), 4, C.GDT_Byte, nil)
	if h == nil {
		return nil, fmt.Errorf("GDALCreate (MEM) failed")
	}
	d := wrap(h)
	for i, ci := range []ColorInterp{RedBand, GreenBand, BlueBand, AlphaBand} {
		band := C.GDALGetRasterBand(h, C.int(i+1))
		C.GDALSetRasterColorInterpretation(band, ci.gdal())
	}
	return d, nil
}

// ReadBand reads a window of band (1-based) from src, resampling into a
// dstXSize x dstYSize byte buffer with the given kernel. This is the
// single primitive both the mask stage's window extraction and the tile
// engine's per-band resampled read are built from.
func (d *Dataset) ReadBand(band, srcXOff, srcYOff, srcXSize, srcYSize, dstXSize, dstYSize int, resampling Resampling) ([]byte, error) {
	buf := make([]byte, dstXSize*dstYSize)
	b := C.GDALGetRasterBand(d.h, C.int(band))
	if b == nil {
		return nil, fmt.Errorf("band %d does not exist", band)
	}

	var extra C.GDALRasterIOExtraArg
	extra.nVersion = 1
	extra.eResampleAlg = resampling.rioAlg()

	cErr := C.GDALRasterIOEx(
		b, C.GF_Read,
		C.int(srcXOff), C.int(srcYOff), C.int(srcXSize), C.int(srcYSize),
		unsafe.Pointer(&buf[0]), C.int(dstXSize), C.int(dstYSize),
		C.GDT_Byte, 0, 0, &extra,
	)
	if cErr != C.CE_None {
		return nil, fmt.Errorf("RasterIOEx read failed")
	}
	return buf, nil
}

// WriteBand writes a dstXSize x dstYSize byte buffer into a window of
// band (1-based) in dst at (xoff, yoff).
func (d *Dataset) WriteBand(band, xoff, yoff, xsize, ysize int, buf []byte) error {
	b := C.GDALGetRasterBand(d.h, C.int(band))
	if b == nil {
		return fmt.Errorf("band %d does not exist", band)
	}
	if len(buf) < xsize*ysize {
		return fmt.Errorf("buffer too small: have %d want %d", len(buf), xsize*ysize)
	}
	cErr := C.GDALRasterIO(
		b, C.GF_Write,
		C.int(xoff), C.int(yoff), C.int(xsize), C.int(ysize),
		unsafe.Pointer(&buf[0]), C.int(xsize), C.int(ysize),
		C.GDT_Byte, 0, 0,
	)
	if cErr != C.CE_None {
		return fmt.Errorf("RasterIO write failed")
	}
	return nil
}

// FillBand sets every pixel of band (1-based) in a xsize x ysize window
// starting at (xoff, yoff) to value.
func (d *Dataset) FillBand(band, xoff, yoff, xsize, ysize int, value byte) error {
	buf := make([]byte, xsize*ysize)
	for i := range buf {
		buf[i] = value
	}
	return d.WriteBand(band, xoff, yoff, xsize, ysize, buf)
}
