package rasterio

// #include "gdal.h"
// #cgo pkg-config: gdal
import "C"

// Resampling is the closed vocabulary of resampling kernels this program
// exposes: nearest, bilinear, cubic, cubicspline, lanczos, average, mode.
// Any unrecognized name resolves to bilinear.
type Resampling string

const (
	Nearest     Resampling = "nearest"
	Bilinear    Resampling = "bilinear"
	Cubic       Resampling = "cubic"
	CubicSpline Resampling = "cubicspline"
	Lanczos     Resampling = "lanczos"
	Average     Resampling = "average"
	Mode        Resampling = "mode"
)

// ParseResampling normalizes an arbitrary resampling name, defaulting to
// Bilinear when unrecognized.
func ParseResampling(name string) Resampling {
	switch Resampling(name) {
	case Nearest, Bilinear, Cubic, CubicSpline, Lanczos, Average, Mode:
		return Resampling(name)
	default:
		return Bilinear
	}
}

// rioAlg maps a Resampling to the GDALRasterIOExtraArg resample
// algorithm enum used for RasterIOEx reads (tile generation, overview
// downsampling).
func (r Resampling) rioAlg() C.GDALRIOResampleAlg {
	switch r {
	case Nearest:
		return C.GRIORA_NearestNeighbour
	case Bilinear:
		return C.GRIORA_Bilinear
	case Cubic:
		return C.GRIORA_Cubic
	case CubicSpline:
		return C.GRIORA_CubicSpline
	case Lanczos:
		return C.GRIORA_Lanczos
	case Average:
		return C.GRIORA_Average
	case Mode:
		return C.GRIORA_Mode
	default:
		return C.GRIORA_Bilinear
	}
}

// String name, used to build GDALTranslate/GDALWarp -r option strings.
func (r Resampling) String() string {
	return string(r)
}

// OverviewResampleName is the resampling method name GDAL's
// BuildOverviews expects: always AVERAGE for this program's processed
// rasters, per the persist-with-overviews stage.
const OverviewResampleName = "AVERAGE"
