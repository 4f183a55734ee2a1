// Package webmerc is the Web Mercator (EPSG:3857) tile math shared by
// the raster pipeline's latitude-normalized resolution policy, the tile
// manifest's geographic-to-tile conversions, and the tile engine's
// per-tile extent calculation. It holds no state; every function is a
// pure coordinate transform.
package webmerc

import "math"

// EarthRadius is the WGS84/Web-Mercator sphere radius in meters.
const EarthRadius = 6378137.0

// OriginShift is half the circumference of the Web Mercator square,
// i.e. the coordinate of the map's right/top edge in meters.
const OriginShift = math.Pi * EarthRadius

// TileSize is the pixel dimension of one tile.
const TileSize = 256

// EquatorialResolution returns the ground resolution in meters/pixel at
// the equator for zoom level z, where z=0 spans the whole world in one
// 256x256 tile.
func EquatorialResolution(z int) float64 {
	return 2 * OriginShift / (TileSize * math.Pow(2, float64(z)))
}

// LatitudeAdjustedResolution returns the pixel size a processed raster
// must use so that, once reprojected to Web Mercator, it matches the
// equatorial resolution at the given max-LOD zoom at the raster's own
// center latitude. Without this adjustment, high-latitude charts would
// be upsampled by 1/cos²(φ) once warped.
func LatitudeAdjustedResolution(maxLOD int, centerLatDeg float64) float64 {
	phi := centerLatDeg * math.Pi / 180
	return EquatorialResolution(maxLOD) / math.Cos(phi)
}

// TileExtent returns the EPSG:3857 bounds (minX, minY, maxX, maxY) of
// tile (z, x, y) under the XYZ scheme (origin top-left).
func TileExtent(z, x, y int) (minX, minY, maxX, maxY float64) {
	res := EquatorialResolution(z) * TileSize
	n := int(math.Pow(2, float64(z)))
	tmsY := (n - 1) - y

	minX = -OriginShift + float64(x)*res
	maxX = -OriginShift + float64(x+1)*res
	minY = -OriginShift + float64(tmsY)*res
	maxY = -OriginShift + float64(tmsY+1)*res
	return
}

// MetersToLonLat converts an EPSG:3857 coordinate to geographic
// longitude/latitude degrees.
func MetersToLonLat(mx, my float64) (lon, lat float64) {
	lon = mx * 180 / OriginShift
	lat = math.Atan(math.Sinh(my*math.Pi/OriginShift)) * 180 / math.Pi
	return
}

// LonLatToMeters converts a geographic longitude/latitude to EPSG:3857.
func LonLatToMeters(lon, lat float64) (mx, my float64) {
	mx = lon * OriginShift / 180
	latRad := lat * math.Pi / 180
	my = math.Log(math.Tan(math.Pi/4+latRad/2)) * OriginShift / math.Pi
	return
}

// TileAt returns the XYZ tile coordinate containing (lon, lat) at zoom
// z, clamped to the valid [0, 2^z - 1] range.
func TileAt(lon, lat float64, z int) (x, y int) {
	n := math.Pow(2, float64(z))
	latRad := lat * math.Pi / 180

	x = int(math.Floor((lon + 180) / 360 * n))
	y = int(math.Floor((1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n))

	maxIdx := int(n) - 1
	if x < 0 {
		x = 0
	}
	if x > maxIdx {
		x = maxIdx
	}
	if y < 0 {
		y = 0
	}
	if y > maxIdx {
		y = maxIdx
	}
	return
}
