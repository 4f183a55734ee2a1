package tiler

import "fmt"

// driverForFormat maps a tile format name to its GDAL driver name and
// file extension. The vocabulary is closed: png, jpeg, webp.
func driverForFormat(format string) (driver, ext string, err error) {
	switch format {
	case "png":
		return "PNG", "png", nil
	case "jpeg":
		return "JPEG", "jpeg", nil
	case "webp":
		return "WEBP", "webp", nil
	default:
		return "", "", fmt.Errorf("unrecognized tile format %q", format)
	}
}
