// Package tiler is the two-phase tile engine: Phase 1 samples base
// tiles directly out of each zoom's virtual mosaic in parallel; Phase 2
// synthesizes lower-zoom overview tiles from already-written children,
// sequentially from the highest zoom down.
package tiler

// TileSize is the pixel dimension of one output tile.
const TileSize = 256

// SourceWindow describes, for one tile, the source pixel rectangle to
// read from a dataset and the destination sub-rectangle of the
// TileSize x TileSize output it should be resampled into. A tile whose
// source dataset covers it only partially has DstW/DstH < TileSize,
// and a nonzero DstX/DstY when the uncovered part is on the left/top.
type SourceWindow struct {
	SrcX, SrcY, SrcW, SrcH int
	DstX, DstY, DstW, DstH int
}

// computeWindow intersects a tile's extent with a dataset's extent
// (both in the same projected CRS) and, on intersection, returns the
// source window to read and the destination sub-rectangle to write it
// into. ok is false when the two are disjoint or the resulting window
// degenerates to zero area.
func computeWindow(tileMinX, tileMinY, tileMaxX, tileMaxY float64,
	dsMinX, dsMinY, dsMaxX, dsMaxY float64, dsWidth, dsHeight int) (w SourceWindow, ok bool) {

	if tileMaxX <= dsMinX || tileMinX >= dsMaxX || tileMaxY <= dsMinY || tileMinY >= dsMaxY {
		return SourceWindow{}, false
	}

	spanX := dsMaxX - dsMinX
	spanY := dsMaxY - dsMinY

	gx0 := (tileMinX - dsMinX) / spanX * float64(dsWidth)
	gx1 := (tileMaxX - dsMinX) / spanX * float64(dsWidth)
	gy0 := (dsMaxY - tileMaxY) / spanY * float64(dsHeight)
	gy1 := (dsMaxY - tileMinY) / spanY * float64(dsHeight)

	if gx0 < 0 {
		gx0 = 0
	}
	if gy0 < 0 {
		gy0 = 0
	}
	if gx1 > float64(dsWidth) {
		gx1 = float64(dsWidth)
	}
	if gy1 > float64(dsHeight) {
		gy1 = float64(dsHeight)
	}

	srcX := int(gx0)
	srcY := int(gy0)
	srcW := int(gx1 - gx0 + 0.5)
	srcH := int(gy1 - gy0 + 0.5)
	if srcW <= 0 || srcH <= 0 {
		return SourceWindow{}, false
	}

	dstX, dstY, dstW, dstH := 0, 0, TileSize, TileSize
	tileSpanX := tileMaxX - tileMinX
	tileSpanY := tileMaxY - tileMinY

	if tileMinX < dsMinX {
		dstX = int((dsMinX - tileMinX) / tileSpanX * TileSize)
		dstW = TileSize - dstX
	}
	if tileMaxX > dsMaxX {
		dstW = int((dsMaxX-tileMinX)/tileSpanX*TileSize) - dstX
	}
	if tileMaxY > dsMaxY {
		dstY = int((tileMaxY - dsMaxY) / tileSpanY * TileSize)
		dstH = TileSize - dstY
	}
	if tileMinY < dsMinY {
		dstH = int((tileMaxY-dsMinY)/tileSpanY*TileSize) - dstY
	}

	if dstW <= 0 || dstH <= 0 {
		return SourceWindow{}, false
	}

	return SourceWindow{SrcX: srcX, SrcY: srcY, SrcW: srcW, SrcH: srcH,
		DstX: dstX, DstY: dstY, DstW: dstW, DstH: dstH}, true
}

// parentOf returns the XYZ parent coordinate of a child tile.
func parentOf(x, y int) (px, py int) {
	return x / 2, y / 2
}

// childCoords returns the four XYZ child coordinates of parent (x,y),
// in top-left, top-right, bottom-left, bottom-right order, matching
// the quadrant layout used when compositing an overview tile.
func childCoords(x, y int) [4][2]int {
	return [4][2]int{
		{x * 2, y * 2},
		{x*2 + 1, y * 2},
		{x * 2, y*2 + 1},
		{x*2 + 1, y*2 + 1},
	}
}

// quadrantOffsets maps the same four child positions to their pixel
// offset within a 2*TileSize composite buffer.
func quadrantOffsets() [4][2]int {
	return [4][2]int{
		{0, 0},
		{TileSize, 0},
		{0, TileSize},
		{TileSize, TileSize},
	}
}

// alphaIsEmpty reports whether every byte in an alpha band buffer is
// zero, meaning the tile has no visible content and should not be
// written.
func alphaIsEmpty(alpha []byte) bool {
	for _, b := range alpha {
		if b != 0 {
			return false
		}
	}
	return true
}
