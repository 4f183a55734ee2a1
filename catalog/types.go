// Package catalog holds the static, immutable-for-a-run description of
// aeronautical chart datasets and the tileset groupings that mosaic them.
package catalog

import "math"

// Vertex is a 2D point in source-image pixel space.
type Vertex struct {
	X, Y float64
}

// Ring is an ordered sequence of vertices. The first ring of a Mask is
// the outer boundary wound counter-clockwise; subsequent rings are holes
// wound clockwise. Winding is never altered by any stage.
type Ring struct {
	Vertices []Vertex
}

// BBox returns the axis-aligned bounding box of the ring's vertices.
func (r Ring) BBox() (minX, minY, maxX, maxY float64) {
	if len(r.Vertices) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, v := range r.Vertices {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return
}

// Mask is a polygon in source-image pixel space: one outer ring plus k
// holes.
type Mask struct {
	Rings []Ring
}

// Outer returns the mask's outer boundary ring.
func (m *Mask) Outer() Ring {
	if m == nil || len(m.Rings) == 0 {
		return Ring{}
	}
	return m.Rings[0]
}

// Holes returns the mask's hole rings, if any.
func (m *Mask) Holes() []Ring {
	if m == nil || len(m.Rings) < 2 {
		return nil
	}
	return m.Rings[1:]
}

// OuterArea returns the (unsigned) shoelace area of the outer ring, used
// as a validity check (mask-invalid on zero area). The pipeline's
// work-size estimate uses the outer ring's bounding-box area instead.
func (m *Mask) OuterArea() float64 {
	outer := m.Outer()
	n := len(outer.Vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += outer.Vertices[i].X*outer.Vertices[j].Y - outer.Vertices[j].X*outer.Vertices[i].Y
	}
	return math.Abs(sum) / 2
}

// GCP is a correspondence between a pixel coordinate in the original
// source image and a geographic coordinate.
type GCP struct {
	PixelX, PixelY float64
	Lon, Lat       float64
}

// GeoBounds is a geographic clip rectangle; a NaN side means
// unconstrained on that side.
type GeoBounds struct {
	LonMin, LatMin, LonMax, LatMax float64
}

// HasAnyBound reports whether at least one side of the bounds is
// constrained.
func (g *GeoBounds) HasAnyBound() bool {
	if g == nil {
		return false
	}
	return !math.IsNaN(g.LonMin) || !math.IsNaN(g.LatMin) ||
		!math.IsNaN(g.LonMax) || !math.IsNaN(g.LatMax)
}

// Dataset is one chart definition: where to find its source raster, how
// to mask and georeference it, and the zoom level at which it stops
// contributing base tiles.
type Dataset struct {
	Name      string
	ZipFile   string
	InputFile string
	TmpFile   string
	Mask      *Mask
	GeoBounds *GeoBounds
	GCPs      []GCP
	MaxLOD    int
}

// Tileset is a named mosaic grouping: an ordered list of dataset names,
// an output subdirectory, and a zoom range.
type Tileset struct {
	Name     string
	TilePath string
	ZoomMin  int
	ZoomMax  int
	Datasets []string
}
