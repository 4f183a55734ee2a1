package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Catalog holds the loaded datasets and tilesets, indexed by name, and
// provides the lookups the rest of the program needs. It is read-only
// after Load returns.
type Catalog struct {
	datasets map[string]*Dataset
	tilesets map[string]*Tileset
	names    []string // tileset names, sorted, cached for TilesetNames
}

// Dataset looks up a dataset by name.
func (c *Catalog) Dataset(name string) (*Dataset, bool) {
	d, ok := c.datasets[name]
	return d, ok
}

// Tileset looks up a tileset by name or by tile path.
func (c *Catalog) Tileset(name string) (*Tileset, bool) {
	if ts, ok := c.tilesets[name]; ok {
		return ts, true
	}
	for _, ts := range c.tilesets {
		if ts.TilePath == name {
			return ts, true
		}
	}
	return nil, false
}

// TilesetNames returns every tileset name, sorted for deterministic
// output (e.g. for -list).
func (c *Catalog) TilesetNames() []string {
	return append([]string(nil), c.names...)
}

// jsonRing is a ring as encoded in the catalog file: an array of [x,y]
// pairs.
type jsonRing [][2]float64

type jsonDataset struct {
	ZipFile   string        `json:"zip_file"`
	InputFile string        `json:"input_file,omitempty"`
	Mask      []jsonRing    `json:"mask,omitempty"`
	GeoBound  *[4]*float64  `json:"geobound,omitempty"`
	GCPs      [][4]float64  `json:"gcps,omitempty"`
	MaxLOD    int           `json:"max_lod"`
}

type jsonTileset struct {
	TilePath  string   `json:"tile_path"`
	Zoom      [2]int   `json:"zoom"`
	Datasets  []string `json:"datasets"`
}

type jsonCatalog struct {
	Datasets map[string]jsonDataset `json:"datasets"`
	Tilesets map[string]jsonTileset `json:"tilesets"`
}

// makeTmpFile derives the per-dataset processed-raster filename from its
// catalog name.
func makeTmpFile(name string) string {
	return fmt.Sprintf("_%s.tif", name)
}

// Load reads and parses the JSON catalog file at path. The schema is
// fixed: two top-level objects, "datasets" and "tilesets"; both are
// required.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := LoadFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadFromBytes parses a catalog from an in-memory JSON document,
// useful for tests that don't want to touch the filesystem.
func LoadFromBytes(raw []byte) (*Catalog, error) {
	var jc jsonCatalog
	if err := json.Unmarshal(raw, &jc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if jc.Datasets == nil {
		return nil, fmt.Errorf("missing top-level \"datasets\"")
	}
	if jc.Tilesets == nil {
		return nil, fmt.Errorf("missing top-level \"tilesets\"")
	}

	c := &Catalog{
		datasets: make(map[string]*Dataset, len(jc.Datasets)),
		tilesets: make(map[string]*Tileset, len(jc.Tilesets)),
	}

	for name, jd := range jc.Datasets {
		d := &Dataset{
			Name:      name,
			ZipFile:   jd.ZipFile,
			InputFile: jd.InputFile,
			TmpFile:   makeTmpFile(name),
			MaxLOD:    jd.MaxLOD,
		}
		if d.InputFile == "" {
			d.InputFile = name + ".tif"
		}

		if len(jd.Mask) > 0 {
			m := &Mask{Rings: make([]Ring, 0, len(jd.Mask))}
			for _, jr := range jd.Mask {
				ring := Ring{Vertices: make([]Vertex, 0, len(jr))}
				for _, pt := range jr {
					ring.Vertices = append(ring.Vertices, Vertex{X: pt[0], Y: pt[1]})
				}
				m.Rings = append(m.Rings, ring)
			}
			d.Mask = m
		}

		if jd.GeoBound != nil {
			gb := &GeoBounds{
				LonMin: math.NaN(), LatMin: math.NaN(),
				LonMax: math.NaN(), LatMax: math.NaN(),
			}
			sides := []*float64{&gb.LonMin, &gb.LatMin, &gb.LonMax, &gb.LatMax}
			for i, v := range jd.GeoBound {
				if v != nil {
					*sides[i] = *v
				}
			}
			d.GeoBounds = gb
		}

		for _, g := range jd.GCPs {
			d.GCPs = append(d.GCPs, GCP{PixelX: g[0], PixelY: g[1], Lon: g[2], Lat: g[3]})
		}

		c.datasets[name] = d
	}

	for name, jt := range jc.Tilesets {
		c.tilesets[name] = &Tileset{
			Name:     name,
			TilePath: jt.TilePath,
			ZoomMin:  jt.Zoom[0],
			ZoomMax:  jt.Zoom[1],
			Datasets: append([]string(nil), jt.Datasets...),
		}
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	return c, nil
}
