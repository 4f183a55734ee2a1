package main

import (
	"testing"

	"github.com/ryandrake08/aeronav/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	src := `{
	  "datasets": {
	    "sec_slc": {"zip_file": "sec_slc", "max_lod": 11}
	  },
	  "tilesets": {
	    "sec": {"tile_path": "sec", "zoom": [4, 11], "datasets": ["sec_slc"]},
	    "tac": {"tile_path": "tac", "zoom": [6, 13], "datasets": []}
	  }
	}`
	cat, err := catalog.LoadFromBytes([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestOrNone(t *testing.T) {
	if got := orNone("", "fallback"); got != "fallback" {
		t.Errorf("orNone empty = %q, want fallback", got)
	}
	if got := orNone("set", "fallback"); got != "set" {
		t.Errorf("orNone set = %q, want set", got)
	}
}

func TestResolveTilesetsDefaultsToAll(t *testing.T) {
	cat := testCatalog(t)
	out, err := resolveTilesets(cat, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d tilesets, want 2", len(out))
	}
	if out[0].Name != "sec" || out[1].Name != "tac" {
		t.Errorf("expected alphabetical order, got %s, %s", out[0].Name, out[1].Name)
	}
}

func TestResolveTilesetsExplicitList(t *testing.T) {
	cat := testCatalog(t)
	out, err := resolveTilesets(cat, "tac")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "tac" {
		t.Fatalf("got %v, want [tac]", out)
	}
}

func TestResolveTilesetsSkipsUnknown(t *testing.T) {
	cat := testCatalog(t)
	out, err := resolveTilesets(cat, "sec,bogus")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "sec" {
		t.Fatalf("got %v, want [sec] (bogus skipped)", out)
	}
}
