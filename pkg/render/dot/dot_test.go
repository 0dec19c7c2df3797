package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/poster"
)

func testDoc() poster.Document {
	return poster.Document{
		Width: 100, Height: 100, Rows: 3, Cols: 2,
		Icons: []poster.Icon{
			{Cell: grid.Cell{Row: 0, Col: 0}, Label: "ore", Color: "#cc0000", Background: "#ffb3b3"},
			{Cell: grid.Cell{Row: 2, Col: 0}, Color: "#8c96a0", Background: "#e0e4e8"},
			{Cell: grid.Cell{Row: 2, Col: 1}, Color: "#8c96a0", Background: "#e0e4e8"},
		},
		Wires: []poster.Wire{
			{ID: "Y", Color: "#cc0000", Route: grid.Route{Departure: grid.Cell{Row: 0, Col: 0}, Arrival: grid.Cell{Row: 2, Col: 0}},
				Hops: []string{"setout(0,0)", "from[0]", "trunk", "to[2]", "arrive(2,0)"}},
			{ID: "Y", Color: "#cc0000", Route: grid.Route{Departure: grid.Cell{Row: 0, Col: 0}, Arrival: grid.Cell{Row: 2, Col: 1}},
				Hops: []string{"setout(0,0)", "from[0]", "trunk", "to[2]", "arrive(2,1)"}},
		},
		Channels: []poster.Channel{
			{Key: "trunk", Kind: "trunk", IDs: []string{"Y"}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDoc(), Options{})

	for _, want := range []string{
		"digraph G",
		`"cell_0_0" [label="ore"`,
		`"cell_2_0" [label="(2,0)"`,
		`{ rank=same; "cell_2_0"; "cell_2_1"; }`,
		`"cell_0_0" -> "cell_2_1" [label="Y"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTChannels(t *testing.T) {
	dot := ToDOT(testDoc(), Options{Channels: true})

	if !strings.Contains(dot, `"ch_trunk" [label="trunk\nY"`) {
		t.Errorf("ToDOT() missing channel node\n%s", dot)
	}
	if n := strings.Count(dot, `"ch_from[0]" -> "ch_trunk"`); n != 1 {
		t.Errorf("shared hop drawn %d times, want 1", n)
	}
	if !strings.Contains(dot, `"ch_arrive(2,1)" -> "cell_2_1"`) {
		t.Errorf("ToDOT() missing final hop\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testDoc(), Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG() root not normalized:\n%.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
