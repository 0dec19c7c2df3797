package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/core/layout"
	"github.com/matzehuels/gridwire/pkg/poster"
)

func testDoc() poster.Document {
	return poster.Document{
		Title:  "a & b",
		Width:  100,
		Height: 80,
		Config: layout.DefaultConfig(),
		Icons: []poster.Icon{
			{Cell: grid.Cell{Row: 0, Col: 0}, Center: geom.Point{X: 40, Y: -30}, Label: "iron <ore>", Color: "#cc0000", Background: "#ffb3b3"},
		},
		Wires: []poster.Wire{
			{ID: "x", Color: "#cc0000", Points: []geom.Point{{X: 40, Y: -62}, {X: 40, Y: -70}, {X: 60, Y: -70}}},
			{ID: "lonely", Color: "#000000", Points: []geom.Point{{X: 1, Y: -1}}},
		},
	}
}

func TestRenderIsWellFormed(t *testing.T) {
	out := Render(testDoc(), WithLabels(), WithBackground("white"), WithInteraction())
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderContent(t *testing.T) {
	out := string(Render(testDoc(), WithLabels(), WithLineWidth(3)))

	for _, want := range []string{
		`viewBox="0 0 100.0 80.0"`,
		`<title>a &amp; b</title>`,
		`d="M40.00,62.00 L40.00,70.00 L60.00,70.00"`,
		`stroke-width="3.00"`,
		`id="icon-0-0"`,
		`x="8.00" y="-2.00"`,
		`iron &lt;ore&gt;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `data-id="lonely"`) {
		t.Error("single-point wire was drawn")
	}
	if strings.Contains(out, "<script") {
		t.Error("script embedded without WithInteraction")
	}
}

func TestRenderWithoutLabels(t *testing.T) {
	out := string(Render(testDoc()))
	if strings.Contains(out, "icon-label") {
		t.Error("labels drawn without WithLabels")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("plate", 64); got != "plate" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("reinforced iron plate", 64); got != "reinforc.." {
		t.Errorf("truncate(long) = %q", got)
	}
}
