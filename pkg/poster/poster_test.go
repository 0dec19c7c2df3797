package poster

import (
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/core/layout"
	"github.com/matzehuels/gridwire/pkg/core/round"
	"github.com/matzehuels/gridwire/pkg/core/route"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

func testSheet() *sheet.Sheet {
	return &sheet.Sheet{
		Title: "smelting",
		Cells: []sheet.CellInfo{
			{Row: 0, Col: 0, Label: "ore"},
			{Row: 1, Col: 1, Label: "plate", Color: "#204080"},
		},
		Connections: []sheet.Connection{
			{ID: "X", Label: "iron", Color: "#c00", From: []grid.Cell{{Row: 0, Col: 0}}, To: []grid.Cell{{Row: 1, Col: 1}}},
			{ID: "Y", From: []grid.Cell{{Row: 0, Col: 0}}, To: []grid.Cell{{Row: 1, Col: 0}}},
		},
	}
}

func buildDoc(t *testing.T, s *sheet.Sheet, rd *round.Rounder) Document {
	t.Helper()
	r, err := route.New(s.Grid(), layout.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Build(r, s, rd)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestBuild(t *testing.T) {
	doc := buildDoc(t, testSheet(), nil)

	if doc.Title != "smelting" || doc.Rows != 2 || doc.Cols != 2 {
		t.Errorf("header = %q %dx%d", doc.Title, doc.Rows, doc.Cols)
	}
	if len(doc.Wires) != 2 {
		t.Fatalf("len(Wires) = %d, want 2", len(doc.Wires))
	}
	x := doc.Wires[0]
	if x.ID != "X" || x.Label != "iron" || x.Color != "#cc0000" {
		t.Errorf("wire X = %+v", x)
	}
	if len(x.Points) != 4 {
		t.Errorf("unrounded wire has %d points, want 4", len(x.Points))
	}
	if doc.Wires[1].Color == "" || doc.Wires[1].Color == x.Color {
		t.Errorf("wire Y colour = %q", doc.Wires[1].Color)
	}

	// (0,0), (1,0), (1,1)
	if len(doc.Icons) != 3 {
		t.Fatalf("len(Icons) = %d, want 3", len(doc.Icons))
	}
	ore := doc.Icons[0]
	if ore.Label != "ore" || ore.Color != "#cc0000" {
		t.Errorf("icon (0,0) = %+v, want colour of first departing wire", ore)
	}
	if ore.Center.X != 56 || ore.Center.Y != -64 {
		t.Errorf("icon (0,0) centre = %s", ore.Center)
	}
	if doc.Icons[1].Color != neutralColor {
		t.Errorf("icon (1,0) colour = %q, want neutral", doc.Icons[1].Color)
	}
	if doc.Icons[2].Color != "#204080" {
		t.Errorf("icon (1,1) colour = %q", doc.Icons[2].Color)
	}
	if len(doc.Channels) == 0 {
		t.Error("no channels recorded")
	}
}

func TestBuildRounds(t *testing.T) {
	doc := buildDoc(t, testSheet(), round.Default())
	for _, w := range doc.Wires {
		if len(w.Points) <= 2*len(w.Path.Xs) {
			t.Errorf("wire %s was not rounded: %d points", w.ID, len(w.Points))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	doc := buildDoc(t, testSheet(), round.Default())
	path := filepath.Join(t.TempDir(), "poster.json")
	if err := WriteFile(doc, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != doc.Width || len(got.Wires) != len(doc.Wires) || len(got.Icons) != len(doc.Icons) {
		t.Errorf("ReadFile() = %+v", got)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"not json", `{`, errors.ErrCodeInvalidInput},
		{"zero size", `{"width":0,"height":10}`, errors.ErrCodeInvalidInput},
		{"bad path", `{"width":1,"height":1,"wires":[{"id":"a","path":{"xs":[1],"ys":[1]}}]}`, errors.ErrCodeMalformedPolyline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); !errors.Is(err, tt.code) {
				t.Errorf("Unmarshal() error = %v, want %s", err, tt.code)
			}
		})
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() missing error = %v", err)
	}
}

func TestBackground(t *testing.T) {
	for _, base := range []string{"#000000", "#ffffff", "#fff", "#204080", "#ff0000"} {
		got, err := Background(base)
		if err != nil {
			t.Fatalf("Background(%q): %v", base, err)
		}
		c, err := colorful.Hex(got)
		if err != nil {
			t.Fatal(err)
		}
		_, s, v := c.Hsv()
		if s < 0.29 || s > 0.91 || v < 0.49 {
			t.Errorf("Background(%q) = %s has s=%.2f v=%.2f", base, got, s, v)
		}
	}
	if _, err := Background("teal"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Background(teal) error = %v", err)
	}
}

func TestPaletteColorDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := range 16 {
		c := PaletteColor(i)
		if seen[c] {
			t.Errorf("PaletteColor(%d) = %s repeats", i, c)
		}
		seen[c] = true
	}
}

func TestBuildHops(t *testing.T) {
	doc := buildDoc(t, testSheet(), nil)
	want := []string{"setout(0,0)", "to[1]", "arrive(1,1)"}
	got := doc.Wires[0].Hops
	if len(got) != len(want) {
		t.Fatalf("Hops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hops[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
