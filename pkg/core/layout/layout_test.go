package layout

import (
	"testing"

	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

var testConfig = Config{
	IconSize:           10,
	IconBorder:         5,
	ChannelGap:         2,
	ChannelGapToIcon:   1,
	ChannelGapToBorder: 3,
}

func newTestLayout(t *testing.T) *Layout {
	t.Helper()
	l, err := New(2, 2, Capacities{Gap: 2, Inner: 3, Left: 1, Right: 2}, testConfig)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestIcon(t *testing.T) {
	l := newTestLayout(t)

	tests := []struct {
		cell grid.Cell
		want geom.Point
	}{
		{grid.Cell{Row: 0, Col: 0}, geom.Point{X: 11, Y: -10}},
		{grid.Cell{Row: 0, Col: 1}, geom.Point{X: 27, Y: -10}},
		{grid.Cell{Row: 1, Col: 1}, geom.Point{X: 27, Y: -28}},
	}
	for _, tt := range tests {
		got, err := l.Icon(tt.cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Icon(%s) = %v, want %v", tt.cell, got, tt.want)
		}
	}

	for _, bad := range []grid.Cell{{Row: 2, Col: 0}, {Row: 0, Col: -1}} {
		if _, err := l.Icon(bad); !errors.Is(err, errors.ErrCodeOutOfRange) {
			t.Errorf("Icon(%s) error = %v, want OUT_OF_RANGE", bad, err)
		}
	}
}

func TestIconMonotonic(t *testing.T) {
	l, err := New(4, 5, Capacities{Gap: 3, Inner: 7, Left: 2, Right: 1}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for r := range 4 {
		for c := range 5 {
			p, _ := l.Icon(grid.Cell{Row: r, Col: c})
			if c > 0 {
				left, _ := l.Icon(grid.Cell{Row: r, Col: c - 1})
				if p.X <= left.X {
					t.Errorf("Icon(%d,%d).X = %g not right of column %d", r, c, p.X, c-1)
				}
			}
			if r > 0 {
				up, _ := l.Icon(grid.Cell{Row: r - 1, Col: c})
				if p.Y >= up.Y {
					t.Errorf("Icon(%d,%d).Y = %g not below row %d", r, c, p.Y, r-1)
				}
			}
		}
	}
}

func TestClusterX(t *testing.T) {
	l := newTestLayout(t)

	tests := []struct {
		cluster, slot int
		want          float64
	}{
		{-1, 0, 4},
		{-1, 5, 4}, // width 1 wraps everything onto the anchor
		{0, 0, 18},
		{0, 1, 20},
		{0, 2, 18},
		{0, -1, 20},
		{1, 0, 34},
		{2, 0, 38},
		{2, -1, 40},
	}
	for _, tt := range tests {
		got, err := l.ClusterX(tt.cluster, tt.slot)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ClusterX(%d, %d) = %g, want %g", tt.cluster, tt.slot, got, tt.want)
		}
	}

	for _, bad := range []int{-2, 3} {
		if _, err := l.ClusterX(bad, 0); !errors.Is(err, errors.ErrCodeOutOfRange) {
			t.Errorf("ClusterX(%d) error = %v, want OUT_OF_RANGE", bad, err)
		}
	}
}

func TestClusterXEmptyBundle(t *testing.T) {
	l, err := New(1, 1, Capacities{}, testConfig)
	if err != nil {
		t.Fatal(err)
	}
	anchor, _ := l.ClusterX(1, 0)
	before, _ := l.ClusterX(1, -1)
	if before != anchor-testConfig.ChannelGap {
		t.Errorf("ClusterX(1, -1) = %g, want %g", before, anchor-testConfig.ChannelGap)
	}
}

func TestRowY(t *testing.T) {
	l := newTestLayout(t)

	tests := []struct {
		row, slot int
		want      float64
	}{
		{0, 0, -17},
		{0, 1, -19},
		{0, -1, -21},
		{0, 3, -17},
		{1, -1, -39},
	}
	for _, tt := range tests {
		got, err := l.RowY(tt.row, tt.slot)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("RowY(%d, %d) = %g, want %g", tt.row, tt.slot, got, tt.want)
		}
	}

	if _, err := l.RowY(2, 0); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("RowY(2) error = %v, want OUT_OF_RANGE", err)
	}
}

func TestRowBusBetweenIcons(t *testing.T) {
	l := newTestLayout(t)
	top, _ := l.Icon(grid.Cell{Row: 0, Col: 0})
	bottom, _ := l.Icon(grid.Cell{Row: 1, Col: 0})
	for slot := range 3 {
		y, _ := l.RowY(0, slot)
		if y >= top.Y-testConfig.IconSize/2 || y <= bottom.Y+testConfig.IconSize/2 {
			t.Errorf("RowY(0, %d) = %g is not between the icon rows", slot, y)
		}
	}
}

func TestConnectors(t *testing.T) {
	l := newTestLayout(t)

	offsets := []struct {
		slot, n int
		want    float64
	}{
		{0, 1, 0},
		{0, 2, -1},
		{1, 2, 1},
		{2, 3, 2},
	}
	for _, tt := range offsets {
		if got := l.ConnectorOffset(tt.slot, tt.n); got != tt.want {
			t.Errorf("ConnectorOffset(%d, %d) = %g, want %g", tt.slot, tt.n, got, tt.want)
		}
	}

	exit, err := l.Exit(grid.Cell{Row: 0, Col: 0}, 0, 1)
	if err != nil || exit != (geom.Point{X: 11, Y: -15}) {
		t.Errorf("Exit() = %v, %v", exit, err)
	}
	entry, err := l.Entry(grid.Cell{Row: 1, Col: 0}, 1, 2)
	if err != nil || entry != (geom.Point{X: 12, Y: -23}) {
		t.Errorf("Entry() = %v, %v", entry, err)
	}
}

func TestSize(t *testing.T) {
	l := newTestLayout(t)
	w, h := l.Size()
	if w != 44 || h != 43 {
		t.Errorf("Size() = (%g, %g), want (44, 43)", w, h)
	}
}

func TestSizeEmptyBundles(t *testing.T) {
	empty, err := New(1, 1, Capacities{}, testConfig)
	if err != nil {
		t.Fatal(err)
	}
	one, err := New(1, 1, Capacities{Inner: 1, Right: 1}, testConfig)
	if err != nil {
		t.Fatal(err)
	}

	w, h := empty.Size()
	if w != 20 || h != 21 {
		t.Errorf("Size() = (%g, %g), want (20, 21)", w, h)
	}
	if w1, h1 := one.Size(); w1 != w || h1 != h {
		t.Errorf("Size() with one line = (%g, %g), want (%g, %g) as for an empty bundle", w1, h1, w, h)
	}

	// The bottom edge clears the first bus line by half a gap plus the
	// border clearance.
	anchor, _ := empty.RowY(0, 0)
	if want := -anchor + testConfig.ChannelGap/2 + testConfig.ChannelGapToBorder; h != want {
		t.Errorf("Size() height = %g, want %g", h, want)
	}
}

func TestNewValidation(t *testing.T) {
	bad := testConfig
	bad.ChannelGap = 0

	tests := []struct {
		name       string
		rows, cols int
		caps       Capacities
		cfg        Config
		code       errors.Code
	}{
		{"empty grid", 0, 1, Capacities{}, testConfig, errors.ErrCodeInvalidInput},
		{"negative capacity", 1, 1, Capacities{Gap: -1}, testConfig, errors.ErrCodeInvalidInput},
		{"zero gap", 1, 1, Capacities{}, bad, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.rows, tt.cols, tt.caps, tt.cfg); !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %s", err, tt.code)
			}
		})
	}
}
