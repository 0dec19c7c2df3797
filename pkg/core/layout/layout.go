package layout

import (
	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Config holds the physical spacing parameters, in poster units.
type Config struct {
	IconSize           float64 `json:"icon_size"`             // icon edge length
	IconBorder         float64 `json:"icon_border"`           // first/last icon row to poster edge
	ChannelGap         float64 `json:"channel_gap"`           // pitch of parallel lines
	ChannelGapToIcon   float64 `json:"channel_gap_to_icon"`   // extra clearance between lines and icons
	ChannelGapToBorder float64 `json:"channel_gap_to_border"` // extra clearance between lines and the poster edge
}

// DefaultConfig returns the spacing used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		IconSize:           64,
		IconBorder:         32,
		ChannelGap:         6,
		ChannelGapToIcon:   8,
		ChannelGapToBorder: 16,
	}
}

// Validate requires every parameter to be positive.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"icon size", c.IconSize},
		{"icon border", c.IconBorder},
		{"channel gap", c.ChannelGap},
		{"channel gap to icon", c.ChannelGapToIcon},
		{"channel gap to border", c.ChannelGapToBorder},
	} {
		if !(f.v > 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", f.name, f.v)
		}
	}
	return nil
}

// Capacities are the bundle widths, in lines.
type Capacities struct {
	Gap   int `json:"gap"`   // clusters between columns
	Inner int `json:"inner"` // row buses
	Left  int `json:"left"`  // cluster left of the grid
	Right int `json:"right"` // cluster right of the grid
}

// Layout is the immutable geometry of one poster.
type Layout struct {
	rows, cols int
	caps       Capacities
	cfg        Config

	origin geom.Point // centre of icon (0,0)
	step   geom.Point // centre-to-centre pitch; Y is negative
	offset float64    // icon centre to the first line of its bundle
}

// New computes the geometry of a rows × cols grid.
func New(rows, cols int, caps Capacities, cfg Config) (*Layout, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid must have at least one row and one column, got %d×%d", rows, cols)
	}
	if caps.Gap < 0 || caps.Inner < 0 || caps.Left < 0 || caps.Right < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "capacities must be non-negative, got %+v", caps)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	size, gap, g2i := cfg.IconSize, cfg.ChannelGap, cfg.ChannelGapToIcon
	return &Layout{
		rows: rows,
		cols: cols,
		caps: caps,
		cfg:  cfg,
		origin: geom.Point{
			X: cfg.ChannelGapToBorder + gap*float64(caps.Left) + g2i + size/2,
			Y: -(cfg.IconBorder + size/2),
		},
		step: geom.Point{
			X: size + float64(caps.Gap)*gap + 2*g2i,
			Y: -(size + float64(caps.Inner)*gap + 2*g2i),
		},
		offset: g2i + (size+gap)/2,
	}, nil
}

// Rows returns the number of icon rows.
func (l *Layout) Rows() int { return l.rows }

// Cols returns the number of icon columns.
func (l *Layout) Cols() int { return l.cols }

// Capacities returns the bundle widths the layout was built with.
func (l *Layout) Capacities() Capacities { return l.caps }

// Config returns the spacing parameters.
func (l *Layout) Config() Config { return l.cfg }

// Icon returns the centre of the icon at c.
func (l *Layout) Icon(c grid.Cell) (geom.Point, error) {
	if c.Row < 0 || c.Row >= l.rows {
		return geom.Point{}, errors.New(errors.ErrCodeOutOfRange, "row %d out of range [0, %d)", c.Row, l.rows)
	}
	if c.Col < 0 || c.Col >= l.cols {
		return geom.Point{}, errors.New(errors.ErrCodeOutOfRange, "column %d out of range [0, %d)", c.Col, l.cols)
	}
	return l.icon(c), nil
}

func (l *Layout) icon(c grid.Cell) geom.Point {
	return geom.Point{
		X: l.origin.X + float64(c.Col)*l.step.X,
		Y: l.origin.Y + float64(c.Row)*l.step.Y,
	}
}

// clusterAnchor is the x of the first line of a vertical cluster.
func (l *Layout) clusterAnchor(cluster int) float64 {
	switch {
	case cluster < 0:
		return l.cfg.ChannelGapToBorder + l.cfg.ChannelGap/2
	case cluster < l.cols:
		return l.icon(grid.Cell{Col: cluster}).X + l.offset
	default:
		return l.clusterAnchor(l.cols-1) + l.cfg.ChannelGap*float64(l.caps.Gap)
	}
}

func (l *Layout) clusterWidth(cluster int) int {
	switch {
	case cluster < 0:
		return l.caps.Left
	case cluster < l.cols:
		return l.caps.Gap
	default:
		return l.caps.Right
	}
}

// ClusterX returns the x of a line in a vertical cluster. Cluster -1 is left
// of the grid, cluster c in [0, cols) is right of column c and cluster cols
// is right of the grid.
func (l *Layout) ClusterX(cluster, slot int) (float64, error) {
	if cluster < -1 || cluster > l.cols {
		return 0, errors.New(errors.ErrCodeOutOfRange, "cluster %d out of range [-1, %d]", cluster, l.cols)
	}
	return l.clusterAnchor(cluster) + float64(wrap(slot, l.clusterWidth(cluster)))*l.cfg.ChannelGap, nil
}

// RowY returns the y of a line in the horizontal bus below icon row row.
// Slot 0 is closest to the row above; negative slots count from the bottom.
func (l *Layout) RowY(row, slot int) (float64, error) {
	if row < 0 || row >= l.rows {
		return 0, errors.New(errors.ErrCodeOutOfRange, "row %d out of range [0, %d)", row, l.rows)
	}
	anchor := l.icon(grid.Cell{Row: row}).Y - l.offset
	return anchor - float64(wrap(slot, l.caps.Inner))*l.cfg.ChannelGap, nil
}

// ConnectorOffset returns the x offset from the icon centre of line slot
// among n lines sharing one icon edge. The lines are centred on the icon.
func (l *Layout) ConnectorOffset(slot, n int) float64 {
	return l.cfg.ChannelGap * (float64(slot) - float64(n-1)/2)
}

// Exit returns the point where line slot of n leaves the bottom edge of the
// icon at c.
func (l *Layout) Exit(c grid.Cell, slot, n int) (geom.Point, error) {
	p, err := l.Icon(c)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: p.X + l.ConnectorOffset(slot, n), Y: p.Y - l.cfg.IconSize/2}, nil
}

// Entry returns the point where line slot of n enters the top edge of the
// icon at c.
func (l *Layout) Entry(c grid.Cell, slot, n int) (geom.Point, error) {
	p, err := l.Icon(c)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: p.X + l.ConnectorOffset(slot, n), Y: p.Y + l.cfg.IconSize/2}, nil
}

// Size returns the poster width and height. The edge lies half a gap plus
// the border clearance past the last line of the right cluster and of the
// bottom bus. An empty bundle is measured from its anchor, as if it held one
// line.
func (l *Layout) Size() (w, h float64) {
	gap := l.cfg.ChannelGap
	right := l.clusterAnchor(l.cols) + float64(max(l.caps.Right-1, 0))*gap
	bottom := l.icon(grid.Cell{Row: l.rows - 1}).Y - l.offset - float64(max(l.caps.Inner-1, 0))*gap
	pad := gap/2 + l.cfg.ChannelGapToBorder
	return right + pad, -bottom + pad
}

// wrap reduces slot into [0, n). With n == 0 there is nothing to wrap
// around and the slot is returned unchanged.
func wrap(slot, n int) int {
	if n <= 0 {
		return slot
	}
	m := slot % n
	if m < 0 {
		m += n
	}
	return m
}
