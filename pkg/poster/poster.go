package poster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/gridwire/pkg/core/channel"
	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/core/layout"
	"github.com/matzehuels/gridwire/pkg/core/round"
	"github.com/matzehuels/gridwire/pkg/core/route"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// =============================================================================
// Document - Serialized Poster Layout
// =============================================================================

// Document is a fully routed poster.
type Document struct {
	Title      string             `json:"title,omitempty"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Rows       int                `json:"rows"`
	Cols       int                `json:"cols"`
	Config     layout.Config      `json:"config"`
	Capacities channel.Capacities `json:"capacities"`
	Icons      []Icon             `json:"icons"`
	Wires      []Wire             `json:"wires"`
	Channels   []Channel          `json:"channels,omitempty"`
}

// Icon is one drawn grid cell.
type Icon struct {
	Cell       grid.Cell  `json:"cell"`
	Center     geom.Point `json:"center"`
	Label      string     `json:"label,omitempty"`
	Color      string     `json:"color"`
	Background string     `json:"background"`
}

// Wire is one routed connection instance.
type Wire struct {
	ID     string        `json:"id"`
	Label  string        `json:"label,omitempty"`
	Color  string        `json:"color"`
	Route  grid.Route    `json:"route"`
	Hops   []string      `json:"hops"`
	Path   geom.Polyline `json:"path"`
	Points []geom.Point  `json:"points"`
}

// Channel is the slot order of one channel instance.
type Channel struct {
	Key  string   `json:"key"`
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// =============================================================================
// Building
// =============================================================================

// Build routes every instance of r and decorates it with the labels and
// colours of s. A nil rounder leaves the staircases unsmoothed.
func Build(r *route.Router, s *sheet.Sheet, rd *round.Rounder) (Document, error) {
	w, h := r.Size()
	doc := Document{
		Title:      s.Title,
		Width:      w,
		Height:     h,
		Rows:       r.Rows(),
		Cols:       r.Cols(),
		Config:     r.Layout().Config(),
		Capacities: r.Capacities(),
	}

	colors := assignColors(s)

	for _, in := range r.Instances() {
		line, err := r.Connect(in.Route, in.ID)
		if err != nil {
			return Document{}, fmt.Errorf("connect %s %s: %w", in.ID, in.Route, err)
		}
		pts, err := line.Points()
		if err != nil {
			return Document{}, err
		}
		if rd != nil {
			pts = rd.Round(pts)
		}
		keys, err := r.Path(in.Route)
		if err != nil {
			return Document{}, err
		}
		hops := make([]string, len(keys))
		for i, k := range keys {
			hops[i] = k.String()
		}
		conn, _ := s.Connection(in.ID)
		doc.Wires = append(doc.Wires, Wire{
			ID:     in.ID,
			Label:  conn.Label,
			Color:  colors[in.ID],
			Route:  in.Route,
			Hops:   hops,
			Path:   line,
			Points: pts,
		})
	}

	icons, err := buildIcons(r, s, colors)
	if err != nil {
		return Document{}, err
	}
	doc.Icons = icons

	for _, a := range r.Channels() {
		doc.Channels = append(doc.Channels, Channel{Key: a.Key.String(), Kind: a.Key.Kind.String(), IDs: a.IDs})
	}
	return doc, nil
}

// buildIcons emits one icon per listed or connected cell, row-major.
func buildIcons(r *route.Router, s *sheet.Sheet, colors map[string]string) ([]Icon, error) {
	base := make(map[grid.Cell]string)
	var cells []grid.Cell
	for _, ci := range s.Cells {
		cells = append(cells, ci.Cell())
		if ci.Color != "" {
			base[ci.Cell()] = ci.Color
		}
	}
	for _, c := range s.Connections {
		for _, cell := range c.From {
			if _, ok := base[cell]; !ok {
				base[cell] = colors[c.ID]
			}
		}
		cells = append(cells, c.From...)
		cells = append(cells, c.To...)
	}

	cells = grid.Unique(cells)
	icons := make([]Icon, 0, len(cells))
	for _, cell := range cells {
		p, err := r.Icon(cell)
		if err != nil {
			return nil, err
		}
		color, ok := base[cell]
		if !ok {
			color = neutralColor
		}
		bg, err := Background(color)
		if err != nil {
			return nil, err
		}
		ci, _ := s.CellInfo(cell)
		icons = append(icons, Icon{
			Cell:       cell,
			Center:     p,
			Label:      ci.Label,
			Color:      color,
			Background: bg,
		})
	}
	return icons, nil
}

// =============================================================================
// Serialization
// =============================================================================

// Validate checks the structural invariants of a decoded document.
func (d Document) Validate() error {
	if !(d.Width > 0 && d.Height > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "poster size must be positive, got %gx%g", d.Width, d.Height)
	}
	for _, w := range d.Wires {
		if err := w.Path.Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "wire %s %s", w.ID, w.Route)
		}
	}
	return nil
}

// Marshal serializes a document to indented JSON.
func Marshal(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes and validates a document.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal poster")
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// WriteFile writes a document as JSON.
func WriteFile(d Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a document from JSON.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "poster %s", path)
	}
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
