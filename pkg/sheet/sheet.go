package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Format is a sheet encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Sheet is one poster's worth of icons and connections.
type Sheet struct {
	Title       string       `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Rows        int          `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`
	Cols        int          `json:"cols,omitempty" yaml:"cols,omitempty" toml:"cols,omitempty"`
	Cells       []CellInfo   `json:"cells,omitempty" yaml:"cells,omitempty" toml:"cells,omitempty"`
	Connections []Connection `json:"connections" yaml:"connections" toml:"connections"`
}

// CellInfo describes the icon drawn at one grid cell.
type CellInfo struct {
	Row   int    `json:"row" yaml:"row" toml:"row"`
	Col   int    `json:"col" yaml:"col" toml:"col"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
}

// Cell returns the grid address of the icon.
func (c CellInfo) Cell() grid.Cell { return grid.Cell{Row: c.Row, Col: c.Col} }

// Connection is one connection id with its departure and arrival cells.
type Connection struct {
	ID    string      `json:"id" yaml:"id" toml:"id"`
	Label string      `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Color string      `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	From  []grid.Cell `json:"from" yaml:"from" toml:"from"`
	To    []grid.Cell `json:"to" yaml:"to" toml:"to"`
}

// =============================================================================
// Validation and Conversion
// =============================================================================

// Validate checks ids, colours and cell sets. Grid bounds are checked later
// by the router, which knows the final grid size.
func (s *Sheet) Validate() error {
	if len(s.Connections) == 0 && len(s.Cells) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sheet has no cells and no connections")
	}
	if s.Rows < 0 || s.Cols < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sheet size must be non-negative, got %d×%d", s.Rows, s.Cols)
	}

	seen := make(map[string]bool, len(s.Connections))
	for i, c := range s.Connections {
		if err := errors.ValidateConnectionID(c.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "connection #%d", i)
		}
		if seen[c.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate connection id %q", c.ID)
		}
		seen[c.ID] = true
		if len(c.From) == 0 || len(c.To) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "connection %q needs at least one from and one to cell", c.ID)
		}
		if err := errors.ValidateColor(c.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "connection %q", c.ID)
		}
	}

	cells := make(map[grid.Cell]bool, len(s.Cells))
	for _, c := range s.Cells {
		if c.Row < 0 || c.Col < 0 {
			return errors.New(errors.ErrCodeOutOfRange, "cell %s has a negative index", c.Cell())
		}
		if cells[c.Cell()] {
			return errors.New(errors.ErrCodeInvalidInput, "cell %s listed twice", c.Cell())
		}
		cells[c.Cell()] = true
		if err := errors.ValidateColor(c.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %s", c.Cell())
		}
	}
	return nil
}

// Grid converts the sheet into the routing engine's input.
func (s *Sheet) Grid() grid.Connections {
	out := make(grid.Connections, len(s.Connections))
	for _, c := range s.Connections {
		out[c.ID] = grid.Endpoints{
			Departures: slices.Clone(c.From),
			Arrivals:   slices.Clone(c.To),
		}
	}
	return out
}

// Size returns the explicit minimum grid size merged with the extent of the
// listed cells.
func (s *Sheet) Size() (rows, cols int) {
	rows, cols = s.Rows, s.Cols
	for _, c := range s.Cells {
		rows, cols = max(rows, c.Row+1), max(cols, c.Col+1)
	}
	return rows, cols
}

// Connection looks up a connection by id.
func (s *Sheet) Connection(id string) (Connection, bool) {
	i := slices.IndexFunc(s.Connections, func(c Connection) bool { return c.ID == id })
	if i < 0 {
		return Connection{}, false
	}
	return s.Connections[i], true
}

// CellInfo looks up the icon description of a cell.
func (s *Sheet) CellInfo(c grid.Cell) (CellInfo, bool) {
	i := slices.IndexFunc(s.Cells, func(ci CellInfo) bool { return ci.Cell() == c })
	if i < 0 {
		return CellInfo{Row: c.Row, Col: c.Col}, false
	}
	return s.Cells[i], true
}

// Hash returns a content hash of the sheet, stable across encodings.
func (s *Sheet) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}

// =============================================================================
// Encoding
// =============================================================================

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseFormat maps a format name to a Format. "yml" is an alias of "yaml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported sheet format %q (want json, yaml or toml)", name)
	}
}

// Decode reads a sheet in the given format and validates it.
func Decode(r io.Reader, f Format) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return Unmarshal(data, f)
}

// Unmarshal decodes and validates a sheet.
func Unmarshal(data []byte, f Format) (*Sheet, error) {
	var s Sheet
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
	case FormatTOML:
		_, err = toml.Decode(string(data), &s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sheet format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s sheet", f)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes a sheet.
func Marshal(s *Sheet, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sheet format %q", f)
	}
	return buf.Bytes(), nil
}

// ReadFile reads a sheet, picking the format from the extension.
func ReadFile(path string) (*Sheet, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "sheet %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteFile writes a sheet, picking the format from the extension.
func WriteFile(s *Sheet, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(s, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
