package sheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

const yamlSheet = `
title: Smelting
cells:
  - {row: 0, col: 0, label: Iron Ore, color: "#8a6d5a"}
  - {row: 1, col: 0, label: Iron Ingot}
connections:
  - id: smelt-iron
    from: [{row: 0, col: 0}]
    to: [{row: 1, col: 0}]
`

const jsonSheet = `{
  "title": "Smelting",
  "cells": [
    {"row": 0, "col": 0, "label": "Iron Ore", "color": "#8a6d5a"},
    {"row": 1, "col": 0, "label": "Iron Ingot"}
  ],
  "connections": [
    {"id": "smelt-iron", "from": [{"row": 0, "col": 0}], "to": [{"row": 1, "col": 0}]}
  ]
}`

const tomlSheet = `
title = "Smelting"

[[cells]]
row = 0
col = 0
label = "Iron Ore"
color = "#8a6d5a"

[[cells]]
row = 1
col = 0
label = "Iron Ingot"

[[connections]]
id = "smelt-iron"
from = [{row = 0, col = 0}]
to = [{row = 1, col = 0}]
`

func TestUnmarshalFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatYAML, yamlSheet},
		{FormatJSON, jsonSheet},
		{FormatTOML, tomlSheet},
	}

	var hashes []string
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			s, err := Unmarshal([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if s.Title != "Smelting" || len(s.Cells) != 2 || len(s.Connections) != 1 {
				t.Fatalf("Unmarshal() = %+v", s)
			}
			c := s.Connections[0]
			if c.ID != "smelt-iron" || c.From[0] != (grid.Cell{Row: 0, Col: 0}) || c.To[0] != (grid.Cell{Row: 1, Col: 0}) {
				t.Errorf("connection = %+v", c)
			}
			hashes = append(hashes, s.Hash())
		})
	}
	for _, h := range hashes {
		if h != hashes[0] {
			t.Errorf("Hash() differs across formats: %v", hashes)
		}
	}
}

func TestValidate(t *testing.T) {
	cells := []grid.Cell{{Row: 0, Col: 0}}
	tests := []struct {
		name  string
		sheet Sheet
		want  errors.Code
	}{
		{"empty", Sheet{}, errors.ErrCodeInvalidInput},
		{"empty id", Sheet{Connections: []Connection{{From: cells, To: cells}}}, errors.ErrCodeInvalidInput},
		{"duplicate id", Sheet{Connections: []Connection{
			{ID: "a", From: cells, To: cells},
			{ID: "a", From: cells, To: cells},
		}}, errors.ErrCodeInvalidInput},
		{"no arrivals", Sheet{Connections: []Connection{{ID: "a", From: cells}}}, errors.ErrCodeInvalidInput},
		{"bad colour", Sheet{Connections: []Connection{{ID: "a", From: cells, To: cells, Color: "red"}}}, errors.ErrCodeInvalidInput},
		{"negative cell", Sheet{Cells: []CellInfo{{Row: -1}}}, errors.ErrCodeOutOfRange},
		{"duplicate cell", Sheet{Cells: []CellInfo{{Row: 1}, {Row: 1}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.sheet.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	_, err := Unmarshal([]byte(`{"connections": [], "cells": [{"row": 0, "col": 0}], "colour": 1}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Unmarshal() error = %v, want INVALID_INPUT", err)
	}
}

func TestGridAndSize(t *testing.T) {
	s, err := Unmarshal([]byte(yamlSheet), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	conns := s.Grid()
	if len(conns) != len(s.Connections) || len(conns["smelt-iron"].Arrivals) != 1 {
		t.Errorf("Grid() = %v", conns)
	}
	conns["smelt-iron"].Arrivals[0] = grid.Cell{Row: 9, Col: 9}
	if c, _ := s.Connection("smelt-iron"); c.To[0] == (grid.Cell{Row: 9, Col: 9}) {
		t.Error("Grid() shares cell slices with the sheet")
	}

	s.Rows, s.Cols = 1, 3
	if rows, cols := s.Size(); rows != 2 || cols != 3 {
		t.Errorf("Size() = (%d, %d), want (2, 3)", rows, cols)
	}
	if ci, ok := s.CellInfo(grid.Cell{Row: 1, Col: 0}); !ok || ci.Label != "Iron Ingot" {
		t.Errorf("CellInfo() = %+v, %v", ci, ok)
	}
	if _, ok := s.Connection("nope"); ok {
		t.Error("Connection() found an unknown id")
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"json": FormatJSON, "YML": FormatYAML, "yaml": FormatYAML, "toml": FormatTOML} {
		if got, err := ParseFormat(name); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Unmarshal([]byte(jsonSheet), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	for _, ext := range []string{".json", ".yaml", ".toml"} {
		path := filepath.Join(dir, "sheet"+ext)
		if err := WriteFile(s, path); err != nil {
			t.Fatalf("WriteFile(%s): %v", ext, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", ext, err)
		}
		if got.Hash() != s.Hash() {
			t.Errorf("%s round trip changed the sheet", ext)
		}
	}

	_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "broken.yaml")
	_ = os.WriteFile(bad, []byte("connections: ["), 0644)
	if _, err := ReadFile(bad); err == nil || !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("ReadFile(broken) error = %v, want path in message", err)
	}
}
