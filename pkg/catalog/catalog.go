// Package catalog imports item/recipe catalogs into connection sheets.
//
// A catalog is the JSON export of a factory game's data tables:
//
//	{
//	  "items":   [{"ID": 1001, "Type": 1, "Name": "Iron Ore", "GridIndex": 1101, "IconName": "iron-ore"}],
//	  "recipes": [{"ID": 1, "Type": 1, "Name": "Iron Ingot", "Items": [1001], "ItemCounts": [1],
//	               "Results": [1101], "ResultCounts": [1], "TimeSpend": 60, "IconName": "iron-plate"}]
//	}
//
// Every item sits at the grid cell encoded by its GridIndex (row*100 + col).
// [Catalog.Sheet] turns each item consumed by some recipe into one
// connection from the item's cell to the cells of everything made from it.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// Item is one catalog entry with a fixed grid position.
type Item struct {
	ID        int    `json:"ID"`
	Type      int    `json:"Type"`
	Name      string `json:"Name"`
	GridIndex int    `json:"GridIndex"`
	IconName  string `json:"IconName"`
}

// Cell decodes the GridIndex.
func (it Item) Cell() grid.Cell {
	return grid.Cell{Row: it.GridIndex / 100, Col: it.GridIndex % 100}
}

// Recipe turns input items into result items.
type Recipe struct {
	ID           int     `json:"ID"`
	Type         int     `json:"Type"`
	Name         string  `json:"Name"`
	Items        []int   `json:"Items"`
	ItemCounts   []int   `json:"ItemCounts"`
	Results      []int   `json:"Results"`
	ResultCounts []int   `json:"ResultCounts"`
	TimeSpend    float64 `json:"TimeSpend"`
	IconName     string  `json:"IconName"`
}

// Catalog holds every item and recipe.
type Catalog struct {
	Items   []Item   `json:"items"`
	Recipes []Recipe `json:"recipes"`

	byID map[int]Item
}

// Read decodes a catalog and checks that recipes only reference known items.
func Read(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode catalog")
	}
	c.byID = make(map[int]Item, len(c.Items))
	for _, it := range c.Items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate item id %d", it.ID)
		}
		if it.GridIndex < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "item %d has negative grid index %d", it.ID, it.GridIndex)
		}
		c.byID[it.ID] = it
	}
	for _, rc := range c.Recipes {
		if len(rc.Items) != len(rc.ItemCounts) || len(rc.Results) != len(rc.ResultCounts) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "recipe %d: item and count lists differ in length", rc.ID)
		}
		for _, id := range slices.Concat(rc.Items, rc.Results) {
			if _, ok := c.byID[id]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "recipe %d references unknown item %d", rc.ID, id)
			}
		}
	}
	return &c, nil
}

// ReadFile reads a catalog from disk.
func ReadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Item looks up an item by id.
func (c *Catalog) Item(id int) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Skipped records an arrival the sheet could not route.
type Skipped struct {
	Item   int
	Cell   grid.Cell
	Reason string
}

// Options selects the recipes that become connections.
type Options struct {
	// Types keeps only recipes of these types. Empty keeps all.
	Types []int
	// Title is copied to the sheet.
	Title string
}

// Sheet builds one connection per consumed item. Arrivals in the first grid
// row cannot be routed and are reported in skipped; a connection that loses
// all its arrivals is dropped.
func (c *Catalog) Sheet(opts Options) (*sheet.Sheet, []Skipped) {
	targets := make(map[int]map[int]bool) // input item -> result items
	for _, rc := range c.Recipes {
		if len(opts.Types) > 0 && !slices.Contains(opts.Types, rc.Type) {
			continue
		}
		for _, in := range rc.Items {
			if targets[in] == nil {
				targets[in] = make(map[int]bool)
			}
			for _, out := range rc.Results {
				targets[in][out] = true
			}
		}
	}

	s := &sheet.Sheet{Title: opts.Title}
	used := make(map[int]bool)
	var skipped []Skipped

	for _, in := range sortedKeys(targets) {
		src := c.byID[in]
		var to []grid.Cell
		for _, out := range sortedKeys(targets[in]) {
			dst := c.byID[out].Cell()
			if dst.Row == 0 {
				skipped = append(skipped, Skipped{Item: out, Cell: dst, Reason: "arrival in first row"})
				continue
			}
			to = append(to, dst)
			used[out] = true
		}
		if len(to) == 0 {
			continue
		}
		used[in] = true
		s.Connections = append(s.Connections, sheet.Connection{
			ID:    "item-" + strconv.Itoa(in),
			Label: src.Name,
			From:  []grid.Cell{src.Cell()},
			To:    grid.Unique(to),
		})
	}

	for _, id := range sortedKeys(used) {
		it := c.byID[id]
		s.Cells = append(s.Cells, sheet.CellInfo{Row: it.Cell().Row, Col: it.Cell().Col, Label: it.Name})
	}
	slices.SortFunc(s.Cells, func(a, b sheet.CellInfo) int { return a.Cell().Compare(b.Cell()) })
	s.Cells = slices.CompactFunc(s.Cells, func(a, b sheet.CellInfo) bool { return a.Cell() == b.Cell() })
	return s, skipped
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
