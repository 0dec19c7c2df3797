package pipeline

import (
	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/core/route"
	"github.com/matzehuels/gridwire/pkg/poster"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// Route validates a sheet, allocates its channels and builds the routed
// document. The sheet's declared size is a lower bound on the grid.
func Route(s *sheet.Sheet, cfg *config.Config) (poster.Document, error) {
	if err := s.Validate(); err != nil {
		return poster.Document{}, err
	}
	opts, err := cfg.RouteOptions()
	if err != nil {
		return poster.Document{}, err
	}
	rows, cols := s.Size()
	opts = append(opts, route.WithMinSize(rows, cols))

	r, err := route.New(s.Grid(), cfg.Layout(), opts...)
	if err != nil {
		return poster.Document{}, err
	}
	rd, err := cfg.Rounder()
	if err != nil {
		return poster.Document{}, err
	}
	return poster.Build(r, s, rd)
}
