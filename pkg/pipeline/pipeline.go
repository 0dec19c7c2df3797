// Package pipeline runs the decode → route → render pipeline for gridwire.
//
// The CLI and the HTTP server both go through a [Runner], so caching,
// logging and validation behave the same at every entry point.
//
// # Stages
//
//  1. Decode: read and validate a connection sheet
//  2. Route: allocate channel slots and compute every wire's geometry
//  3. Render: draw the routed poster in the requested formats
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SheetPath: "factory.yaml",
//	    Formats:   []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Stages can also be run on their own:
//
//	doc, err := pipeline.Route(s, cfg)
//	artifacts, err := pipeline.Render(ctx, doc, cfg, opts)
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/poster"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"      // poster drawing
	FormatPNG      = "png"      // poster drawing, rasterized
	FormatPDF      = "pdf"      // poster drawing, print
	FormatJSON     = "json"     // routed poster document
	FormatDOT      = "dot"      // channel topology, Graphviz source
	FormatTopology = "topology" // channel topology, rendered SVG

	FormatTopologyPNG = "topology-png" // channel topology, rasterized
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatTopology: true,

	FormatTopologyPNG: true,
}

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. The sheet is either inline or read
// from SheetPath.
type Options struct {
	Sheet     *sheet.Sheet `json:"sheet,omitempty"`
	SheetPath string       `json:"-"`

	Formats  []string `json:"formats,omitempty"`
	Channels bool     `json:"channels,omitempty"` // draw topology through channel nodes
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cache reads

	// Runtime options (not serialized)
	Config *config.Config `json:"-"`
	Logger *log.Logger    `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID      string
	Sheet      *sheet.Sheet
	SheetHash  string
	Document   poster.Document
	LayoutHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Connections int
	Wires       int
	Rows, Cols  int
	DecodeTime  time.Duration
	RouteTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // routed document came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it twice has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Sheet == nil && o.SheetPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "sheet or sheet path is required")
	}
	if err := o.SetDefaults(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills the config, formats, scale and logger.
func (o *Options) SetDefaults() error {
	if o.Config == nil {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		o.Config = cfg
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutKeyOpts returns cache key options for routing.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	c := o.Config
	return cache.LayoutKeyOpts{
		IconSize:           c.Icon.Size,
		IconBorder:         c.Icon.Border,
		ChannelGap:         c.Connection.Gap,
		ChannelGapToIcon:   c.Connection.Gap2Icon,
		ChannelGapToBorder: c.Connection.Gap2Border,
		Strategies:         strategyKey(c.Connection),
		RoundRadius:        c.Round.Radius,
		RoundMinScale:      c.Round.MinScale,
		RoundPoints:        c.Round.Points,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	r := o.Config.Render
	return cache.ArtifactKeyOpts{
		Format:     format,
		Labels:     r.Labels,
		Background: r.Background,
		LineWidth:  r.LineWidth,
		FontFamily: r.FontFamily,
		Channels:   o.Channels,
		Scale:      o.Scale,
	}
}

// strategyKey flattens the strategy settings to "default;kind=name;...".
func strategyKey(c config.ConnectionConfig) string {
	parts := []string{c.Strategy}
	for _, k := range slices.Sorted(maps.Keys(c.Strategies)) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, c.Strategies[k]))
	}
	return strings.Join(parts, ";")
}

