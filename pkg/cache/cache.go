// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer] so that every input that changes the output
// (sheet content, layout config, render options) lands in the key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(sheet.Hash(), cache.LayoutKeyOpts{IconSize: 64})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default lifetimes.
const (
	// TTLLayout is how long a routed poster stays cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys from pipeline inputs.
type Keyer interface {
	// LayoutKey identifies a routed poster.
	LayoutKey(sheetHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendering of a routed poster.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every setting that changes a routed poster.
type LayoutKeyOpts struct {
	IconSize           float64 `json:"icon_size"`
	IconBorder         float64 `json:"icon_border"`
	ChannelGap         float64 `json:"channel_gap"`
	ChannelGapToIcon   float64 `json:"channel_gap_to_icon"`
	ChannelGapToBorder float64 `json:"channel_gap_to_border"`
	Strategies         string  `json:"strategies"`
	RoundRadius        float64 `json:"round_radius"`
	RoundMinScale      float64 `json:"round_min_scale"`
	RoundPoints        int     `json:"round_points"`
}

// ArtifactKeyOpts holds every setting that changes a rendered file.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Labels     bool    `json:"labels"`
	Background string  `json:"background"`
	LineWidth  float64 `json:"line_width"`
	FontFamily string  `json:"font_family"`
	Channels   bool    `json:"channels"`
	Scale      float64 `json:"scale"`
}

// DefaultKeyer hashes the options into fixed-width keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(sheetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sheetHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
