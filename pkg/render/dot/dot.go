package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/poster"
	"github.com/matzehuels/gridwire/pkg/render"
)

// Options configures topology rendering.
type Options struct {
	// Channels routes edges through channel nodes labelled with their slot
	// order. When false, wires connect icons directly.
	Channels bool
}

// ToDOT converts a document to Graphviz DOT source.
func ToDOT(doc poster.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	rows := make(map[int][]string)
	for _, ic := range doc.Icons {
		id := cellID(ic.Cell)
		rows[ic.Cell.Row] = append(rows[ic.Cell.Row], id)
		label := ic.Label
		if label == "" {
			label = ic.Cell.String()
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, color=%q];\n", id, label, ic.Background, ic.Color)
	}
	for r := range doc.Rows {
		if ids := rows[r]; len(ids) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s }\n", quoteAll(ids))
		}
	}

	buf.WriteString("\n")
	if opts.Channels {
		writeChannels(&buf, doc)
	} else {
		for _, w := range doc.Wires {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=%q];\n",
				cellID(w.Route.Departure), cellID(w.Route.Arrival), w.ID, w.Color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeChannels emits channel nodes and chains every wire through its hops.
// Consecutive wires sharing a hop pair are merged into one edge.
func writeChannels(buf *bytes.Buffer, doc poster.Document) {
	for _, ch := range doc.Channels {
		label := ch.Key + "\n" + strings.Join(ch.IDs, " ")
		fmt.Fprintf(buf, "  %q [label=%q, shape=ellipse, style=dashed];\n", channelID(ch.Key), label)
	}

	type edge struct{ from, to string }
	seen := make(map[edge]bool)
	for _, w := range doc.Wires {
		nodes := make([]string, 0, len(w.Hops)+2)
		nodes = append(nodes, cellID(w.Route.Departure))
		for _, h := range w.Hops {
			nodes = append(nodes, channelID(h))
		}
		nodes = append(nodes, cellID(w.Route.Arrival))
		for i := 1; i < len(nodes); i++ {
			e := edge{nodes[i-1], nodes[i]}
			if seen[e] {
				continue
			}
			seen[e] = true
			fmt.Fprintf(buf, "  %q -> %q [color=%q];\n", e.from, e.to, w.Color)
		}
	}
}

func cellID(c grid.Cell) string { return fmt.Sprintf("cell_%d_%d", c.Row, c.Col) }

func channelID(key string) string { return "ch_" + key }

func quoteAll(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = strconv.Quote(id)
	}
	return strings.Join(q, "; ") + ";"
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the result scales like the poster SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
