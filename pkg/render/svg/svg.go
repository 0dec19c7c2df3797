package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/poster"
)

const wireInteractionCSS = `
    .wire { transition: stroke-width 0.2s ease, opacity 0.2s ease; }
    svg.focus .wire { opacity: 0.25; }
    svg.focus .wire.highlight { opacity: 1; }
    .icon-label { pointer-events: none; }`

const wireInteractionJS = `
    const root = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg');
    function highlight(id) {
      root.classList.add('focus');
      root.querySelectorAll('.wire').forEach(w => w.classList.toggle('highlight', w.dataset.id === id));
    }
    function clearHighlight() {
      root.classList.remove('focus');
      root.querySelectorAll('.wire').forEach(w => w.classList.remove('highlight'));
    }
    root.querySelectorAll('.wire').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.id));
      el.addEventListener('mouseleave', clearHighlight);
    });`

const (
	defaultLineWidth  = 2.0
	defaultFontFamily = "sans-serif"
	iconCornerRatio   = 0.12
	labelSizeRatio    = 0.18
)

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	background  string
	lineWidth   float64
	fontFamily  string
	labels      bool
	interactive bool
}

// WithBackground fills the canvas with a colour.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithLineWidth sets the wire stroke width.
func WithLineWidth(w float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.lineWidth = w
		}
	}
}

// WithFontFamily sets the label font.
func WithFontFamily(f string) Option {
	return func(r *renderer) {
		if f != "" {
			r.fontFamily = f
		}
	}
}

// WithLabels draws icon labels.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithInteraction embeds the hover script.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// Render draws a document.
func Render(doc poster.Document, opts ...Option) []byte {
	r := renderer{lineWidth: defaultLineWidth, fontFamily: defaultFontFamily}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		doc.Width, doc.Height, doc.Width, doc.Height)
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(doc.Title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	size := doc.Config.IconSize
	buf.WriteString("  <g class=\"icons\">\n")
	for _, ic := range doc.Icons {
		renderIcon(&buf, ic, size)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"wires\" fill=\"none\" stroke-linecap=\"round\" stroke-linejoin=\"round\">\n")
	for _, w := range doc.Wires {
		renderWire(&buf, w, r.lineWidth)
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		fmt.Fprintf(&buf, "  <g class=\"labels\" font-family=\"%s\" font-size=\"%.1f\" text-anchor=\"middle\" dominant-baseline=\"central\">\n",
			escapeXML(r.fontFamily), size*labelSizeRatio)
		for _, ic := range doc.Icons {
			renderLabel(&buf, ic, size)
		}
		buf.WriteString("  </g>\n")
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", wireInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", wireInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderIcon(buf *bytes.Buffer, ic poster.Icon, size float64) {
	x, y := ic.Center.X-size/2, -ic.Center.Y-size/2
	fmt.Fprintf(buf, `    <rect class="icon" id="icon-%d-%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		ic.Cell.Row, ic.Cell.Col, x, y, size, size, size*iconCornerRatio, ic.Background, ic.Color)
}

func renderLabel(buf *bytes.Buffer, ic poster.Icon, size float64) {
	if ic.Label == "" {
		return
	}
	fmt.Fprintf(buf, `    <text class="icon-label" x="%.2f" y="%.2f">%s</text>`+"\n",
		ic.Center.X, -ic.Center.Y, escapeXML(truncate(ic.Label, size)))
}

func renderWire(buf *bytes.Buffer, w poster.Wire, width float64) {
	if len(w.Points) < 2 {
		return
	}
	fmt.Fprintf(buf, `    <path class="wire" data-id="%s" d="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		escapeXML(w.ID), pathData(w.Points), w.Color, width)
}

// pathData formats points as an SVG path with y flipped.
func pathData(pts []geom.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", p.X, -p.Y)
	}
	return sb.String()
}

// truncate shortens a label to what fits across one icon.
func truncate(label string, size float64) string {
	maxChars := max(3, int(size/(size*labelSizeRatio*0.55)))
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
