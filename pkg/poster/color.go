package poster

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

const neutralColor = "#8c96a0"

// goldenAngle spreads consecutive hues as far apart as possible.
const goldenAngle = 137.50776405003785

// PaletteColor returns the i-th automatic connection colour.
func PaletteColor(i int) string {
	h := math.Mod(float64(i)*goldenAngle, 360)
	return colorful.Hcl(h, 0.55, 0.6).Clamped().Hex()
}

// Background maps an icon's base colour to the colour of its backdrop.
func Background(base string) (string, error) {
	c, err := colorful.Hex(expandHex(base))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "colour %q", base)
	}
	h, s, v := c.Hsv()
	return colorful.Hsv(h, 0.6*s+0.3, 0.5*v+0.5).Clamped().Hex(), nil
}

// expandHex turns "#rgb" into "#rrggbb".
func expandHex(s string) string {
	if len(s) != 4 || s[0] != '#' {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

// assignColors picks the colour of every connection in id order.
func assignColors(s *sheet.Sheet) map[string]string {
	ids := s.Grid().IDs()
	out := make(map[string]string, len(ids))
	for i, id := range ids {
		c, _ := s.Connection(id)
		if c.Color != "" {
			out[id] = expandHex(c.Color)
		} else {
			out[id] = PaletteColor(i)
		}
	}
	return out
}
