package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gridwire/pkg/poster"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive wire browser
// =============================================================================

// BrowseModel is the bubbletea model for stepping through the wires of a
// routed poster and the slot each one holds in every channel it crosses.
type BrowseModel struct {
	Wires    []poster.Wire
	Cursor   int
	Height   int
	Offset   int
	channels map[string]poster.Channel
}

// NewBrowseModel creates a browser over every wire of doc.
func NewBrowseModel(doc poster.Document) BrowseModel {
	channels := make(map[string]poster.Channel, len(doc.Channels))
	for _, ch := range doc.Channels {
		channels[ch.Key] = ch
	}
	return BrowseModel{
		Wires:    doc.Wires,
		Height:   12,
		channels: channels,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Wires))
		case "end", "G":
			m.move(len(m.Wires))
		}
	case tea.WindowSizeMsg:
		// the detail panel needs roughly a dozen lines below the list
		m.Height = max(msg.Height-20, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by d, clamped, keeping it inside the window.
func (m *BrowseModel) move(d int) {
	if len(m.Wires) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+d, 0), len(m.Wires)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Slot returns the slot of wire w in the channel with the given key and
// that channel's slot count.
func (m BrowseModel) Slot(w poster.Wire, key string) (slot, count int, ok bool) {
	ch, found := m.channels[key]
	if !found {
		return 0, 0, false
	}
	i := slices.Index(ch.IDs, w.ID)
	return i, len(ch.IDs), i >= 0
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Wires"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Wires) == 0 {
		b.WriteString(listDimStyle.Render("  no wires"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Wires))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		w := m.Wires[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := w.Label
		if label == "" {
			label = "-"
		}
		rows = append(rows, []string{cursor, w.ID, w.Route.String(), label})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Connection", "Route", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Wires))))
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.Wires[m.Cursor]))

	return b.String()
}

// detail lists the channels of one wire with its slot in each.
func (m BrowseModel) detail(w poster.Wire) string {
	var b strings.Builder
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(w.Color)).Render("■")
	b.WriteString(fmt.Sprintf("%s %s  %s\n", swatch, listSelectedStyle.Render(w.ID), listDimStyle.Render(w.Route.String())))

	for _, hop := range w.Hops {
		slot, count, ok := m.Slot(w, hop)
		pos := listDimStyle.Render("-")
		if ok {
			pos = StyleNumber.Render(fmt.Sprintf("%d", slot)) + listDimStyle.Render(fmt.Sprintf("/%d", count))
		}
		b.WriteString("  " + styleChannelKey(hop).Width(15).Render(hop) + pos + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d points", len(w.Points))))
	return b.String()
}
