package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/core/channel"
	"github.com/matzehuels/gridwire/pkg/errors"
	"github.com/matzehuels/gridwire/pkg/poster"
)

// channelsCommand creates the channels command, which prints the capacities
// and slot order of every occupied channel.
func (c *CLI) channelsCommand() *cobra.Command {
	var (
		kind    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "channels [sheet|layout.json]",
		Short: "Show channel capacities and slot allocations",
		Long: `Show channel capacities and slot allocations.

Every occupied channel is listed with its connections in slot order, slot 0
first. Use --kind to show one channel family (setout, from, trunk, gap,
meta, to, arrive).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "" {
				if _, ok := channel.ParseKind(kind); !ok {
					return errors.New(errors.ErrCodeInvalidInput, "unknown channel kind %q", kind)
				}
			}
			doc, err := c.loadDocument(cmd.Context(), args[0], noCache)
			if err != nil {
				return err
			}
			printCapacities(doc.Capacities)
			printNewline()
			fmt.Println(channelTable(filterChannels(doc.Channels, kind)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only show channels of this kind")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// loadDocument reads a stored layout, or routes a sheet when the input is
// not a layout file.
func (c *CLI) loadDocument(ctx context.Context, input string, noCache bool) (poster.Document, error) {
	if strings.HasSuffix(input, ".layout.json") {
		doc, err := poster.ReadFile(input)
		if err != nil {
			return poster.Document{}, fmt.Errorf("load layout %s: %w", input, err)
		}
		return doc, nil
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.SheetPath = input
	s, err := runner.Decode(ctx, opts)
	if err != nil {
		return poster.Document{}, fmt.Errorf("load sheet %s: %w", input, err)
	}
	doc, _, err := runner.RouteWithCacheInfo(ctx, s, opts)
	if err != nil {
		return poster.Document{}, fmt.Errorf("route %s: %w", input, err)
	}
	return doc, nil
}

func filterChannels(chs []poster.Channel, kind string) []poster.Channel {
	if kind == "" {
		return chs
	}
	var out []poster.Channel
	for _, ch := range chs {
		if ch.Kind == kind {
			out = append(out, ch)
		}
	}
	return out
}

// channelTable renders one row per channel: key, slot count, slot order.
func channelTable(chs []poster.Channel) string {
	rows := make([][]string, len(chs))
	for i, ch := range chs {
		rows[i] = []string{ch.Key, fmt.Sprint(len(ch.IDs)), strings.Join(ch.IDs, " ")}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Channel", "Slots", "Order").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 1:
				return StyleNumber.Align(lipgloss.Right)
			case col == 0:
				return styleChannelKey(rows[row][0])
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}
