package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/catalog"
	"github.com/matzehuels/gridwire/pkg/sheet"
)

// catalogCommand creates the catalog command, which converts an item and
// recipe catalog into a connection sheet.
func (c *CLI) catalogCommand() *cobra.Command {
	var (
		output string
		title  string
		types  []int
	)

	cmd := &cobra.Command{
		Use:   "catalog [catalog.json]",
		Short: "Convert an item/recipe catalog into a connection sheet",
		Long: `Convert an item/recipe catalog into a connection sheet.

Every item consumed by a recipe becomes one connection from the item's icon
to the icons of everything made from it. Items are placed by their
GridIndex (row*100 + col). Arrivals in the first row cannot be routed and
are reported and skipped.

The sheet format follows the output extension: .json, .yaml or .toml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCatalog(cmd.Context(), args[0], output, catalog.Options{Types: types, Title: title})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output sheet (default: <input>.sheet.yaml)")
	cmd.Flags().StringVar(&title, "title", "", "poster title")
	cmd.Flags().IntSliceVar(&types, "type", nil, "only use recipes of these types (repeatable)")

	return cmd
}

func (c *CLI) runCatalog(_ context.Context, input, output string, opts catalog.Options) error {
	prog := newProgress(c.Logger)

	cat, err := catalog.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", input, err)
	}
	c.Logger.Debug("read catalog", "items", len(cat.Items), "recipes", len(cat.Recipes))

	if opts.Title == "" {
		opts.Title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	s, skipped := cat.Sheet(opts)
	for _, sk := range skipped {
		name := fmt.Sprint(sk.Item)
		if it, ok := cat.Item(sk.Item); ok {
			name = it.Name
		}
		printWarning("skipped %s at %s: %s", name, sk.Cell, sk.Reason)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("catalog %s: %w", input, err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".sheet.yaml"
	}
	if err := sheet.WriteFile(s, outputPath); err != nil {
		return fmt.Errorf("write sheet %s: %w", outputPath, err)
	}
	prog.done(fmt.Sprintf("Imported %d connections", len(s.Connections)))

	printSuccess("Sheet written")
	printFile(outputPath)
	printDetail("%d connections · %d icons · %d skipped arrivals", len(s.Connections), len(s.Cells), len(skipped))
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)
	return nil
}
