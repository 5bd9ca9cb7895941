package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pkoster/drawcell/pkg/mxml"
)

// inspectCommand creates the inspect command for examining .drawio files.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file.drawio]",
		Short: "Inspect the cells of a draw.io file",
		Long: `Inspect the cells of a draw.io file.

The inspect command parses interchange XML and prints the flat cell view:
identifier, kind, label, endpoints, and style. Files produced by other tools
are read as-is; attributes drawcell does not model are ignored for display
but never required.

Use --interactive (-i) to browse the cells in a scrollable list instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse cells interactively")

	return cmd
}

// runInspect reads the file and renders the cell table or the browser.
func (c *CLI) runInspect(path string, interactive bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cells, err := mxml.ExtractCells(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	if len(cells) == 0 {
		printError("No cells found in %s", path)
		return nil
	}

	if interactive {
		model := NewCellListModel(path, cells)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			return fmt.Errorf("run browser: %w", err)
		}
		return nil
	}

	printCellTable(path, cells)
	warnDanglingEndpoints(cells)
	return nil
}

// warnDanglingEndpoints flags connections whose source or target references
// no cell present in the file. Dangling endpoints are legal in the
// interchange format, so this is a warning rather than an error.
func warnDanglingEndpoints(cells []mxml.CellInfo) {
	known := make(map[string]bool, len(cells))
	for _, cell := range cells {
		known[cell.ID] = true
	}

	warned := false
	for _, cell := range cells {
		if !cell.Edge {
			continue
		}
		for _, ref := range []string{cell.Source, cell.Target} {
			if ref != "" && !known[ref] {
				if !warned {
					printNewline()
					warned = true
				}
				printWarning("connection %s references missing cell %s", StyleHighlight.Render(cell.ID), ref)
			}
		}
	}
}

// printCellTable prints the flat cell view as a lipgloss table.
func printCellTable(path string, cells []mxml.CellInfo) {
	fmt.Println(StyleTitle.Render(path))

	shapes, connections := 0, 0
	t := table.New().
		Headers("ID", "KIND", "LABEL", "ENDPOINTS", "STYLE")
	for _, cell := range cells {
		kind := "other"
		switch {
		case cell.Vertex:
			kind = styleShape.Render("shape")
			shapes++
		case cell.Edge:
			kind = styleConnection.Render("connection")
			connections++
		}

		endpoints := ""
		if cell.Source != "" || cell.Target != "" {
			endpoints = cell.Source + " " + iconArrow + " " + cell.Target
		}

		t.Row(cell.ID, kind, truncate(cell.Value, 30), endpoints, truncate(cell.Style, 40))
	}
	fmt.Println(t.Render())
	printStats(shapes, connections)
}

// truncate shortens s to max runes with an ellipsis. Newlines collapse to
// spaces so multi-line labels stay on one row.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
