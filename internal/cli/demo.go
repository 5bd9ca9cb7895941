package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/service"
)

// demoCommand creates the demo command that builds a sample diagram.
func (c *CLI) demoCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build a sample login flowchart and write it to a file",
		Long: `Build a sample login flowchart and write it to a file.

The demo exercises the whole document pipeline: shapes of several kinds,
labeled connections, and serialization to draw.io interchange XML. Open the
output in the draw.io desktop app, the VS Code extension, or
https://app.diagrams.net/ to see the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "login_flow.drawio", "output file")

	return cmd
}

// runDemo builds the login flowchart through the public document API.
func (c *CLI) runDemo(output string) error {
	prog := newProgress(c.Logger)

	doc, err := buildLoginFlow()
	if err != nil {
		return fmt.Errorf("build demo diagram: %w", err)
	}

	path, data, err := service.ExportDocument(doc, output)
	if err != nil {
		return fmt.Errorf("write demo diagram: %w", err)
	}
	prog.done(fmt.Sprintf("Wrote demo diagram (%d bytes)", len(data)))

	shapes, connections := 0, 0
	for _, cell := range doc.Cells() {
		if cell.IsShape() {
			shapes++
		} else {
			connections++
		}
	}

	printSuccess("Created %q", doc.Name())
	printStats(shapes, connections)
	printFile(path)
	printDetail("open it at https://app.diagrams.net/")
	return nil
}

// buildLoginFlow assembles the sample user login flowchart.
func buildLoginFlow() (*diagram.Document, error) {
	doc := diagram.New("User Login Flow")

	start, err := doc.AddShape(diagram.ShapeParams{
		Label: "Start", X: 200, Y: 50, Width: 100, Height: 40, Kind: diagram.ShapeEllipse,
	})
	if err != nil {
		return nil, err
	}
	input, err := doc.AddShape(diagram.ShapeParams{
		Label: "Enter Credentials", X: 150, Y: 130, Width: 200, Height: 60, Kind: diagram.ShapeParallelogram,
	})
	if err != nil {
		return nil, err
	}
	validate, err := doc.AddShape(diagram.ShapeParams{
		Label: "Validate\nCredentials?", X: 165, Y: 230, Width: 150, Height: 90, Kind: diagram.ShapeDiamond,
	})
	if err != nil {
		return nil, err
	}
	dashboard, err := doc.AddShape(diagram.ShapeParams{
		Label: "Go to\nDashboard", X: 320, Y: 360, Width: 120, Height: 60,
	})
	if err != nil {
		return nil, err
	}
	errMsg, err := doc.AddShape(diagram.ShapeParams{
		Label: "Show Error\nMessage", X: 20, Y: 360, Width: 120, Height: 60,
	})
	if err != nil {
		return nil, err
	}
	end, err := doc.AddShape(diagram.ShapeParams{
		Label: "End", X: 200, Y: 460, Width: 100, Height: 40, Kind: diagram.ShapeEllipse,
	})
	if err != nil {
		return nil, err
	}

	links := []diagram.ConnectionParams{
		{SourceID: start, TargetID: input},
		{SourceID: input, TargetID: validate},
		{SourceID: validate, TargetID: dashboard, Label: "Valid"},
		{SourceID: validate, TargetID: errMsg, Label: "Invalid"},
		{SourceID: dashboard, TargetID: end},
		{SourceID: errMsg, TargetID: end},
	}
	for _, link := range links {
		if _, err := doc.AddConnection(link); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
