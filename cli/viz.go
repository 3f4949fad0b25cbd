// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the pipeline dashboard and pipeline graph generation
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"

	"github.com/harperreed/stacked/viz"
)

var graphFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
}

// VizGraphPipelineCommand renders the creator pipeline graph.
func VizGraphPipelineCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz graph", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	formatName := fs.String("format", "dot", "Output format: dot, svg, or png")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, ok := graphFormats[*formatName]
	if !ok {
		return fmt.Errorf("unknown format: %s (valid formats: dot, svg, png)", *formatName)
	}
	if format == graphviz.PNG && *output == "" {
		return fmt.Errorf("--output is required for png")
	}

	graph, err := viz.NewGraphGenerator(database).GeneratePipelineGraph(context.Background(), format)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, graph, 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		fmt.Printf("✓ Pipeline graph written to %s\n", *output)
		return nil
	}

	fmt.Println(string(graph))
	return nil
}

func VizDashboardCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := viz.GenerateDashboardStats(database)
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}
