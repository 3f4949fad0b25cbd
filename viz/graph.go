// ABOUTME: Pipeline graph generation using GraphViz
// ABOUTME: Renders creators grouped under their launch phase, colored by sales velocity
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

var velocityColors = map[string]string{
	models.VelocityHigh:    "palegreen",
	models.VelocityMedium:  "khaki",
	models.VelocityLow:     "lightcoral",
	models.VelocityPending: "lightgrey",
}

// GeneratePipelineGraph renders every creator attached to its phase node.
// Phases are chained in pipeline order.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context, format graphviz.Format) ([]byte, error) {
	creators, err := db.ListCreators(g.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Creator Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	summary := models.Summarize(creators)
	phaseNodes := make([]*cgraph.Node, len(models.Phases))
	for i, p := range summary.Phases {
		node, err := graph.CreateNodeByName(fmt.Sprintf("phase_%d", i))
		if err != nil {
			return nil, fmt.Errorf("failed to create phase node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d creator(s), $%.0f", p.Label, p.Creators, p.Revenue))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		phaseNodes[i] = node

		if i > 0 {
			if _, err := graph.CreateEdgeByName(fmt.Sprintf("phase_%d_%d", i-1, i), phaseNodes[i-1], node); err != nil {
				return nil, fmt.Errorf("failed to create phase edge: %w", err)
			}
		}
	}

	for _, c := range creators {
		if c.PhaseNumber < 0 || c.PhaseNumber >= len(phaseNodes) {
			continue
		}

		node, err := graph.CreateNodeByName(fmt.Sprintf("creator_%d", c.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to create creator node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d/%d (%d%%)", c.Name, c.CardsSold, c.TotalCards, c.ProgressPercentage()))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		color, ok := velocityColors[c.SalesVelocity]
		if !ok {
			color = "white"
		}
		node.SetFillColor(color)

		edge, err := graph.CreateEdgeByName(fmt.Sprintf("creator_%d_edge", c.ID), phaseNodes[c.PhaseNumber], node)
		if err != nil {
			return nil, fmt.Errorf("failed to create creator edge: %w", err)
		}
		if c.DaysInPhase > 0 {
			edge.SetLabel(fmt.Sprintf("%dd", c.DaysInPhase))
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.Bytes(), nil
}
