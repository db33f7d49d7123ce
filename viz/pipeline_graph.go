// ABOUTME: Graphviz rendering of the contact pipeline
// ABOUTME: One box per stage with its contacts hanging off it; overdue contacts are highlighted
package viz

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

var stageColors = map[models.Stage]string{
	models.StageLead:     "lightyellow",
	models.StageActive:   "lightgreen",
	models.StageWaiting:  "lightgrey",
	models.StageCustomer: "lightblue",
}

// GeneratePipelineGraph renders the pipeline as DOT text (graphviz.XDOT) or any other
// format go-graphviz supports, such as graphviz.SVG.
func GeneratePipelineGraph(ctx context.Context, contacts []models.Contact, now time.Time, format graphviz.Format) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Contact Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	stageNodes := make(map[models.Stage]*cgraph.Node)
	var prev *cgraph.Node
	for _, stage := range models.Stages {
		node, err := graph.CreateNodeByName("stage_" + string(stage))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(string(stage))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor(stageColors[stage])
		stageNodes[stage] = node

		// Chain the stages so they lay out in pipeline order
		if prev != nil {
			edge, err := graph.CreateEdgeByName("next_"+string(stage), prev, node)
			if err != nil {
				return "", fmt.Errorf("failed to create stage edge: %w", err)
			}
			edge.SetStyle("invis")
		}
		prev = node
	}

	for _, c := range crm.FilterAndSortContacts(contacts, "", crm.StageAll) {
		stageNode, ok := stageNodes[c.Stage]
		if !ok {
			continue
		}

		node, err := graph.CreateNodeByName("contact_" + c.ID)
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		label := c.Name
		if c.Company != "" {
			label += "\n" + c.Company
		}
		node.SetLabel(label)
		node.SetShape("ellipse")

		for _, t := range c.Tasks {
			if crm.IsOverdue(t, now) {
				node.SetStyle("filled")
				node.SetFillColor("salmon")
				break
			}
		}

		edge, err := graph.CreateEdgeByName("in_"+c.ID, stageNode, node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel(crm.FormatLastInteraction(c.LastInteraction, now))
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
