// ABOUTME: Overview and visualization CLI commands
// ABOUTME: Prints the ASCII dashboard and renders the pipeline graph
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/viz"
)

// VizDashboardCommand prints the dashboard aggregates, upcoming tasks and anything overdue.
func VizDashboardCommand(session *crm.Session, upcomingLimit int, args []string) error {
	fs := flag.NewFlagSet("overview", flag.ExitOnError)
	_ = fs.Parse(args)

	stats := viz.GenerateDashboardStats(session.State().Contacts, session.Now(), upcomingLimit)
	_, _ = fmt.Fprint(stdout, viz.RenderDashboard(stats))
	return nil
}

// VizPipelineCommand renders the pipeline graph. The output file extension picks the
// format: .svg or .png render an image, anything else writes DOT.
func VizPipelineCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("viz pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format := graphviz.XDOT
	switch strings.ToLower(filepath.Ext(*output)) {
	case ".svg":
		format = graphviz.SVG
	case ".png":
		format = graphviz.PNG
	}

	out, err := viz.GeneratePipelineGraph(context.Background(), session.State().Contacts, session.Now(), format)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(out), 0644)
	}

	_, _ = fmt.Fprintln(stdout, out)
	return nil
}
