// ABOUTME: Tests for the ASCII dashboard and the Graphviz pipeline graph
// ABOUTME: Uses the built-in sample contacts at a fixed clock
package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-graphviz"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestGenerateDashboardStats(t *testing.T) {
	contacts := crm.SampleState(testNow).Contacts

	stats := GenerateDashboardStats(contacts, testNow, 3)

	assert.Equal(t, 4, stats.Overview.ContactCount)
	assert.Len(t, stats.Upcoming, 3)
	require.Len(t, stats.OverdueTasks, 1)
	assert.Equal(t, "Marcus Oyelaran", stats.OverdueTasks[0].ContactName)
	assert.Empty(t, stats.StaleContacts, "Jordan is Waiting and so never stale")
}

func TestGenerateDashboardStats_Stale(t *testing.T) {
	contacts := []models.Contact{
		{ID: "a", Name: "Old", Stage: models.StageLead, LastInteraction: models.NewTimestamp(testNow.AddDate(0, 0, -45))},
		{ID: "b", Name: "Broken", Stage: models.StageActive, LastInteraction: models.ParseTimestamp("??")},
		{ID: "c", Name: "Fresh", Stage: models.StageActive, LastInteraction: models.NewTimestamp(testNow)},
	}

	stats := GenerateDashboardStats(contacts, testNow, 0)

	require.Len(t, stats.StaleContacts, 2)
	assert.Equal(t, StaleContact{Name: "Old", DaysSince: 45}, stats.StaleContacts[0])
	assert.Equal(t, -1, stats.StaleContacts[1].DaysSince)
}

func TestRenderDashboard(t *testing.T) {
	stats := GenerateDashboardStats(crm.SampleState(testNow).Contacts, testNow, 0)

	out := RenderDashboard(stats)

	assert.Contains(t, out, "TOUCHBASE DASHBOARD")
	assert.Contains(t, out, "4 contacts")
	assert.Contains(t, out, "Email metrics snapshot")
	assert.Contains(t, out, "NEEDS ATTENTION")
	for _, stage := range models.Stages {
		assert.Contains(t, out, string(stage))
	}
	assert.Less(t, strings.Index(out, "Lead"), strings.Index(out, "Customer"))
}

func TestRenderDashboard_Empty(t *testing.T) {
	out := RenderDashboard(GenerateDashboardStats(nil, testNow, 0))

	assert.Contains(t, out, "Nothing scheduled")
	assert.NotContains(t, out, "NEEDS ATTENTION")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestGeneratePipelineGraph(t *testing.T) {
	contacts := crm.SampleState(testNow).Contacts

	dot, err := GeneratePipelineGraph(context.Background(), contacts, testNow, graphviz.XDOT)

	require.NoError(t, err)
	assert.Contains(t, dot, "graph")
	assert.Contains(t, dot, "Avery Chen")
	assert.Contains(t, dot, "salmon", "overdue contact is highlighted")
}
