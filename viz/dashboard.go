// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for the CRM overview
package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

// StaleDays is how long a non-waiting contact can go untouched before it needs attention.
const StaleDays = 30

type DashboardStats struct {
	Overview crm.Overview
	Upcoming []crm.TaskRef

	// Needs attention
	OverdueTasks  []crm.TaskRef
	StaleContacts []StaleContact

	GeneratedAt time.Time
}

type StaleContact struct {
	Name      string
	DaysSince int // -1 when the last interaction date is unreadable
}

func GenerateDashboardStats(contacts []models.Contact, now time.Time, upcomingLimit int) *DashboardStats {
	stats := &DashboardStats{
		Overview:    crm.ComputeOverview(contacts, now),
		Upcoming:    crm.UpcomingTasks(contacts, upcomingLimit),
		GeneratedAt: now,
	}

	for _, c := range contacts {
		for _, t := range c.Tasks {
			if crm.IsOverdue(t, now) {
				stats.OverdueTasks = append(stats.OverdueTasks, crm.TaskRef{
					ContactID:   c.ID,
					ContactName: c.Name,
					Stage:       c.Stage,
					Task:        t,
				})
			}
		}

		if c.Stage == models.StageWaiting {
			continue
		}
		last, ok := c.LastInteraction.Time()
		if !ok {
			stats.StaleContacts = append(stats.StaleContacts, StaleContact{Name: c.Name, DaysSince: -1})
			continue
		}
		if days := crm.CalendarDaysBetween(now, last); days > StaleDays {
			stats.StaleContacts = append(stats.StaleContacts, StaleContact{Name: c.Name, DaysSince: days})
		}
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder
	ov := stats.Overview

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  TOUCHBASE DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE\n")
	renderPipeline(&out, ov.StageCounts)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  ✅ %d active  ⏰ %d overdue  🤝 %d touches (7d)  📅 %d upcoming\n\n",
		ov.ContactCount, ov.ActiveCount, ov.OverdueTaskCount, ov.TouchesLast7Days, ov.UpcomingFollowUpCount))

	out.WriteString("UPCOMING TASKS\n")
	if len(stats.Upcoming) == 0 {
		out.WriteString("  Nothing scheduled\n")
	}
	for _, ref := range stats.Upcoming {
		out.WriteString(fmt.Sprintf("  %-28s %-20s %s\n",
			truncate(ref.Task.Title, 28), truncate(ref.ContactName, 20),
			crm.FormatDueDistance(ref.Task.DueDate, stats.GeneratedAt)))
	}
	out.WriteString("\n")

	if len(stats.OverdueTasks) > 0 || len(stats.StaleContacts) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		for _, ref := range stats.OverdueTasks {
			out.WriteString(fmt.Sprintf("  ⚠️  %s: %s (%s)\n", ref.ContactName, ref.Task.Title,
				crm.FormatDueDistance(ref.Task.DueDate, stats.GeneratedAt)))
		}
		if len(stats.StaleContacts) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d contacts - no touch in %d+ days\n", len(stats.StaleContacts), StaleDays))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, counts map[models.Stage]int) {
	maxCount := 0
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, stage := range models.Stages {
		n := counts[stage]

		// Calculate bar length (0-10 blocks)
		barLength := (n * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-9s %s  %2d\n", stage, bar, n))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
