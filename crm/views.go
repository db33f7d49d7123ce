// ABOUTME: Derived views over the contact collection
// ABOUTME: Filtering, sorting, dashboard aggregates and upcoming-task rollups; all pure
package crm

import (
	"slices"
	"strings"
	"time"

	"github.com/harperreed/touchbase/models"
)

// StageAll is the stage filter that matches every contact. It is never a stage key.
const StageAll = "All"

// DefaultUpcomingLimit is how many rows UpcomingTasks returns when no limit is given.
const DefaultUpcomingLimit = 6

// FollowUpWindowDays bounds the "recent touches" and "upcoming follow-up" windows.
const FollowUpWindowDays = 7

// StageFilters returns the filter choices in display order, All first.
func StageFilters() []string {
	filters := []string{StageAll}
	for _, s := range models.Stages {
		filters = append(filters, string(s))
	}
	return filters
}

// Overview holds the dashboard aggregates.
type Overview struct {
	ContactCount          int                  `json:"contactCount"`
	ActiveCount           int                  `json:"activeCount"`
	OverdueTaskCount      int                  `json:"overdueTaskCount"`
	TouchesLast7Days      int                  `json:"touchesLast7Days"`
	UpcomingFollowUpCount int                  `json:"upcomingFollowUpCount"`
	StageCounts           map[models.Stage]int `json:"stageCounts"`
}

// TaskRef is a task flattened out of its contact for cross-contact listings.
type TaskRef struct {
	ContactID   string       `json:"contactId"`
	ContactName string       `json:"contactName"`
	Stage       models.Stage `json:"stage"`
	Task        models.Task  `json:"task"`
}

// FilterAndSortContacts keeps contacts matching the stage filter and search term and
// orders them by most recent interaction. Equal timestamps keep their input order.
// The result shares nested slices with the input and must be treated as read-only.
func FilterAndSortContacts(contacts []models.Contact, searchTerm, stageFilter string) []models.Contact {
	query := strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if MatchesStage(c, stageFilter) && MatchesSearch(c, query) {
			out = append(out, c)
		}
	}

	slices.SortStableFunc(out, func(a, b models.Contact) int {
		return b.LastInteraction.Compare(a.LastInteraction)
	})
	return out
}

// MatchesStage reports whether c passes the stage filter. An empty filter means All.
func MatchesStage(c models.Contact, stageFilter string) bool {
	return stageFilter == "" || stageFilter == StageAll || string(c.Stage) == stageFilter
}

// MatchesSearch does a case-insensitive substring match over name, company, job title,
// email and tags.
func MatchesSearch(c models.Contact, searchTerm string) bool {
	query := strings.ToLower(strings.TrimSpace(searchTerm))
	if query == "" {
		return true
	}
	haystack := strings.Join([]string{
		c.Name,
		c.Company,
		c.JobTitle,
		c.Email,
		strings.Join(c.Tags, " "),
	}, " ")
	return strings.Contains(strings.ToLower(haystack), query)
}

// ComputeOverview builds the dashboard aggregates relative to now. Day boundaries use
// now's location.
func ComputeOverview(contacts []models.Contact, now time.Time) Overview {
	today := StartOfDay(now)
	ov := Overview{
		ContactCount: len(contacts),
		StageCounts:  make(map[models.Stage]int),
	}

	for _, c := range contacts {
		ov.StageCounts[c.Stage]++
		if c.Stage != models.StageWaiting {
			ov.ActiveCount++
		}

		hasUpcoming := false
		for _, t := range c.Tasks {
			if IsOverdue(t, now) {
				ov.OverdueTaskCount++
			}
			if t.Completed {
				continue
			}
			due, ok := t.DueDate.Time()
			if ok && due.After(today) && CalendarDaysBetween(due.In(today.Location()), today) <= FollowUpWindowDays {
				hasUpcoming = true
			}
		}
		if hasUpcoming {
			ov.UpcomingFollowUpCount++
		}

		for _, in := range c.Interactions {
			date, ok := in.Date.Time()
			if !ok {
				continue
			}
			if abs(CalendarDaysBetween(today, date)) <= FollowUpWindowDays {
				ov.TouchesLast7Days++
			}
		}
	}

	return ov
}

// IsOverdue reports whether an open task was due before the start of today.
// A task due earlier today is not overdue.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueDate.Time()
	return ok && due.Before(StartOfDay(now))
}

// SortedTasks returns a copy of the contact's tasks, earliest due first.
func SortedTasks(c models.Contact) []models.Task {
	tasks := slices.Clone(c.Tasks)
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return tasks
}

// SortedInteractions returns a copy of the contact's interactions, newest first.
func SortedInteractions(c models.Contact) []models.Interaction {
	interactions := slices.Clone(c.Interactions)
	slices.SortStableFunc(interactions, func(a, b models.Interaction) int {
		return b.Date.Compare(a.Date)
	})
	return interactions
}

// UpcomingTasks flattens every incomplete task, orders by due date and keeps the first limit.
// A non-positive limit uses DefaultUpcomingLimit.
func UpcomingTasks(contacts []models.Contact, limit int) []TaskRef {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	var refs []TaskRef
	for _, c := range contacts {
		for _, t := range c.Tasks {
			if t.Completed {
				continue
			}
			refs = append(refs, TaskRef{
				ContactID:   c.ID,
				ContactName: c.Name,
				Stage:       c.Stage,
				Task:        t,
			})
		}
	}

	slices.SortStableFunc(refs, func(a, b TaskRef) int {
		return a.Task.DueDate.Compare(b.Task.DueDate)
	})
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs
}

// DefaultDueTask returns the earliest-due incomplete task for a contact.
func DefaultDueTask(c models.Contact) (models.Task, bool) {
	var (
		best  models.Task
		found bool
	)
	for _, t := range c.Tasks {
		if t.Completed {
			continue
		}
		if !found || t.DueDate.Compare(best.DueDate) < 0 {
			best, found = t, true
		}
	}
	return best, found
}

// FindContact returns the contact with id.
func FindContact(contacts []models.Contact, id string) (models.Contact, bool) {
	for _, c := range contacts {
		if c.ID == id {
			return c, true
		}
	}
	return models.Contact{}, false
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalendarDaysBetween counts calendar days from b to a (a - b), reading both dates in
// a's location. Time of day is ignored.
func CalendarDaysBetween(a, b time.Time) int {
	loc := a.Location()
	ay, am, ad := a.Date()
	by, bm, bd := b.In(loc).Date()
	civilA := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	civilB := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(civilA.Sub(civilB).Hours() / 24)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
