// ABOUTME: Built-in sample contacts used when no saved state exists
// ABOUTME: Dates are relative to the load time so the dashboard has live numbers
package crm

import (
	"time"

	"github.com/harperreed/touchbase/models"
)

// SampleState returns the first-run data set.
func SampleState(now time.Time) models.State {
	at := func(days int, hour int) models.Timestamp {
		d := StartOfDay(now).AddDate(0, 0, days).Add(time.Duration(hour) * time.Hour)
		return models.NewTimestamp(d)
	}

	return models.State{Contacts: []models.Contact{
		{
			ID:              "2f1c8a4e-6a53-4d0b-9d6b-1b7f6f0c2a11",
			Name:            "Avery Chen",
			Company:         "Northwind Labs",
			JobTitle:        "Head of Partnerships",
			Email:           "avery@northwind.example",
			Phone:           "+1 415 555 0142",
			Location:        "San Francisco, CA",
			Notes:           "Met at the spring founders dinner. Loves trail running.",
			Tags:            []string{"partner", "warm intro", "bay area"},
			Stage:           models.StageActive,
			CreatedAt:       at(-60, 10),
			LastInteraction: at(-2, 15),
			Interactions: []models.Interaction{
				{ID: "a7d0e3c2-1f55-4e1a-8c7a-5a2c9b7e0001", Date: at(-30, 11), Type: models.InteractionMeeting, Summary: "Intro coffee about co-marketing.", NextSteps: "Send deck"},
				{ID: "a7d0e3c2-1f55-4e1a-8c7a-5a2c9b7e0002", Date: at(-2, 15), Type: models.InteractionCall, Summary: "Walked through partnership terms."},
			},
			Tasks: []models.Task{
				{ID: "b31e6d42-7c0a-4b19-9e4f-3d2a1c0b0001", Title: "Send revised partnership draft", DueDate: at(2, 17)},
				{ID: "b31e6d42-7c0a-4b19-9e4f-3d2a1c0b0002", Title: "Share customer references", DueDate: at(-10, 12), Completed: true},
			},
		},
		{
			ID:              "6d9b2f70-2c4e-4f8a-a1de-7c3b5e9f4b22",
			Name:            "Marcus Oyelaran",
			Company:         "Brightline Capital",
			JobTitle:        "Principal",
			Email:           "marcus@brightline.example",
			Phone:           "+1 212 555 0188",
			Location:        "New York, NY",
			Notes:           "Interested in seed rounds for developer tools.",
			Tags:            []string{"investor"},
			Stage:           models.StageLead,
			CreatedAt:       at(-21, 9),
			LastInteraction: at(-9, 14),
			Interactions: []models.Interaction{
				{ID: "c52f8e11-3b7d-4a60-b2c1-9e8d7f6a0001", Date: at(-9, 14), Type: models.InteractionEmail, Summary: "Asked for an updated metrics snapshot.", NextSteps: "Pull Q3 numbers"},
			},
			Tasks: []models.Task{
				{ID: "d6a4c3b2-8e1f-4d7c-a9b0-2f3e4d5c0001", Title: "Email metrics snapshot", DueDate: at(-1, 10)},
			},
		},
		{
			ID:              "9a3e7c15-5d2b-4e6f-8b0a-4c1d2e3f6c33",
			Name:            "Priya Raman",
			Company:         "Helio Health",
			JobTitle:        "VP Operations",
			Email:           "priya@helio.example",
			Phone:           "+1 617 555 0110",
			Location:        "Boston, MA",
			Notes:           "Pilot renewal decision due next quarter.",
			Tags:            []string{"customer", "healthcare"},
			Stage:           models.StageCustomer,
			CreatedAt:       at(-200, 8),
			LastInteraction: at(0, 9),
			Interactions: []models.Interaction{
				{ID: "e8b7a6c5-4d3e-4f2a-9b1c-0d9e8f7a0001", Date: at(-45, 16), Type: models.InteractionMeeting, Summary: "Quarterly business review."},
				{ID: "e8b7a6c5-4d3e-4f2a-9b1c-0d9e8f7a0002", Date: at(0, 9), Type: models.InteractionNote, Summary: "Flagged interest in the analytics add-on."},
			},
			Tasks: []models.Task{
				{ID: "f0a1b2c3-d4e5-4f60-8a7b-9c0d1e2f0001", Title: "Prepare renewal proposal", DueDate: at(5, 12)},
				{ID: "f0a1b2c3-d4e5-4f60-8a7b-9c0d1e2f0002", Title: "Schedule analytics demo", DueDate: at(12, 15)},
			},
		},
		{
			ID:              "c4f8d2a6-7e9b-4c1d-b3a5-6e7f8a9b0d44",
			Name:            "Jordan Blake",
			Company:         "Fieldnote Studio",
			JobTitle:        "Founder",
			Email:           "jordan@fieldnote.example",
			Phone:           "",
			Location:        "Portland, OR",
			Notes:           "Waiting on their budget cycle.",
			Tags:            []string{"design", "agency"},
			Stage:           models.StageWaiting,
			CreatedAt:       at(-90, 13),
			LastInteraction: at(-40, 11),
			Interactions: []models.Interaction{
				{ID: "1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c0001", Date: at(-40, 11), Type: models.InteractionCall, Summary: "They will revisit scope after budgeting."},
			},
			Tasks: []models.Task{},
		},
	}}
}
