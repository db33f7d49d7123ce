// ABOUTME: Builders that turn raw form input into validated domain records
// ABOUTME: Handles id generation, tag splitting and timestamp normalization
package crm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/touchbase/models"
)

// ContactInput is the raw contact form. Tags is a comma-separated string; TagList,
// when non-nil, replaces it with tags taken verbatim.
type ContactInput struct {
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Tags     string `json:"tags,omitempty"`
	Notes    string `json:"notes,omitempty"`

	TagList []string `json:"-"`
}

// InputFromContact fills a form from an existing record.
func InputFromContact(c models.Contact) ContactInput {
	return ContactInput{
		Name:     c.Name,
		Company:  c.Company,
		JobTitle: c.JobTitle,
		Email:    c.Email,
		Phone:    c.Phone,
		Location: c.Location,
		Stage:    string(c.Stage),
		Tags:     strings.Join(c.Tags, ", "),
		Notes:    c.Notes,
	}
}

// SplitTags splits on commas, trims each piece and drops empties. Duplicates are kept.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (in ContactInput) tags() []string {
	if in.TagList == nil {
		return SplitTags(in.Tags)
	}
	tags := []string{}
	for _, tag := range in.TagList {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (in ContactInput) stage() (models.Stage, error) {
	if strings.TrimSpace(in.Stage) == "" {
		return models.StageLead, nil
	}
	return models.ParseStage(in.Stage)
}

// CreateContact builds a new contact with a fresh id and both timestamps set to now.
func CreateContact(in ContactInput, now time.Time) (models.Contact, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Contact{}, models.Required("name")
	}
	stage, err := in.stage()
	if err != nil {
		return models.Contact{}, err
	}

	ts := models.NewTimestamp(now)
	return models.Contact{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Company:         in.Company,
		JobTitle:        in.JobTitle,
		Email:           in.Email,
		Phone:           in.Phone,
		Location:        in.Location,
		Notes:           in.Notes,
		Tags:            in.tags(),
		Stage:           stage,
		CreatedAt:       ts,
		LastInteraction: ts,
		Interactions:    []models.Interaction{},
		Tasks:           []models.Task{},
	}, nil
}

// ApplyContactInput overwrites the editable fields of an existing contact. Id,
// timestamps, tasks and interactions are carried over.
func ApplyContactInput(existing models.Contact, in ContactInput) (models.Contact, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Contact{}, models.Required("name")
	}
	stage, err := in.stage()
	if err != nil {
		return models.Contact{}, err
	}

	updated := existing.Clone()
	updated.Name = in.Name
	updated.Company = in.Company
	updated.JobTitle = in.JobTitle
	updated.Email = in.Email
	updated.Phone = in.Phone
	updated.Location = in.Location
	updated.Stage = stage
	updated.Notes = in.Notes
	// An untouched tag field keeps the stored list, so tags containing commas survive
	if in.TagList != nil || in.Tags != strings.Join(existing.Tags, ", ") {
		updated.Tags = in.tags()
	}
	return updated, nil
}

// TaskInput is the raw task form. Due accepts any format ParseTimestamp understands.
type TaskInput struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Due   string `json:"due"`
}

// NewTask validates the form and normalizes the due date to UTC ISO-8601.
func NewTask(in TaskInput) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, models.Required("title")
	}
	if strings.TrimSpace(in.Due) == "" {
		return models.Task{}, models.Required("due date")
	}
	due, ok := models.ParseTimestamp(in.Due).Time()
	if !ok {
		return models.Task{}, &models.ValidationError{Field: "due date", Message: "unrecognized date " + in.Due}
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	return models.Task{
		ID:      id,
		Title:   in.Title,
		DueDate: models.NewTimestamp(due),
	}, nil
}

// InteractionInput is the raw interaction form. Empty Type means Call, empty Date means now.
type InteractionInput struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	Date      string `json:"date,omitempty"`
	Summary   string `json:"summary"`
	NextSteps string `json:"nextSteps,omitempty"`
}

// NewInteraction validates the form and normalizes the date to UTC ISO-8601.
func NewInteraction(in InteractionInput, now time.Time) (models.Interaction, error) {
	if strings.TrimSpace(in.Summary) == "" {
		return models.Interaction{}, models.Required("summary")
	}

	kind := models.InteractionCall
	if strings.TrimSpace(in.Type) != "" {
		parsed, err := models.ParseInteractionType(in.Type)
		if err != nil {
			return models.Interaction{}, err
		}
		kind = parsed
	}

	date := now
	if strings.TrimSpace(in.Date) != "" {
		parsed, ok := models.ParseTimestamp(in.Date).Time()
		if !ok {
			return models.Interaction{}, &models.ValidationError{Field: "date", Message: "unrecognized date " + in.Date}
		}
		date = parsed
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	return models.Interaction{
		ID:        id,
		Date:      models.NewTimestamp(date),
		Type:      kind,
		Summary:   in.Summary,
		NextSteps: strings.TrimSpace(in.NextSteps),
	}, nil
}
