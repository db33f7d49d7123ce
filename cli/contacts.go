// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for adding, listing, editing and removing contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

// stdout is where commands print. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// AddContactCommand adds a new contact.
func AddContactCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	company := fs.String("company", "", "Company name")
	title := fs.String("title", "", "Job title")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	location := fs.String("location", "", "City or region")
	stage := fs.String("stage", "", "Lead, Active, Waiting or Customer (default Lead)")
	tags := fs.String("tags", "", "Comma-separated tags")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	contact, err := session.CreateContact(context.Background(), crm.ContactInput{
		Name:     *name,
		Company:  *company,
		JobTitle: *title,
		Email:    *email,
		Phone:    *phone,
		Location: *location,
		Stage:    *stage,
		Tags:     *tags,
		Notes:    *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	_, _ = fmt.Fprintf(stdout, "  Stage: %s\n", contact.Stage)
	if contact.Company != "" {
		_, _ = fmt.Fprintf(stdout, "  Company: %s\n", contact.Company)
	}
	if len(contact.Tags) > 0 {
		_, _ = fmt.Fprintf(stdout, "  Tags: %s\n", strings.Join(contact.Tags, ", "))
	}
	return nil
}

// ListContactsCommand lists contacts, most recently touched first.
func ListContactsCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search name, company, title, email and tags")
	stage := fs.String("stage", crm.StageAll, "Filter by stage (All, Lead, Active, Waiting, Customer)")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	stageFilter, err := parseStageFilter(*stage)
	if err != nil {
		return err
	}

	contacts := session.Contacts(*query, stageFilter)
	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(stdout, "No contacts found")
		return nil
	}

	now := session.Now()
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tSTAGE\tLAST TOUCH\tNEXT TASK\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t-----\t----------\t---------\t--")

	for i, c := range contacts {
		if i == *limit {
			break
		}
		next := "-"
		if task, ok := crm.DefaultDueTask(c); ok {
			next = crm.FormatDueLabel(task.DueDate, now)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name, orDash(c.Company), c.Stage,
			crm.FormatLastInteraction(c.LastInteraction, now), next, c.ID)
	}

	_ = w.Flush()
	_, _ = fmt.Fprintf(stdout, "\n%d contact(s)\n", len(contacts))
	return nil
}

// ShowContactCommand prints one contact with its tasks and timeline.
func ShowContactCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("show-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}

	c, err := session.Contact(fs.Arg(0))
	if err != nil {
		return err
	}
	now := session.Now()

	_, _ = fmt.Fprintf(stdout, "%s\n", c.Name)
	_, _ = fmt.Fprintf(stdout, "%s\n", strings.Repeat("─", len([]rune(c.Name))))
	printField := func(label, value string) {
		if value != "" {
			_, _ = fmt.Fprintf(stdout, "%-10s %s\n", label+":", value)
		}
	}
	printField("ID", c.ID)
	printField("Stage", string(c.Stage))
	printField("Company", c.Company)
	printField("Title", c.JobTitle)
	printField("Email", c.Email)
	printField("Phone", c.Phone)
	printField("Location", c.Location)
	printField("Tags", strings.Join(c.Tags, ", "))
	printField("Created", crm.FormatTimestamp(c.CreatedAt, "Jan 2, 2006", now.Location()))
	printField("Last", crm.FormatLastInteraction(c.LastInteraction, now))
	printField("Notes", c.Notes)

	_, _ = fmt.Fprintln(stdout, "\nTasks:")
	tasks := crm.SortedTasks(c)
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(stdout, "  (none)")
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		marker := ""
		if crm.IsOverdue(t, now) {
			marker = "  OVERDUE"
		}
		_, _ = fmt.Fprintf(stdout, "  %s %s (%s)%s  id:%s\n", box, t.Title, crm.FormatDueDistance(t.DueDate, now), marker, t.ID)
	}

	_, _ = fmt.Fprintln(stdout, "\nTimeline:")
	interactions := crm.SortedInteractions(c)
	if len(interactions) == 0 {
		_, _ = fmt.Fprintln(stdout, "  (none)")
	}
	for _, in := range interactions {
		_, _ = fmt.Fprintf(stdout, "  %s  %-7s %s\n", crm.FormatTimestamp(in.Date, "2006-01-02", now.Location()), in.Type, in.Summary)
		if in.NextSteps != "" {
			_, _ = fmt.Fprintf(stdout, "  %s  next: %s\n", strings.Repeat(" ", 18), in.NextSteps)
		}
	}
	return nil
}

// UpdateContactCommand changes the fields passed as flags and leaves the rest alone.
func UpdateContactCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "New name")
	company := fs.String("company", "", "New company")
	title := fs.String("title", "", "New job title")
	email := fs.String("email", "", "New email")
	phone := fs.String("phone", "", "New phone")
	location := fs.String("location", "", "New location")
	stage := fs.String("stage", "", "New stage")
	tags := fs.String("tags", "", "Replacement comma-separated tags")
	notes := fs.String("notes", "", "New notes")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	existing, err := session.Contact(id)
	if err != nil {
		return err
	}

	form := crm.InputFromContact(existing)
	set := map[string]func(){
		"name":     func() { form.Name = *name },
		"company":  func() { form.Company = *company },
		"title":    func() { form.JobTitle = *title },
		"email":    func() { form.Email = *email },
		"phone":    func() { form.Phone = *phone },
		"location": func() { form.Location = *location },
		"stage":    func() { form.Stage = *stage },
		"tags":     func() { form.Tags = *tags },
		"notes":    func() { form.Notes = *notes },
	}
	// Visit only walks flags that were given, so empty strings can clear a field
	fs.Visit(func(f *flag.Flag) { set[f.Name]() })

	updated, err := session.UpdateContact(context.Background(), id, form)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Contact updated: %s (ID: %s)\n", updated.Name, updated.ID)
	return nil
}

// DeleteContactCommand removes a contact with its tasks and interactions.
func DeleteContactCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Arg(0)

	c, err := session.Contact(id)
	if err != nil {
		return err
	}
	if err := session.DeleteContact(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Deleted %s and %d task(s), %d interaction(s)\n", c.Name, len(c.Tasks), len(c.Interactions))
	return nil
}

func parseStageFilter(raw string) (string, error) {
	if raw == "" || strings.EqualFold(raw, crm.StageAll) {
		return crm.StageAll, nil
	}
	stage, err := models.ParseStage(raw)
	if err != nil {
		return "", err
	}
	return string(stage), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
