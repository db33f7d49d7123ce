// ABOUTME: Entry point for touchbase CLI, TUI, MCP server and web dashboard
// ABOUTME: Routes to subcommands after opening the configured storage backend
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/backend"
	"github.com/harperreed/touchbase/charm"
	"github.com/harperreed/touchbase/cli"
	"github.com/harperreed/touchbase/config"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/tui"
	"github.com/harperreed/touchbase/web"
	"github.com/joho/godotenv"
)

const version = "0.2.0"

func main() {
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	backendName := flag.String("backend", "", "Storage backend: charm, local or sqlite")
	dbPath := flag.String("db-path", "", "SQLite database path (sqlite backend only)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("touchbase version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "touchbase"})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if *backendName != "" {
		cfg.Backend = *backendName
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "err", err)
	}
	logger.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := args[0]
	commandArgs := args[1:]

	if command == "store" {
		if err := runStore(ctx, cfg, logger, commandArgs); err != nil {
			logger.Fatal("store command failed", "err", err)
		}
		return
	}

	switch command {
	case "crm", "tui", "mcp", "web", "viz":
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	handle, err := backend.Open(cfg, cfg.Backend, logger)
	if err != nil {
		logger.Fatal("failed to open storage", "backend", cfg.Backend, "err", err)
	}
	defer func() { _ = handle.Close() }()

	session, err := crm.OpenSession(ctx, handle.Store, logger)
	if err != nil {
		logger.Fatal("failed to load contacts", "err", err)
	}
	logger.Debug("storage ready", "backend", handle.Name)

	switch command {
	case "crm":
		err = runCRM(session, cfg, commandArgs)
	case "tui":
		p := tea.NewProgram(tui.NewModel(session, cfg.UpcomingLimit), tea.WithAltScreen())
		_, err = p.Run()
	case "mcp":
		err = cli.MCPCommand(ctx, session, cfg.UpcomingLimit, version, logger)
	case "web":
		err = runWeb(ctx, session, cfg, logger, commandArgs)
	case "viz":
		err = runViz(session, cfg, commandArgs)
	}
	if err != nil {
		stop()
		_ = handle.Close()
		logger.Fatal("command failed", "command", command, "err", err)
	}
}

func runCRM(session *crm.Session, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: crm requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	crmArgs := args[1:]
	switch args[0] {
	// Contact commands
	case "add-contact":
		return cli.AddContactCommand(session, crmArgs)
	case "list-contacts":
		return cli.ListContactsCommand(session, crmArgs)
	case "show-contact":
		return cli.ShowContactCommand(session, crmArgs)
	case "update-contact":
		return cli.UpdateContactCommand(session, crmArgs)
	case "delete-contact":
		return cli.DeleteContactCommand(session, crmArgs)

	// Task and interaction commands
	case "add-task":
		return cli.AddTaskCommand(session, crmArgs)
	case "toggle-task":
		return cli.ToggleTaskCommand(session, crmArgs)
	case "log-interaction":
		return cli.LogInteractionCommand(session, crmArgs)
	case "tasks":
		return cli.TasksCommand(session, cfg.UpcomingLimit, crmArgs)
	case "overview":
		return cli.VizDashboardCommand(session, cfg.UpcomingLimit, crmArgs)
	}

	fmt.Printf("Unknown crm command: %s\n\n", args[0])
	printUsage()
	os.Exit(1)
	return nil
}

func runViz(session *crm.Session, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: viz requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "dashboard":
		return cli.VizDashboardCommand(session, cfg.UpcomingLimit, args[1:])
	case "pipeline":
		return cli.VizPipelineCommand(session, args[1:])
	}

	fmt.Printf("Unknown viz command: %s\n\n", args[0])
	printUsage()
	os.Exit(1)
	return nil
}

func runWeb(ctx context.Context, session *crm.Session, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server, err := web.NewServer(session, logger, cfg.UpcomingLimit)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	return server.Start(ctx, *port)
}

// runStore opens the backend without a session so a wipe never races the seed.
func runStore(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: store requires a subcommand (status, sync, autosync, wipe)")
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	if sub == "autosync" {
		return charm.AutoSyncCommand(os.Stdout, subArgs)
	}

	handle, err := backend.Open(cfg, cfg.Backend, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = handle.Close() }()

	if handle.KV != nil {
		switch sub {
		case "status":
			return charm.StatusCommand(handle.KV, os.Stdout, subArgs)
		case "sync":
			return charm.SyncCommand(handle.KV, os.Stdout, subArgs)
		case "wipe":
			return charm.WipeCommand(handle.KV, os.Stdout, subArgs)
		}
		return fmt.Errorf("unknown store command: %s", sub)
	}

	switch sub {
	case "status":
		status, err := handle.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Println(status)
		fmt.Printf("Database: %s\n", cfg.DBPath)
		return nil
	case "sync":
		fmt.Println("SQLite store, nothing to sync")
		return nil
	case "wipe":
		fs := flag.NewFlagSet("store wipe", flag.ExitOnError)
		confirm := fs.Bool("confirm", false, "Confirm data wipe")
		if err := fs.Parse(subArgs); err != nil {
			return err
		}
		if !*confirm {
			fmt.Println("WARNING: This will delete ALL saved contacts!")
			fmt.Println()
			fmt.Println("To confirm, run:")
			fmt.Println("  touchbase --backend sqlite store wipe --confirm")
			return nil
		}
		if err := handle.Wipe(ctx); err != nil {
			return fmt.Errorf("failed to wipe database: %w", err)
		}
		fmt.Println("✓ All data wiped")
		fmt.Println("Sample contacts will be loaded on next start.")
		return nil
	}
	return errors.New("unknown store command: " + sub)
}

func printUsage() {
	fmt.Printf(`touchbase v%s - Personal relationship manager

USAGE:
  touchbase [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --backend <name>       Storage backend: charm, local or sqlite (default: charm)
  --db-path <path>       SQLite database path (default: ~/.local/share/touchbase/touchbase.db)

COMMANDS:
  crm                    Contact, task and interaction commands
  tui                    Interactive terminal UI
  mcp                    Start MCP server for Claude Desktop
  web                    Serve the read-only web dashboard
  viz                    Dashboard and pipeline graph
  store                  Inspect, sync or wipe saved data

CRM COMMANDS:
  touchbase crm add-contact     Add a new contact
    --name <name>                 Contact name (required)
    --company <company>           Company name
    --title <title>               Job title
    --email <email>               Email address
    --phone <phone>               Phone number
    --location <place>            City or region
    --stage <stage>               Lead, Active, Waiting or Customer (default: Lead)
    --tags <a,b>                  Comma-separated tags
    --notes <notes>               Notes about contact

  touchbase crm list-contacts   List contacts, most recently touched first
    --query <text>                Search name, company, title, email and tags
    --stage <stage>               Filter by stage (default: All)
    --limit <n>                   Max results (default: 50)

  touchbase crm show-contact <id>              Show a contact with tasks and timeline
  touchbase crm update-contact [flags] <id>    Update a contact (same flags as add-contact)
    Note: flags must come before the contact ID
  touchbase crm delete-contact <id>            Delete a contact

  touchbase crm add-task        Add a follow-up task
    --contact <id>                Contact ID (required)
    --title <title>               Task title (required)
    --due <date>                  Due date, YYYY-MM-DD or ISO-8601 (required)

  touchbase crm toggle-task     Mark a task done or open again
    --contact <id> --task <id>

  touchbase crm log-interaction Record a call, email, meeting or note
    --contact <id>                Contact ID (required)
    --type <type>                 Call, Email, Meeting or Note (default: Call)
    --date <date>                 When it happened (default: now)
    --summary <text>              What was discussed (required)
    --next <text>                 Next steps

  touchbase crm tasks           Upcoming open tasks (--limit <n>)
  touchbase crm overview        Pipeline overview

VIZ COMMANDS:
  touchbase viz dashboard       Text dashboard
  touchbase viz pipeline        Stage pipeline graph
    --output <file>               .svg, .png or .dot (default: stdout as DOT)

WEB:
  touchbase web --port 8080     Dashboard at http://localhost:8080, metrics at /metrics

STORE COMMANDS:
  touchbase store status        Show backend and saved state
  touchbase store sync          Sync with the charm server
  touchbase store autosync --enable|--disable
  touchbase store wipe --confirm

EXAMPLES:
  # Add a contact
  touchbase crm add-contact --name "Avery Chen" --company "Northwind" --stage Active

  # Leads tagged investor
  touchbase crm list-contacts --stage Lead --query investor

  # Use a local SQLite file instead of charm
  touchbase --backend sqlite tui

`, version)
}
