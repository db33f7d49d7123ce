// ABOUTME: Migration utility for moving touchbase State between storage backends.
// ABOUTME: Imports browser JSON exports and provides dry-run and backup capabilities.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/backend"
	"github.com/harperreed/touchbase/config"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/joho/godotenv"
)

type options struct {
	from       string
	to         string
	importPath string
	dryRun     bool
	backup     bool
	backupDir  string
}

func main() {
	_ = godotenv.Load()

	from := flag.String("from", "", "Source backend: charm, local or sqlite (default: configured backend)")
	to := flag.String("to", "", "Target backend: charm, local or sqlite (required)")
	importPath := flag.String("import", "", "Read State from a JSON export instead of a backend")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Write the target's current State to a JSON file before overwriting")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "migrate"})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	logger.SetLevel(cfg.Level())

	opts := options{
		from:       *from,
		to:         *to,
		importPath: *importPath,
		dryRun:     *dryRun,
		backup:     *backup,
		backupDir:  cfg.DataDir,
	}
	if opts.from == "" && opts.importPath == "" {
		opts.from = cfg.Backend
	}

	if err := run(context.Background(), cfg, opts, logger); err != nil {
		logger.Fatal("migration failed", "err", err)
	}
	logger.Info("migration completed successfully")
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *log.Logger) error {
	if opts.to == "" {
		return errors.New("--to is required")
	}
	if opts.importPath == "" && opts.from == opts.to {
		return fmt.Errorf("source and target are both %q", opts.to)
	}

	var state models.State
	if opts.importPath != "" {
		imported, err := readExport(opts.importPath)
		if err != nil {
			return err
		}
		state = imported
	} else {
		source, err := backend.Open(cfg, opts.from, logger)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer func() { _ = source.Close() }()

		loaded, err := readStore(ctx, source.Store)
		if err != nil {
			return err
		}
		state = loaded
	}

	target, err := backend.Open(cfg, opts.to, logger)
	if err != nil {
		return fmt.Errorf("failed to open target: %w", err)
	}
	defer func() { _ = target.Close() }()

	return copyState(ctx, state, target.Store, opts, logger)
}

// readExport accepts either a saved State object or a bare contact array.
func readExport(path string) (models.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.State{}, fmt.Errorf("failed to read export: %w", err)
	}

	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.State{}, fmt.Errorf("export is not JSON: %w", err)
	}

	if len(probe) > 0 && probe[0] == '[' {
		var contacts []models.Contact
		if err := json.Unmarshal(data, &contacts); err != nil {
			return models.State{}, fmt.Errorf("failed to parse contact list: %w", err)
		}
		return models.State{Contacts: contacts}, nil
	}

	state := crm.DecodeState(data)
	if state == nil {
		return models.State{}, errors.New("export does not contain a contact list")
	}
	return *state, nil
}

func readStore(ctx context.Context, store crm.Store) (models.State, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return models.State{}, fmt.Errorf("failed to load source: %w", err)
	}
	if state == nil {
		return models.State{}, errors.New("source has no saved state")
	}
	return *state, nil
}

func copyState(ctx context.Context, state models.State, target crm.Store, opts options, logger *log.Logger) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("refusing to copy invalid state: %w", err)
	}

	tasks, interactions := 0, 0
	for _, c := range state.Contacts {
		tasks += len(c.Tasks)
		interactions += len(c.Interactions)
	}
	logger.Info("source state", "contacts", len(state.Contacts), "tasks", tasks, "interactions", interactions)

	existing, err := target.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	if opts.dryRun {
		logger.Info("[DRY RUN] would write state", "target", opts.to)
		if existing != nil {
			logger.Info("[DRY RUN] would replace existing target state", "contacts", len(existing.Contacts))
			if opts.backup {
				logger.Info("[DRY RUN] would back up existing target state", "dir", opts.backupDir)
			}
		}
		return nil
	}

	if existing != nil && opts.backup {
		path, err := writeBackup(*existing, opts)
		if err != nil {
			return err
		}
		logger.Info("backup created", "path", path)
	}

	if err := target.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to write target: %w", err)
	}
	return nil
}

func writeBackup(state models.State, opts options) (string, error) {
	data, err := crm.EncodeState(state)
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.MkdirAll(opts.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("backup-%s-%s.json", opts.to, time.Now().Format("20060102-150405"))
	path := filepath.Join(opts.backupDir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return path, nil
}
