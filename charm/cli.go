// ABOUTME: CLI commands for inspecting and resetting the KV store
// ABOUTME: Status, manual sync, auto-sync toggle and a confirmed wipe

package charm

import (
	"flag"
	"fmt"
	"io"

	"github.com/harperreed/touchbase/config"
)

// StatusCommand shows which store is in use and what it holds.
func StatusCommand(c *Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("store status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := c.Config()
	_, _ = fmt.Fprintln(out, "Store Status")
	_, _ = fmt.Fprintln(out, "────────────")
	if c.IsLocal() {
		_, _ = fmt.Fprintln(out, "Backend:   local (badger)")
	} else {
		_, _ = fmt.Fprintln(out, "Backend:   charm")
		_, _ = fmt.Fprintf(out, "Server:    %s\n", cfg.Host)
		_, _ = fmt.Fprintf(out, "Auto-sync: %v\n", cfg.AutoSync)
		if id, err := c.ID(); err != nil {
			_, _ = fmt.Fprintln(out, "Account:   not connected")
		} else {
			_, _ = fmt.Fprintf(out, "Account:   %s\n", id)
		}
	}

	keys, err := c.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Keys:      %d\n", len(keys))

	state := "not saved yet"
	for _, k := range keys {
		if string(k) == StateKey {
			state = "saved"
		}
	}
	_, _ = fmt.Fprintf(out, "State:     %s\n", state)
	return nil
}

// SyncCommand performs an immediate sync.
func SyncCommand(c *Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("store sync", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if c.IsLocal() {
		_, _ = fmt.Fprintln(out, "Local store, nothing to sync")
		return nil
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	_, _ = fmt.Fprintln(out, "✓ Synced")
	return nil
}

// AutoSyncCommand enables or disables auto-sync in the config file.
func AutoSyncCommand(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("store autosync", flag.ContinueOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *enable == *disable {
		_, _ = fmt.Fprintln(out, "Usage: touchbase store autosync --enable|--disable")
		return nil
	}

	if err := config.UpdateFile(func(c *config.Config) { c.AutoSync = *enable }); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if *enable {
		_, _ = fmt.Fprintln(out, "✓ Auto-sync enabled")
	} else {
		_, _ = fmt.Fprintln(out, "✓ Auto-sync disabled")
	}
	return nil
}

// WipeCommand completely resets the KV store.
// WARNING: This deletes all local data!
func WipeCommand(c *Client, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("store wipe", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		_, _ = fmt.Fprintln(out, "WARNING: This will delete ALL local data!")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, "To confirm, run:")
		_, _ = fmt.Fprintln(out, "  touchbase store wipe --confirm")
		return nil
	}

	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}

	_, _ = fmt.Fprintln(out, "✓ All data wiped")
	_, _ = fmt.Fprintln(out, "Sample contacts will be loaded on next start.")
	return nil
}
