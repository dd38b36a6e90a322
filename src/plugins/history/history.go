// Package history records lifecycle transitions to an append-only log and
// contributes a "history" command for browsing them.
package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cvm-sh/cvm/src/internal/config"
	"github.com/cvm-sh/cvm/src/internal/plugin"
	"github.com/cvm-sh/cvm/src/internal/ui"
)

func init() {
	plugin.Register(&Plugin{})
}

// Entry is one recorded lifecycle transition
type Entry struct {
	Time     time.Time `json:"time"`
	Event    string    `json:"event"`
	Version  string    `json:"version"`
	Previous string    `json:"previous,omitempty"`
}

// Plugin appends a JSON line per lifecycle transition
type Plugin struct{}

// Name returns the plugin name
func (p *Plugin) Name() string { return "history" }

// OnLoad announces the log location in verbose mode
func (p *Plugin) OnLoad(snap plugin.Context) {
	ui.Debug("history plugin loaded, logging to %s", config.HistoryPath())
}

// AfterInstall records a completed install
func (p *Plugin) AfterInstall(ctx context.Context, version string, snap plugin.Context) error {
	return p.record(Entry{Event: "install", Version: version})
}

// AfterSwitch records a completed switch
func (p *Plugin) AfterSwitch(ctx context.Context, previous, next string, snap plugin.Context) error {
	return p.record(Entry{Event: "use", Version: next, Previous: previous})
}

// AfterUninstall records a completed uninstall
func (p *Plugin) AfterUninstall(ctx context.Context, version string, snap plugin.Context) error {
	return p.record(Entry{Event: "uninstall", Version: version})
}

func (p *Plugin) record(e Entry) error {
	e.Time = time.Now().UTC()

	logPath := config.HistoryPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("history: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// Commands contributes the history subcommand
func (p *Plugin) Commands() []plugin.Command {
	return []plugin.Command{
		{
			Name:  "history",
			Short: "Show recent lifecycle events",
			Run:   runHistory,
		},
	}
}

// maxShown limits how many entries the history command prints
const maxShown = 20

func runHistory(args []string, snap plugin.Context) error {
	f, err := os.Open(config.HistoryPath())
	if err != nil {
		if os.IsNotExist(err) {
			ui.Info("No history recorded yet")
			return nil
		}
		return err
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			// Skip corrupt lines rather than losing the whole log
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if len(entries) == 0 {
		ui.Info("No history recorded yet")
		return nil
	}

	if len(entries) > maxShown {
		entries = entries[len(entries)-maxShown:]
	}

	ui.Header("Recent lifecycle events:")
	for _, e := range entries {
		stamp := e.Time.Local().Format("2006-01-02 15:04:05")
		switch e.Event {
		case "use":
			if e.Previous != "" {
				ui.Println("  %s  %s %s (from %s)", stamp, e.Event, ui.HighlightVersion(e.Version), e.Previous)
				continue
			}
			fallthrough
		default:
			ui.Println("  %s  %s %s", stamp, e.Event, ui.HighlightVersion(e.Version))
		}
	}

	return nil
}
