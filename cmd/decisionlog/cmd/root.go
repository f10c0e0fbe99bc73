package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/config"
	"github.com/rustyeddy/decisionlog/journal"
)

var rootCmd = &cobra.Command{
	Use:   "decisionlog",
	Short: "A structured decision journal for traders",
	Long: `Decisionlog records structured decision events about positions
(initiations, thesis updates, risk notes, resizes, pinned rules,
post-mortems) and compiles them into point-in-time snapshots.

Events are authored through a draft/patch/finalize lifecycle with strict
per-type schemas, so everything that reaches the journal is complete and
valid. Free-text input only ever reaches the journal through a
deterministic action gate.`,
}

var (
	dbPath     string
	configPath string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML or JSON)")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	return cfg, nil
}

func openJournal() (*journal.SQLite, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return j, cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseTS(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp must be RFC3339 (e.g. 2026-01-02T15:04:05Z): %w", err)
	}
	return t, nil
}
