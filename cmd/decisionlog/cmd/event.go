package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/lifecycle"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Add and list decision events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add <case-id> <event-type> <json-payload>",
	Short: "Strict-insert a FINAL event, bypassing the draft stage",
	Long: `Validate a complete payload against its event-type schema and
persist it directly as FINAL. Intended for pre-validated structured
submissions; there is no draft stage and no partial state.`,
	Args: cobra.ExactArgs(3),
	RunE: runEventAdd,
}

var eventListCmd = &cobra.Command{
	Use:   "list <case-id>",
	Short: "List FINAL events for a case, chronological by event_ts",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventList,
}

var eventAddTS string

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventListCmd)

	eventAddCmd.Flags().StringVar(&eventAddTS, "ts", "", "event timestamp (RFC3339), defaults to now")
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var payload map[string]any
	if err := json.Unmarshal([]byte(args[2]), &payload); err != nil {
		return fmt.Errorf("payload must be a JSON object: %w", err)
	}
	ts, err := parseTS(eventAddTS)
	if err != nil {
		return err
	}

	ev, err := lifecycle.New(j).Insert(cmd.Context(), args[0], event.Type(args[1]), payload, ts)
	if err != nil {
		return fmt.Errorf("add event: %w", err)
	}
	return printJSON(ev)
}

func runEventList(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	events, err := lifecycle.New(j).ListFinal(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	return printJSON(events)
}
