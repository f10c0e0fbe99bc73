package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/lifecycle"
)

var draftCmd = &cobra.Command{
	Use:   "draft <case-id> <event-type>",
	Short: "Create or reuse the draft for (case, event type)",
	Long: `Create or reuse the DRAFT decision event for the given case and
event type. At most one draft exists per pair; asking again returns the
same draft. A seed payload is applied only while the draft is still empty.

Examples:
  decisionlog draft <case-id> INITIATE
  decisionlog draft <case-id> RISK_NOTE --seed '{"note":"earnings in two weeks"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runDraft,
}

var patchCmd = &cobra.Command{
	Use:   "patch <case-id> <event-id> <json-patch>",
	Short: "Deep-merge a patch into a draft's payload",
	Long: `Deep-merge a JSON patch into the draft's payload. Lists in the
patch replace the current value entirely. FINAL events are immutable.

Example:
  decisionlog patch <case-id> <event-id> '{"conviction": 60, "key_risks": ["crowding"]}'`,
	Args: cobra.ExactArgs(3),
	RunE: runPatch,
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <case-id> <event-id>",
	Short: "Validate a draft and flip it to FINAL",
	Args:  cobra.ExactArgs(2),
	RunE:  runFinalize,
}

var (
	draftSeed string
	draftTS   string
)

func init() {
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(finalizeCmd)

	draftCmd.Flags().StringVar(&draftSeed, "seed", "", "seed payload as a JSON object")
	draftCmd.Flags().StringVar(&draftTS, "ts", "", "event timestamp (RFC3339), defaults to now")
}

func runDraft(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var seed map[string]any
	if draftSeed != "" {
		if err := json.Unmarshal([]byte(draftSeed), &seed); err != nil {
			return fmt.Errorf("seed must be a JSON object: %w", err)
		}
	}
	ts, err := parseTS(draftTS)
	if err != nil {
		return err
	}

	res, err := lifecycle.New(j).Draft(cmd.Context(), args[0], event.Type(args[1]), seed, ts)
	if err != nil {
		return fmt.Errorf("draft: %w", err)
	}
	return printJSON(res)
}

func runPatch(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var patch map[string]any
	if err := json.Unmarshal([]byte(args[2]), &patch); err != nil {
		return fmt.Errorf("patch must be a JSON object: %w", err)
	}

	res, err := lifecycle.New(j).Patch(cmd.Context(), args[0], args[1], patch)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	return printJSON(res)
}

func runFinalize(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	res, err := lifecycle.New(j).Finalize(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	return printJSON(res)
}
