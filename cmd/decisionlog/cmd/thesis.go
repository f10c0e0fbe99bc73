package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/thesis"
)

var thesisCmd = &cobra.Command{
	Use:   "thesis",
	Short: "Compile and replay point-in-time case snapshots",
}

var thesisCompileCmd = &cobra.Command{
	Use:   "compile <case-id>",
	Short: "Compile a snapshot from FINAL events through --asof",
	Args:  cobra.ExactArgs(1),
	RunE:  runThesisCompile,
}

var thesisReplayCmd = &cobra.Command{
	Use:   "replay <case-id>",
	Short: "Replay case state as of --asof",
	Args:  cobra.ExactArgs(1),
	RunE:  runThesisReplay,
}

var thesisAsOf string

func init() {
	rootCmd.AddCommand(thesisCmd)
	thesisCmd.AddCommand(thesisCompileCmd)
	thesisCmd.AddCommand(thesisReplayCmd)

	thesisCmd.PersistentFlags().StringVar(&thesisAsOf, "asof", "", "point in time (RFC3339), defaults to now")
}

func asofTime() (time.Time, error) {
	if thesisAsOf == "" {
		return time.Now().UTC(), nil
	}
	return parseTS(thesisAsOf)
}

func runThesisCompile(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	asof, err := asofTime()
	if err != nil {
		return err
	}

	snap, err := thesis.Compile(cmd.Context(), j, args[0], asof)
	if err != nil {
		return fmt.Errorf("compile thesis: %w", err)
	}
	return printJSON(snap)
}

func runThesisReplay(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	asof, err := asofTime()
	if err != nil {
		return err
	}

	replay, err := thesis.ReplayAt(cmd.Context(), j, args[0], asof)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return printJSON(replay)
}
