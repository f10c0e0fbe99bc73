package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/journal"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage trade cases",
	Long: `Create and manage trade cases, the owning aggregate for a
sequence of decision events about one position.

Examples:
  decisionlog case new AAPL --book alpha
  decisionlog case ensure AAPL
  decisionlog case close <case-id>
  decisionlog case list --status OPEN`,
}

var caseNewCmd = &cobra.Command{
	Use:   "new <TICKER>",
	Short: "Create a new trade case",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseNew,
}

var caseEnsureCmd = &cobra.Command{
	Use:   "ensure <TICKER>",
	Short: "Return the open case for (ticker, book), creating one if needed",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseEnsure,
}

var caseCloseCmd = &cobra.Command{
	Use:   "close <case-id>",
	Short: "Close a case (end an episode)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseClose,
}

var caseShowCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Fetch a single case by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseShow,
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases newest-first",
	Args:  cobra.NoArgs,
	RunE:  runCaseList,
}

var (
	caseBook       string
	caseListStatus string
	caseListLimit  int
)

func init() {
	rootCmd.AddCommand(caseCmd)
	caseCmd.AddCommand(caseNewCmd)
	caseCmd.AddCommand(caseEnsureCmd)
	caseCmd.AddCommand(caseCloseCmd)
	caseCmd.AddCommand(caseShowCmd)
	caseCmd.AddCommand(caseListCmd)

	caseNewCmd.Flags().StringVar(&caseBook, "book", "default", "book the case belongs to")
	caseEnsureCmd.Flags().StringVar(&caseBook, "book", "default", "book the case belongs to")
	caseListCmd.Flags().StringVar(&caseListStatus, "status", "", "filter by status (OPEN or CLOSED)")
	caseListCmd.Flags().IntVar(&caseListLimit, "limit", 100, "max cases to return")
}

func runCaseNew(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	c, err := j.CreateCase(cmd.Context(), journal.Case{Ticker: args[0], Book: caseBook})
	if err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return printJSON(c)
}

func runCaseEnsure(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	c, created, err := j.EnsureCase(cmd.Context(), args[0], caseBook)
	if err != nil {
		return fmt.Errorf("ensure case: %w", err)
	}
	return printJSON(map[string]any{"case": c, "created": created})
}

func runCaseClose(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	c, err := j.CloseCase(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("close case: %w", err)
	}
	return printJSON(c)
}

func runCaseShow(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	c, err := j.GetCase(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get case: %w", err)
	}
	return printJSON(c)
}

func runCaseList(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	cases, err := j.ListCases(cmd.Context(), caseListStatus, caseListLimit)
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}
	return printJSON(cases)
}
