package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/journal"
	"github.com/rustyeddy/decisionlog/pkg/id"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage ticker-scoped pinned rules",
	Long: `Pinned, user-authored reminders scoped to a ticker. These are
memory artifacts, not executable trading rules.

Examples:
  decisionlog rules list AAPL
  decisionlog rules add AAPL "No adds within 3 days of earnings" --tags earnings
  decisionlog rules deactivate AAPL <event-id>`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list <TICKER>",
	Short: "List active rules for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <TICKER> <rule text>",
	Short: "Pin a new active rule for a ticker",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRulesAdd,
}

var rulesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <TICKER> <event-id>",
	Short: "Deactivate a pinned rule",
	Args:  cobra.ExactArgs(2),
	RunE:  runRulesDeactivate,
}

var (
	rulesTags   []string
	rulesCaseID string
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesDeactivateCmd)

	rulesAddCmd.Flags().StringSliceVar(&rulesTags, "tags", nil, "tags for the rule")
	rulesAddCmd.Flags().StringVar(&rulesCaseID, "case", "", "case to attach the rule to (required)")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rules, err := j.ListActiveRules(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}
	return printJSON(rules)
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	if rulesCaseID == "" {
		return fmt.Errorf("--case is required")
	}

	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ticker := journal.NormalizeTicker(args[0])
	ruleText := strings.TrimSpace(strings.Join(args[1:], " "))
	if ruleText == "" {
		return fmt.Errorf("rule text is required")
	}

	tags := make([]string, 0, len(rulesTags))
	for _, t := range rulesTags {
		if s := strings.TrimSpace(t); s != "" {
			tags = append(tags, s)
		}
	}

	now := time.Now().UTC()
	ev := event.Event{
		ID:      id.New(),
		CaseID:  rulesCaseID,
		EventTs: now,
		Type:    event.TickerRule,
		Payload: map[string]any{
			"ticker":    ticker,
			"rule_text": ruleText,
			"tags":      tags,
			"status":    "ACTIVE",
		},
		Status:    event.StatusFinal,
		UpdatedAt: now,
		CreatedAt: now,
	}
	if err := j.CreateEvent(cmd.Context(), ev); err != nil {
		return fmt.Errorf("add rule: %w", err)
	}
	return printJSON(ev)
}

func runRulesDeactivate(cmd *cobra.Command, args []string) error {
	j, _, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ev, err := j.DeactivateRule(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("deactivate rule: %w", err)
	}
	return printJSON(ev)
}
