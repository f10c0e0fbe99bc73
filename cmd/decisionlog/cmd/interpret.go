package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/decisionlog/gate"
	"github.com/rustyeddy/decisionlog/interpret"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret <text>",
	Short: "Run free text through ticker extraction and the action gate",
	Long: `Extract the explicit uppercase tickers from the text and gate an
interpretation envelope against them.

Without --envelope, only the deterministic front half runs: ticker
extraction plus the fixed clarification when no explicit ticker is
present. With --envelope, the JSON file is treated as the untrusted
oracle output and is schema-validated, sanitized and gated exactly as a
live interpretation would be.

Examples:
  decisionlog interpret "long AAPL, 30 day swing"
  decisionlog interpret "long AAPL" --envelope response.json --pending-field note`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInterpret,
}

var (
	interpretEnvelope     string
	interpretPendingField string
	interpretMissing      []string
)

func init() {
	rootCmd.AddCommand(interpretCmd)

	interpretCmd.Flags().StringVar(&interpretEnvelope, "envelope", "", "path to a raw interpretation envelope (JSON)")
	interpretCmd.Flags().StringVar(&interpretPendingField, "pending-field", "", "field the session is currently soliciting")
	interpretCmd.Flags().StringSliceVar(&interpretMissing, "missing", nil, "fields currently answerable")
}

func runInterpret(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	req := interpret.Request{
		Text:          text,
		PendingField:  interpretPendingField,
		MissingFields: interpretMissing,
	}

	g := &gate.Gate{ExecuteMin: cfg.Gate.ExecuteMin, ClarifyMin: cfg.Gate.ClarifyMin}
	svc := interpret.NewService(nil, g, cfg.Oracle.PromptVersion)

	if interpretEnvelope == "" {
		tickers := gate.ExtractTickers(text)
		if len(tickers) == 0 {
			return printJSON(gate.NoTickerClarify())
		}
		return printJSON(map[string]any{"allowed_tickers": tickers})
	}

	raw, err := os.ReadFile(interpretEnvelope)
	if err != nil {
		return fmt.Errorf("read envelope: %w", err)
	}
	return printJSON(svc.GateEnvelope(req, raw))
}
