package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("decisionlog version %s\n", version)
		fmt.Println("A structured decision journal for traders")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
