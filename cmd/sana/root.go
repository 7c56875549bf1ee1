package sana

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "sana",
	Short: "sana tracks medications and dose adherence from your terminal",
	Long:  "sana is a local-first medication reminder CLI with dosing schedules, a per-day dose ledger, and adherence summaries.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
