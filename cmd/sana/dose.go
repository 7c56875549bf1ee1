package sana

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/service"
)

var doseCmd = &cobra.Command{
	Use:   "dose",
	Short: "Mark and query doses",
}

var (
	doseDate  string
	doseIndex int
)

var doseMarkCmd = &cobra.Command{
	Use:   "mark <medicine-id>",
	Short: "Mark a dose as taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			if err := service.MarkDose(sqldb, args[0], doseDate, doseIndex, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked dose %d taken\n", doseIndex)
			return nil
		})
	},
}

var doseUnmarkCmd = &cobra.Command{
	Use:   "unmark <medicine-id>",
	Short: "Mark a dose as not taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			if err := service.MarkDose(sqldb, args[0], doseDate, doseIndex, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked dose %d not taken\n", doseIndex)
			return nil
		})
	},
}

var doseStatusCmd = &cobra.Command{
	Use:   "status <medicine-id>",
	Short: "Show whether a dose was taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			taken, err := service.DoseStatus(sqldb, args[0], doseDate, doseIndex)
			if err != nil {
				return err
			}
			if taken == nil {
				return fmt.Errorf("medicine %s not found", args[0])
			}
			if *taken {
				fmt.Fprintln(cmd.OutOrStdout(), "taken")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not taken")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doseCmd)
	doseCmd.AddCommand(doseMarkCmd, doseUnmarkCmd, doseStatusCmd)

	for _, c := range []*cobra.Command{doseMarkCmd, doseUnmarkCmd, doseStatusCmd} {
		c.Flags().StringVar(&doseDate, "date", "", "Date YYYY-MM-DD (default today)")
		c.Flags().IntVar(&doseIndex, "index", 0, "Dose index within the day, 0-based")
	}
}
