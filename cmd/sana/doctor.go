package sana

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database consistency",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			report, err := service.RunDoctor(db, doctorFix)
			if err != nil {
				return err
			}
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Fixed time lists: %d\n", report.FixedTimes)
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared sessions: %d\n", report.ClearedSessions)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(db, false)
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Medicines with mismatched times: %d\n", report.TimesMismatch)
			fmt.Fprintf(cmd.OutOrStdout(), "Dose rows past current frequency: %d\n", report.StrayDoseRows)
			fmt.Fprintf(cmd.OutOrStdout(), "Dangling sessions: %d\n", report.DanglingSessions)
			if report.TimesMismatch > 0 || report.DanglingSessions > 0 {
				return fmt.Errorf("found %d issue(s); run with --fix to repair", report.TimesMismatch+report.DanglingSessions)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "No issues found")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair issues where possible")
}
