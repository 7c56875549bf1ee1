package sana

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/service"
)

var todayDateFlag string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the day's checklist and adherence",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			status, err := service.DaySummary(sqldb, todayDateFlag)
			if err != nil {
				return err
			}
			summaries, err := service.DaySummaries(sqldb, status.Date)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", status.Date)
			fmt.Fprintf(cmd.OutOrStdout(), "Doses taken: %d/%d\n", status.TakenDoses, status.TotalDoses)
			fmt.Fprintf(cmd.OutOrStdout(), "Adherence: %d%%\n", status.AdherencePct)
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s (%d/%d)\n", s.Medicine.Name, s.TakenCount, s.TotalDoses)
				for i, timeOfDay := range s.Medicine.Times {
					mark := "[ ]"
					if i < len(s.Statuses) && s.Statuses[i] {
						mark = "[x]"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", mark, formatTime12(timeOfDay))
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDateFlag, "date", "", "Date YYYY-MM-DD (default today)")
}
