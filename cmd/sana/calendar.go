package sana

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/service"
)

var calendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month with recorded dates highlighted",
	RunE: func(cmd *cobra.Command, args []string) error {
		month := time.Now()
		if calendarMonth != "" {
			parsed, err := time.ParseInLocation("2006-01", calendarMonth, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --month %q (expected YYYY-MM)", calendarMonth)
			}
			month = parsed
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			dates, err := service.HighlightDates(sqldb)
			if err != nil {
				return err
			}
			highlighted := make(map[string]bool, len(dates))
			for _, d := range dates {
				highlighted[d] = true
			}
			renderMonth(cmd, month, highlighted)
			fmt.Fprintf(cmd.OutOrStdout(), "\n* dose record exists\n")
			return nil
		})
	},
}

func renderMonth(cmd *cobra.Command, month time.Time, highlighted map[string]bool) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", first.Month(), first.Year())
	fmt.Fprintln(cmd.OutOrStdout(), " Su  Mo  Tu  We  Th  Fr  Sa")

	// Leading blanks up to the first weekday.
	for i := 0; i < int(first.Weekday()); i++ {
		fmt.Fprint(cmd.OutOrStdout(), "    ")
	}
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		mark := " "
		if highlighted[day.Format("2006-01-02")] {
			mark = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%3d%s", day.Day(), mark)
		if day.Weekday() == time.Saturday {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	fmt.Fprintln(cmd.OutOrStdout())
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month YYYY-MM (default current)")
}
