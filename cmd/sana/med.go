package sana

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/schedule"
	"github.com/Poohpo313/Sana/internal/service"
)

var medCmd = &cobra.Command{
	Use:   "med",
	Short: "Manage medications",
}

var (
	medName         string
	medDescription  string
	medFrequency    int
	medScheduleType string
	medTimes        []string
	medFirstDose    string
	medInterval     int
	medReminder     string
)

func buildMedicineInput(sqldb *sql.DB) service.MedicineInput {
	reminder := medReminder
	if reminder == "" {
		// Fall back to the configured default reminder kind, if set.
		if v, ok, err := service.GetConfig(sqldb, service.ConfigDefaultReminder); err == nil && ok {
			reminder = v
		}
	}
	in := service.MedicineInput{
		Name:          medName,
		Description:   medDescription,
		Frequency:     medFrequency,
		ScheduleType:  medScheduleType,
		IntervalHours: medInterval,
		ReminderType:  reminder,
	}
	if medScheduleType == schedule.KindInterval {
		in.FirstDose = schedule.ParseTimeOfDay(medFirstDose)
	} else {
		in.DoseTimes = parseDoseTimes(medTimes)
	}
	return in
}

var medAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a medication with its dosing schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			med, err := service.CreateMedicine(sqldb, reminderScheduler, buildMedicineInput(sqldb))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", med.Name, med.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Times: %s\n", formatTimes12(med.Times))
			return nil
		})
	},
}

var medUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a medication; times are regenerated from the schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			med, err := service.UpdateMedicine(sqldb, reminderScheduler, args[0], buildMedicineInput(sqldb))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", med.Name, med.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Times: %s\n", formatTimes12(med.Times))
			return nil
		})
	},
}

var medDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a medication and its entire dose history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			if err := service.DeleteMedicine(sqldb, reminderScheduler, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted medicine %s\n", args[0])
			return nil
		})
	},
}

var medListCmd = &cobra.Command{
	Use:   "list",
	Short: "List medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			medicines, err := service.ListMedicines(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tDOSES/DAY\tSCHEDULE\tTIMES\tREMINDER")
			for _, m := range medicines {
				scheduleDesc := m.ScheduleType
				if m.ScheduleType == schedule.KindInterval {
					scheduleDesc = fmt.Sprintf("every %dh", m.IntervalHours)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\t%s\t%s\n",
					m.ID, m.Name, m.Frequency, scheduleDesc, strings.Join(m.Times, " "), m.ReminderType)
			}
			return nil
		})
	},
}

var medShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := requireSession(sqldb); err != nil {
				return err
			}
			med, err := service.GetMedicine(sqldb, args[0])
			if err != nil {
				return err
			}
			if med == nil {
				return fmt.Errorf("medicine %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", med.Name)
			if med.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Description: %s\n", med.Description)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Doses per day: %d\n", med.Frequency)
			fmt.Fprintf(cmd.OutOrStdout(), "Schedule: %s", med.ScheduleType)
			if med.ScheduleType == schedule.KindInterval {
				fmt.Fprintf(cmd.OutOrStdout(), " (every %d hours)", med.IntervalHours)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "Times: %s\n", formatTimes12(med.Times))
			fmt.Fprintf(cmd.OutOrStdout(), "Reminder: %s\n", med.ReminderType)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(medCmd)
	medCmd.AddCommand(medAddCmd, medUpdateCmd, medDeleteCmd, medListCmd, medShowCmd)

	for _, c := range []*cobra.Command{medAddCmd, medUpdateCmd} {
		c.Flags().StringVar(&medName, "name", "", "Medicine name")
		c.Flags().StringVar(&medDescription, "description", "", "Notes about dosage etc.")
		c.Flags().IntVar(&medFrequency, "frequency", 1, "Doses per day (1-6)")
		c.Flags().StringVar(&medScheduleType, "schedule", schedule.KindExact, "Schedule kind: exact or interval")
		c.Flags().StringSliceVar(&medTimes, "times", nil, "Dose times for exact schedules, e.g. '8:00 AM,6:30 PM'")
		c.Flags().StringVar(&medFirstDose, "first-dose", "9:00 AM", "First dose time for interval schedules")
		c.Flags().IntVar(&medInterval, "interval", 0, "Hours between doses (1,2,3,4,6,8,12)")
		c.Flags().StringVar(&medReminder, "reminder", "", "Reminder kind: alarm or notification")
	}
}
