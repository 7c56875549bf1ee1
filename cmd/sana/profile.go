package sana

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/service"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the active user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			u, err := service.ActiveProfile(sqldb)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("no active session; run 'sana login' or 'sana signup' first")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", u.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Age: %d\n", u.Age)
			fmt.Fprintf(cmd.OutOrStdout(), "Email: %s\n", u.Email)
			if u.ProfilePicture != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Picture: %s\n", u.ProfilePicture)
			}
			return nil
		})
	},
}

var (
	profileName     string
	profileAge      int
	profilePassword string
	profilePicture  string
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the active profile (blank flags keep stored values)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			u, err := service.UpdateProfile(sqldb, service.UpdateProfileInput{
				Name:           profileName,
				Age:            profileAge,
				Password:       profilePassword,
				ProfilePicture: profilePicture,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile for %s\n", u.Email)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "New name")
	profileUpdateCmd.Flags().IntVar(&profileAge, "age", 0, "New age")
	profileUpdateCmd.Flags().StringVar(&profilePassword, "password", "", "New password")
	profileUpdateCmd.Flags().StringVar(&profilePicture, "picture", "", "New profile picture path or URL")
}
