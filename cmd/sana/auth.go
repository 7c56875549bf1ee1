package sana

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Poohpo313/Sana/internal/service"
)

var (
	signupName     string
	signupAge      int
	signupEmail    string
	signupPassword string
	signupPicture  string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and start a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			u, err := service.Signup(sqldb, service.SignupInput{
				Name:           signupName,
				Age:            signupAge,
				Email:          signupEmail,
				Password:       signupPassword,
				ProfilePicture: signupPicture,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Signed in as %s\n", u.Name, u.Email)
			return nil
		})
	},
}

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a stored account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			u, err := service.Login(sqldb, loginEmail, loginPassword)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("invalid email or password")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s\n", u.Name)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the active session (stored accounts are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.Logout(sqldb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			u, err := service.ActiveProfile(sqldb)
			if err != nil {
				return err
			}
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.Name, u.Email)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)

	signupCmd.Flags().StringVar(&signupName, "name", "", "Your name")
	signupCmd.Flags().IntVar(&signupAge, "age", 0, "Your age")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email (login identifier)")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password")
	signupCmd.Flags().StringVar(&signupPicture, "picture", "", "Profile picture path or URL")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
}
