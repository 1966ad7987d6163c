package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var userDisplayName string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return userWhoamiRun()
	},
}

var userSigninCmd = &cobra.Command{
	Use:   "signin <email>",
	Short: "Sign in (creates the user on first use)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userSigninRun(args[0])
	},
}

var userSignoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return userSignoutRun()
	},
}

func init() {
	userSigninCmd.Flags().StringVar(&userDisplayName, "name", "", "Display name for new users")
	userCmd.AddCommand(userSigninCmd)
	userCmd.AddCommand(userSignoutCmd)
	rootCmd.AddCommand(userCmd)
}

func userWhoamiRun() error {
	email := viper.GetString("user.email")
	if email == "" {
		ui.Info("Not signed in. Use 'fokus user signin <email>'.")
		return nil
	}
	app, _, err := getApp()
	if err != nil {
		return err
	}
	u := app.State().User
	if u == nil {
		ui.Info("Not signed in. Use 'fokus user signin <email>'.")
		return nil
	}
	fmt.Fprintf(ui.Out, "%s <%s>\n", u.DisplayName, u.Email)
	return nil
}

func userSigninRun(email string) error {
	viper.Set("user.email", email)
	if userDisplayName != "" {
		viper.Set("user.display_name", userDisplayName)
	}

	_, svc, err := getApp()
	if err != nil {
		return err
	}
	u, err := svc.SignIn(context.Background(), email, userDisplayName)
	if err != nil {
		return err
	}

	if err := viper.WriteConfig(); err != nil {
		// First run has no config file yet.
		if err := viper.SafeWriteConfig(); err != nil {
			ui.Warning("Signed in for this run only; could not write config: %v", err)
			return nil
		}
	}

	ui.Success("Signed in as %s <%s>", u.DisplayName, u.Email)
	return nil
}

func userSignoutRun() error {
	_, svc, err := getApp()
	if err != nil {
		return err
	}
	svc.SignOut()

	viper.Set("user.email", "")
	viper.Set("user.display_name", "")
	if err := viper.WriteConfig(); err != nil {
		ui.Warning("Signed out for this run only; could not write config: %v", err)
		return nil
	}
	ui.Success("Signed out")
	return nil
}
