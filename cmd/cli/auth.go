package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}

		password, err := readPassword("Choose a password: ")
		if err != nil {
			return err
		}

		user, err := api.Register(cmd.Context(), args[0], password)
		if err != nil {
			return mapAPIError(sess, err)
		}

		fmt.Printf("Account %q created. Log in with: bookshelf login %s\n", user.Username, user.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		token, user, err := api.Login(cmd.Context(), args[0], password)
		if err != nil {
			return mapAPIError(sess, err)
		}
		if err := sess.Login(token); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s.\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session and cached preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := newContext()
		if err != nil {
			return err
		}
		if err := sess.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Replace the password of the logged-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			return fmt.Errorf("not logged in")
		}

		newPassword, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm new password: ")
		if err != nil {
			return err
		}
		if newPassword != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := api.ResetPassword(cmd.Context(), newPassword); err != nil {
			return mapAPIError(sess, err)
		}

		fmt.Println("Password reset successfully.")
		return nil
	},
}
