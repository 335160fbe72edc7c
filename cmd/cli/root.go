package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xyz-asif/bookshelf/internal/client"
	"github.com/xyz-asif/bookshelf/internal/client/session"
)

var apiBase string

var rootCmd = &cobra.Command{
	Use:           "bookshelf",
	Short:         "Terminal client for the bookshelf book-catalog API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8080", "base URL of the bookshelf API")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(browseCmd)
}

// newContext loads the stored session and builds an API client whose
// bearer token tracks it.
func newContext() (*session.Session, *client.Client, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	return sess, client.New(apiBase, sess.Token), nil
}

// mapAPIError converts a session-ending failure into an implicit
// logout; everything else passes through for the user to retry.
func mapAPIError(sess *session.Session, err error) error {
	if err == nil {
		return nil
	}
	if client.SessionEnded(err) {
		sess.Logout()
		return errors.New("your session has ended, please log in again")
	}
	if errors.Is(err, client.ErrTimeout) {
		return errors.New("the request timed out, try again")
	}
	return err
}

// readPassword reads a masked password from the terminal.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
