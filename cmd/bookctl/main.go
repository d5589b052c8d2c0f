package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"bookapp/internal/api"
	"bookapp/internal/config"
	"bookapp/internal/session"
	"bookapp/internal/validate"
	"bookapp/package/logger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:           "bookctl",
	Short:         "Manage your personal book catalogue",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app bundles the wired client stack. The session object is passed around
// explicitly; nothing reads the token store behind its back.
type app struct {
	cfg     *config.Config
	session *session.Session
	client  *api.Client
}

func newApp() (*app, error) {
	cfg := config.GetConfig()

	path := cfg.Client.TokenFile
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := session.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(store)
	if err != nil {
		return nil, err
	}
	client, err := api.New(cfg.Client.BaseUrl, sess, api.Options{Logger: logger.Log})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, session: sess, client: client}, nil
}

// readPassword reads a password with terminal masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// printFieldErrors shows one inline message per field, the way the forms do.
func printFieldErrors(errs validate.Errors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(os.Stderr, "%s: %s\n", field, errs[field])
	}
}

func printError(err error) {
	if fields := api.FieldErrors(err); fields != nil {
		printFieldErrors(validate.Errors(fields))
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

func main() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, booksCmd, genresCmd)
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
