package main

import (
	"context"
	"fmt"
	"time"

	"bookapp/internal/token"
	"bookapp/internal/validate"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		if errs := validate.Register(username, email, password); errs != nil {
			printFieldErrors(errs)
			return fmt.Errorf("registration not submitted")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.client.Register(context.Background(), username, email, password); err != nil {
			return err
		}
		fmt.Println("User successfully registered.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		if errs := validate.Login(email, password); errs != nil {
			printFieldErrors(errs)
			return fmt.Errorf("login not submitted")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		tok, err := app.client.Login(context.Background(), email, password)
		if err != nil {
			return err
		}
		if err := app.session.Login(tok); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s.\n", token.Username(tok))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Erase the stored session token",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.session.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		claims, ok := app.session.Claims()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("Logged in as %s (user id %d).\n", claims.Username, claims.UserID)
		if claims.ExpiresAt != 0 {
			fmt.Printf("Session expires %s.\n", time.Unix(claims.ExpiresAt, 0).Local().Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().String("username", "", "account username")
	registerCmd.Flags().String("email", "", "account e-mail address")
	loginCmd.Flags().String("email", "", "account e-mail address")
}
