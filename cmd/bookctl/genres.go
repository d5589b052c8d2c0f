package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"bookapp/internal/validate"

	"github.com/spf13/cobra"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Work with your genres",
}

var genresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your genres",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		genres, err := app.client.ListGenres(context.Background())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, genre := range genres {
			fmt.Fprintf(w, "%d\t%s\n", genre.ID, genre.Name)
		}
		w.Flush()
		return nil
	},
}

var genresAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if errs := validate.GenreName(args[0]); errs != nil {
			printFieldErrors(errs)
			return fmt.Errorf("genre not submitted")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		genre, err := app.client.CreateGenre(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Genre %q created with id %d.\n", genre.Name, genre.ID)
		return nil
	},
}

func init() {
	genresCmd.AddCommand(genresListCmd, genresAddCmd)
}
