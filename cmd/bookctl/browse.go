package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bookapp/internal/collection"
	"bookapp/internal/validate"

	"github.com/spf13/cobra"
)

var booksBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the collection page by page",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if !app.session.Authenticated() {
			return fmt.Errorf("not logged in")
		}
		return browse(collection.New(app.client))
	},
}

func printPage(c *collection.Collection) {
	snap := c.Snapshot()
	if len(snap.Books) == 0 {
		fmt.Println("No books on this page.")
	} else {
		renderBooks(snap.Books)
	}
	filter := ""
	if snap.SelectedGenre > 0 {
		filter = fmt.Sprintf(", genre %d", snap.SelectedGenre)
	}
	fmt.Printf("Page %d of %d (%d books%s)\n", snap.Page+1, snap.TotalPages, snap.TotalElements, filter)
}

// browse runs the interactive pager over the shared collection state. Every
// navigation command goes through the collection so deletes and filter
// changes behave exactly as they do elsewhere.
func browse(c *collection.Collection) error {
	ctx := context.Background()
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	printPage(c)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("[n]ext [p]rev [g]enre [s]ize [d]elete [q]uit > ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.Fields(scanner.Text())
		if len(input) == 0 {
			continue
		}

		var err error
		switch input[0] {
		case "n":
			snap := c.Snapshot()
			if snap.Page+1 >= snap.TotalPages {
				fmt.Println("Already on the last page.")
				continue
			}
			err = c.SetPage(ctx, snap.Page+1)
		case "p":
			snap := c.Snapshot()
			if snap.Page == 0 {
				fmt.Println("Already on the first page.")
				continue
			}
			err = c.SetPage(ctx, snap.Page-1)
		case "g":
			if len(input) < 2 {
				fmt.Println("Usage: g <genre id> (0 clears the filter)")
				continue
			}
			var genre int64
			genre, err = strconv.ParseInt(input[1], 10, 64)
			if err != nil {
				fmt.Println("Invalid genre id.")
				continue
			}
			err = c.SetGenre(ctx, genre)
		case "s":
			if len(input) < 2 {
				fmt.Println("Usage: s <page size>")
				continue
			}
			var size int
			size, err = strconv.Atoi(input[1])
			if err != nil {
				fmt.Println("Invalid page size.")
				continue
			}
			err = c.SetSize(ctx, size)
		case "d":
			if len(input) < 2 {
				fmt.Println("Usage: d <isbn>")
				continue
			}
			if errs := validate.SearchISBN(input[1]); errs != nil {
				printFieldErrors(errs)
				continue
			}
			err = c.Delete(ctx, input[1])
			if err == nil {
				fmt.Println("Book successfully deleted.")
			}
		case "q":
			return nil
		default:
			fmt.Println("Unknown command.")
			continue
		}

		if err != nil {
			printError(err)
			continue
		}
		printPage(c)
	}
}
