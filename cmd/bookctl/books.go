package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"bookapp/internal/api"
	"bookapp/internal/validate"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Work with your book collection",
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func renderBooks(books []api.Book) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ISBN\tTITLE\tGENRE\tPUBLISHED\tSYNOPSIS")
	for _, book := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			book.Isbn, truncate(book.Title, 40), book.Genre,
			book.PublishedDate, truncate(book.Synopsis, 40))
	}
	w.Flush()
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of books",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		genre, _ := cmd.Flags().GetInt64("genre")

		app, err := newApp()
		if err != nil {
			return err
		}

		var result api.Page
		if genre > 0 {
			result, err = app.client.ListBooksByGenre(context.Background(), genre, page, size)
		} else {
			result, err = app.client.ListBooks(context.Background(), page, size)
		}
		if err != nil {
			return err
		}

		renderBooks(result.Content)
		fmt.Printf("Page %d of %d (%d books)\n", result.Number+1, result.TotalPages, result.TotalElements)
		return nil
	},
}

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		form := validate.BookForm{}
		form.Isbn, _ = cmd.Flags().GetString("isbn")
		form.Title, _ = cmd.Flags().GetString("title")
		form.GenreID, _ = cmd.Flags().GetInt64("genre")
		form.PublishedDate, _ = cmd.Flags().GetString("published")
		form.Synopsis, _ = cmd.Flags().GetString("synopsis")
		coverPath, _ := cmd.Flags().GetString("cover")

		if errs := validate.Book(form); errs != nil {
			printFieldErrors(errs)
			return fmt.Errorf("book not submitted")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		created, err := app.client.CreateBook(context.Background(), api.BookInput{
			Isbn:          form.Isbn,
			Title:         form.Title,
			GenreID:       form.GenreID,
			PublishedDate: form.PublishedDate,
			Synopsis:      form.Synopsis,
		})
		if err != nil {
			return err
		}

		if coverPath != "" {
			file, err := os.Open(coverPath)
			if err != nil {
				return err
			}
			defer file.Close()
			if _, err := app.client.UploadCover(context.Background(), created.Isbn, filepath.Base(coverPath), file); err != nil {
				return err
			}
		}

		fmt.Println("Book successfully added.")
		return nil
	},
}

var booksGetCmd = &cobra.Command{
	Use:   "get <isbn>",
	Short: "Show a single book",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		book, err := app.client.GetBook(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("ISBN:      %s\n", book.Isbn)
		fmt.Printf("Title:     %s\n", book.Title)
		fmt.Printf("Genre:     %s\n", book.Genre)
		fmt.Printf("Published: %s\n", book.PublishedDate)
		fmt.Printf("Synopsis:  %s\n", book.Synopsis)
		if book.CoverImagePath != "" {
			fmt.Printf("Cover:     %s\n", book.CoverImagePath)
		}
		return nil
	},
}

var booksUpdateCmd = &cobra.Command{
	Use:   "update <isbn>",
	Short: "Update fields of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		update := api.BookUpdate{Isbn: args[0]}
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			update.Title = &title
		}
		if cmd.Flags().Changed("genre") {
			genre, _ := cmd.Flags().GetInt64("genre")
			update.GenreID = &genre
		}
		if cmd.Flags().Changed("published") {
			published, _ := cmd.Flags().GetString("published")
			update.PublishedDate = &published
		}
		if cmd.Flags().Changed("synopsis") {
			synopsis, _ := cmd.Flags().GetString("synopsis")
			update.Synopsis = &synopsis
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if _, err := app.client.UpdateBook(context.Background(), update); err != nil {
			return err
		}
		fmt.Println("Book successfully updated.")
		return nil
	},
}

var booksDeleteCmd = &cobra.Command{
	Use:     "delete <isbn>",
	Aliases: []string{"delete-by-isbn"},
	Short:   "Delete a book after validating the ISBN locally",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		// The search form validates before any request leaves the client.
		if errs := validate.SearchISBN(args[0]); errs != nil {
			printFieldErrors(errs)
			return fmt.Errorf("delete not submitted")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.client.DeleteBook(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Book successfully deleted.")
		return nil
	},
}

var booksCoverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Upload or download cover images",
}

var coverUploadCmd = &cobra.Command{
	Use:   "upload <isbn> <file>",
	Short: "Replace the cover image of a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		file, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer file.Close()
		if _, err := app.client.UploadCover(context.Background(), args[0], filepath.Base(args[1]), file); err != nil {
			return err
		}
		fmt.Println("Cover successfully updated.")
		return nil
	},
}

var coverDownloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "Download a stored cover image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		app, err := newApp()
		if err != nil {
			return err
		}
		data, _, err := app.client.DownloadCover(context.Background(), args[0])
		if err != nil {
			return err
		}
		if out == "" {
			out = filepath.Base(args[0])
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Cover saved to %s.\n", out)
		return nil
	},
}

func init() {
	booksListCmd.Flags().Int("page", 0, "zero-based page number")
	booksListCmd.Flags().Int("size", 5, "page size")
	booksListCmd.Flags().Int64("genre", 0, "filter by genre id")

	booksAddCmd.Flags().String("isbn", "", "ISBN-10 or ISBN-13")
	booksAddCmd.Flags().String("title", "", "book title")
	booksAddCmd.Flags().Int64("genre", 0, "genre id")
	booksAddCmd.Flags().String("published", "", "published date (YYYY-MM-DD)")
	booksAddCmd.Flags().String("synopsis", "", "synopsis")
	booksAddCmd.Flags().String("cover", "", "path to a cover image to upload")

	booksUpdateCmd.Flags().String("title", "", "book title")
	booksUpdateCmd.Flags().Int64("genre", 0, "genre id")
	booksUpdateCmd.Flags().String("published", "", "published date (YYYY-MM-DD)")
	booksUpdateCmd.Flags().String("synopsis", "", "synopsis")

	coverDownloadCmd.Flags().String("out", "", "output file")

	booksCoverCmd.AddCommand(coverUploadCmd, coverDownloadCmd)
	booksCmd.AddCommand(booksListCmd, booksAddCmd, booksGetCmd, booksUpdateCmd,
		booksDeleteCmd, booksBrowseCmd, booksCoverCmd)
}
