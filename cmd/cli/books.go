package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xyz-asif/bookshelf/internal/client"
	"github.com/xyz-asif/bookshelf/internal/client/session"
)

var (
	listPage  int
	listLimit int
	listSort  string
	listOrder string
	listCard  bool
	listTable bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your book collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			return fmt.Errorf("not logged in")
		}

		// An explicit view flag becomes the remembered preference.
		if listCard {
			sess.SetViewMode(session.ViewCard)
		} else if listTable {
			sess.SetViewMode(session.ViewTable)
		}

		page, err := api.Collection(cmd.Context(), listPage, listLimit, listSort, listOrder)
		if err != nil {
			return mapAPIError(sess, err)
		}

		renderPage(sess.ViewMode(), page)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search your books by title, author, description or price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			return fmt.Errorf("not logged in")
		}

		page, err := api.SearchBooks(cmd.Context(), args[0], listPage, listLimit)
		if err != nil {
			return mapAPIError(sess, err)
		}

		renderPage(sess.ViewMode(), page)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}

		book, err := api.GetBook(cmd.Context(), args[0])
		if err != nil {
			return mapAPIError(sess, err)
		}

		renderBook(book)
		return nil
	},
}

type bookFlags struct {
	title, author, description       string
	isbn, genre, publisher, language string
	condition, status, cover         string
	published                        string
	price                            float64
	pages                            int
}

var (
	addFlags  bookFlags
	editFlags bookFlags
)

func registerBookFlags(cmd *cobra.Command, f *bookFlags) {
	cmd.Flags().StringVar(&f.title, "title", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "book author")
	cmd.Flags().Float64Var(&f.price, "price", 0, "price (positive decimal)")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.isbn, "isbn", "", "ISBN-10 or ISBN-13")
	cmd.Flags().StringVar(&f.genre, "genre", "", "genre")
	cmd.Flags().StringVar(&f.publisher, "publisher", "", "publisher")
	cmd.Flags().StringVar(&f.language, "language", "", "language")
	cmd.Flags().StringVar(&f.condition, "condition", "", "condition: Novo, Seminovo or Usado")
	cmd.Flags().StringVar(&f.status, "status", "", "status: disponivel, alugado, indisponivel or vendido")
	cmd.Flags().StringVar(&f.cover, "cover", "", "cover image URL")
	cmd.Flags().StringVar(&f.published, "published", "", "published date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.pages, "pages", 0, "page count")
}

// input builds a partial request from only the flags the user set.
func (f *bookFlags) input(cmd *cobra.Command) (client.BookInput, error) {
	var in client.BookInput

	setString := func(name string, value *string, dst **string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	setString("title", &f.title, &in.Title)
	setString("author", &f.author, &in.Author)
	setString("description", &f.description, &in.Description)
	setString("isbn", &f.isbn, &in.ISBN)
	setString("genre", &f.genre, &in.Genre)
	setString("publisher", &f.publisher, &in.Publisher)
	setString("language", &f.language, &in.Language)
	setString("condition", &f.condition, &in.Condition)
	setString("status", &f.status, &in.Status)
	setString("cover", &f.cover, &in.CoverURL)

	if cmd.Flags().Changed("price") {
		in.Price = &f.price
	}
	if cmd.Flags().Changed("pages") {
		in.Pages = &f.pages
	}
	if cmd.Flags().Changed("published") {
		t, err := time.Parse("2006-01-02", f.published)
		if err != nil {
			return in, fmt.Errorf("invalid --published date %q, expected YYYY-MM-DD", f.published)
		}
		in.PublishedDate = &t
	}

	return in, nil
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to your collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}

		in, err := addFlags.input(cmd)
		if err != nil {
			return err
		}

		book, err := api.CreateBook(cmd.Context(), in)
		if err != nil {
			return mapAPIError(sess, err)
		}

		fmt.Printf("Created %q (%s).\n", book.Title, book.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update fields of a book you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}

		in, err := editFlags.input(cmd)
		if err != nil {
			return err
		}

		book, err := api.UpdateBook(cmd.Context(), args[0], in)
		if err != nil {
			return mapAPIError(sess, err)
		}

		fmt.Printf("Updated %q (%s).\n", book.Title, book.ID)
		return nil
	},
}

var rmYes bool

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete one or more books you own",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}

		if !rmYes {
			fmt.Printf("Delete %d book(s)? [y/N] ", len(args))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		result := api.DeleteBooks(cmd.Context(), args)
		for _, id := range result.Deleted {
			fmt.Printf("Deleted %s.\n", id)
		}
		for id, delErr := range result.Failed {
			fmt.Printf("Failed to delete %s: %v\n", id, mapAPIError(sess, delErr))
		}
		if !result.AllOK() {
			return fmt.Errorf("%d of %d deletions failed", len(result.Failed), len(args))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 10, "page size (max 100)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort field: title, author, price, createdAt, updatedAt")
	listCmd.Flags().StringVar(&listOrder, "order", "", "sort order: asc or desc")
	listCmd.Flags().BoolVar(&listCard, "card", false, "use the card view and remember it")
	listCmd.Flags().BoolVar(&listTable, "table", false, "use the table view and remember it")

	searchCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	searchCmd.Flags().IntVar(&listLimit, "limit", 10, "page size (max 100)")

	registerBookFlags(addCmd, &addFlags)
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("author")
	addCmd.MarkFlagRequired("price")

	registerBookFlags(editCmd, &editFlags)

	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "skip the confirmation prompt")
}
