package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xyz-asif/bookshelf/internal/client"
	"github.com/xyz-asif/bookshelf/internal/client/listview"
	"github.com/xyz-asif/bookshelf/internal/client/session"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse your collection interactively",
	Long: `Browse opens an interactive prompt over your collection.

Commands:
  n, p            next / previous page
  /<term>         search; an empty / clears the search
  s <n>           toggle selection of row n
  a               select or deselect everything on screen
  d <n>           delete row n (press twice to confirm)
  D               delete everything selected
  v               switch between table and card view
  o <column>      sort the page by title, author, price or createdAt
  r               refresh
  q               quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, api, err := newContext()
		if err != nil {
			return err
		}
		if !sess.LoggedIn() {
			return fmt.Errorf("not logged in")
		}

		b := &browser{
			sess:  sess,
			api:   api,
			view:  listview.New(nil),
			input: bufio.NewReader(os.Stdin),
			page:  1,
			limit: 10,
		}
		return b.run(cmd.Context())
	},
}

// browser wires the listview state machine to the terminal. All list
// semantics live in the model; this loop only reads keys, calls the
// API and redraws.
type browser struct {
	sess  *session.Session
	api   *client.Client
	view  *listview.Model
	input *bufio.Reader
	page  int
	limit int
}

func (b *browser) run(ctx context.Context) error {
	if err := b.load(ctx); err != nil {
		return err
	}

	for {
		b.draw()

		fmt.Print("> ")
		line, err := b.input.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)

		quit, err := b.handle(ctx, line)
		if err != nil {
			if client.SessionEnded(err) {
				return mapAPIError(b.sess, err)
			}
			fmt.Println("Error:", mapAPIError(b.sess, err))
		}
		if quit {
			return nil
		}
	}
}

func (b *browser) handle(ctx context.Context, line string) (quit bool, err error) {
	switch {
	case line == "q":
		return true, nil

	case line == "r":
		return false, b.load(ctx)

	case line == "n":
		if !b.view.Meta().HasNextPage {
			fmt.Println("Already on the last page.")
			return false, nil
		}
		b.page++
		return false, b.load(ctx)

	case line == "p":
		if !b.view.Meta().HasPrevPage {
			fmt.Println("Already on the first page.")
			return false, nil
		}
		b.page--
		return false, b.load(ctx)

	case strings.HasPrefix(line, "/"):
		b.view.StageSearch(strings.TrimPrefix(line, "/"))
		term, changed := b.view.SubmitSearch()
		if term == "" {
			b.view.ClearSearch()
			b.sess.SetSearchTerm("")
		} else {
			b.sess.SetSearchTerm(term)
		}
		if !changed {
			return false, nil
		}
		b.page = 1
		return false, b.load(ctx)

	case line == "a":
		b.view.ToggleSelectAll()
		return false, nil

	case strings.HasPrefix(line, "s "):
		book, ok := b.rowArg(line[2:])
		if !ok {
			return false, nil
		}
		b.view.ToggleSelect(book.ID)
		return false, nil

	case strings.HasPrefix(line, "d "):
		book, ok := b.rowArg(line[2:])
		if !ok {
			return false, nil
		}
		if b.view.PressDelete(book.ID) == listview.DeleteArmed {
			return false, nil
		}
		if err := b.api.DeleteBook(ctx, book.ID); err != nil {
			return false, err
		}
		b.view.RemoveBook(book.ID)
		fmt.Printf("Deleted %q.\n", book.Title)
		return false, nil

	case line == "D":
		return false, b.bulkDelete(ctx)

	case line == "v":
		next := session.ViewCard
		if b.sess.ViewMode() == session.ViewCard {
			next = session.ViewTable
		}
		if err := b.sess.SetViewMode(next); err != nil {
			return false, err
		}
		return false, nil

	case strings.HasPrefix(line, "o "):
		b.view.ToggleSort(strings.TrimSpace(line[2:]))
		return false, nil

	case line == "":
		return false, nil

	default:
		fmt.Println("Unknown command. Type q to quit.")
		return false, nil
	}
}

// bulkDelete confirms once, fires the whole selection concurrently and
// reconciles the view with whatever actually settled.
func (b *browser) bulkDelete(ctx context.Context) error {
	ids := b.view.Selected()
	if len(ids) == 0 {
		fmt.Println("Nothing selected.")
		return nil
	}

	fmt.Printf("Delete %d selected book(s)? [y/N] ", len(ids))
	answer, err := b.input.ReadString('\n')
	if err != nil {
		return err
	}
	if strings.TrimSpace(strings.ToLower(answer)) != "y" {
		fmt.Println("Aborted.")
		return nil
	}

	result := b.api.DeleteBooks(ctx, ids)
	b.view.ApplyBulkResult(result)

	if result.AllOK() {
		fmt.Printf("Deleted %d book(s).\n", len(result.Deleted))
		return nil
	}
	fmt.Printf("Deleted %d of %d; %d failed:\n", len(result.Deleted), len(ids), len(result.Failed))
	for id, delErr := range result.Failed {
		if client.SessionEnded(delErr) {
			return delErr
		}
		fmt.Printf("  %s: %v\n", id, delErr)
	}
	return nil
}

func (b *browser) load(ctx context.Context) error {
	b.view.BeginLoad()

	var page *client.BookPage
	var err error
	if term := b.view.ActiveSearch(); term != "" {
		page, err = b.api.SearchBooks(ctx, term, b.page, b.limit)
	} else {
		page, err = b.api.Collection(ctx, b.page, b.limit, "", "")
	}
	if err != nil {
		b.view.SetError(err.Error())
		return err
	}

	b.view.SetLoaded(page)
	return nil
}

// rowArg resolves a 1-based row number into the book it points at.
func (b *browser) rowArg(arg string) (client.Book, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	books := b.view.Books()
	if err != nil || n < 1 || n > len(books) {
		fmt.Printf("Pick a row between 1 and %d.\n", len(books))
		return client.Book{}, false
	}
	return books[n-1], true
}

func (b *browser) draw() {
	fmt.Println()
	if term := b.view.ActiveSearch(); term != "" {
		fmt.Printf("Search: %q\n", term)
	}

	books := b.view.Books()
	if len(books) == 0 {
		fmt.Println("No books found.")
	} else if b.sess.ViewMode() == session.ViewCard {
		renderCards(books, b.view.IsSelected, b.view.ArmedID())
	} else {
		renderTable(books, b.view.IsSelected, b.view.ArmedID())
	}

	renderMeta(b.view.Meta())
	if n := b.view.SelectionCount(); n > 0 {
		fmt.Printf("%d selected\n", n)
	}
}
