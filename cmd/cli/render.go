package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/xyz-asif/bookshelf/internal/client"
	"github.com/xyz-asif/bookshelf/internal/client/session"
)

func renderPage(viewMode string, page *client.BookPage) {
	if len(page.Books) == 0 {
		fmt.Println("No books found.")
		return
	}

	if viewMode == session.ViewCard {
		renderCards(page.Books, nil, "")
	} else {
		renderTable(page.Books, nil, "")
	}
	renderMeta(page.Pagination)
}

func renderTable(books []client.Book, selected func(string) bool, armedID string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if selected != nil {
		fmt.Fprintln(w, " \t#\tTITLE\tAUTHOR\tPRICE\tSTATUS\tID")
	} else {
		fmt.Fprintln(w, "#\tTITLE\tAUTHOR\tPRICE\tSTATUS\tID")
	}
	for i, b := range books {
		title := b.Title
		if b.ID == armedID {
			title += " (press d again to delete)"
		}
		if selected != nil {
			mark := " "
			if selected(b.ID) {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.2f\t%s\t%s\n",
				mark, i+1, title, b.Author, b.Price, b.Status, b.ID)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n",
				i+1, title, b.Author, b.Price, b.Status, b.ID)
		}
	}
	w.Flush()
}

func renderCards(books []client.Book, selected func(string) bool, armedID string) {
	for i, b := range books {
		header := fmt.Sprintf("[%d] %s", i+1, b.Title)
		if selected != nil && selected(b.ID) {
			header = "* " + header
		}
		if b.ID == armedID {
			header += " (press d again to delete)"
		}
		fmt.Println(header)
		fmt.Printf("    by %s | %.2f | %s, %s\n", b.Author, b.Price, b.Condition, b.Status)
		if b.Description != "" {
			fmt.Printf("    %s\n", truncate(b.Description, 72))
		}
		fmt.Printf("    id: %s\n\n", b.ID)
	}
}

func renderMeta(p client.Pagination) {
	fmt.Printf("Page %d of %d (%d books total)\n", p.CurrentPage, p.TotalPages, p.Total())
}

func renderBook(b *client.Book) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Title:\t%s\n", b.Title)
	fmt.Fprintf(w, "Author:\t%s\n", b.Author)
	fmt.Fprintf(w, "Price:\t%.2f\n", b.Price)
	if b.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", b.Description)
	}
	if b.ISBN != "" {
		fmt.Fprintf(w, "ISBN:\t%s\n", b.ISBN)
	}
	if b.Genre != "" {
		fmt.Fprintf(w, "Genre:\t%s\n", b.Genre)
	}
	if b.Publisher != "" {
		fmt.Fprintf(w, "Publisher:\t%s\n", b.Publisher)
	}
	if b.PublishedDate != nil {
		fmt.Fprintf(w, "Published:\t%s\n", b.PublishedDate.Format("2006-01-02"))
	}
	if b.Pages > 0 {
		fmt.Fprintf(w, "Pages:\t%d\n", b.Pages)
	}
	if b.Language != "" {
		fmt.Fprintf(w, "Language:\t%s\n", b.Language)
	}
	fmt.Fprintf(w, "Condition:\t%s\n", b.Condition)
	fmt.Fprintf(w, "Status:\t%s\n", b.Status)
	if b.CoverURL != "" {
		fmt.Fprintf(w, "Cover:\t%s\n", b.CoverURL)
	}
	fmt.Fprintf(w, "Added:\t%s\n", b.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "ID:\t%s\n", b.ID)
	w.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
