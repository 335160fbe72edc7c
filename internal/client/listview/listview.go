// Package listview is the state machine behind the book listing views.
// It owns load state, staged-versus-active search, bulk selection, the
// two-step delete confirmation and client-side sorting; it performs no
// I/O itself.
package listview

import (
	"sort"
	"strings"
	"time"

	"github.com/xyz-asif/bookshelf/internal/client"
)

// ArmTTL is how long a first delete press stays armed awaiting the
// confirming second press.
const ArmTTL = 3 * time.Second

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

// DeleteAction is the outcome of a delete press.
type DeleteAction int

const (
	// DeleteArmed marks a first press; a second press within ArmTTL
	// confirms it.
	DeleteArmed DeleteAction = iota
	// DeleteConfirmed means the caller should issue the delete now.
	DeleteConfirmed
)

// Model tracks one listing view. The clock is injected so the arm
// deadline is testable.
type Model struct {
	now func() time.Time

	phase  Phase
	books  []client.Book
	meta   client.Pagination
	errMsg string

	stagedSearch string
	activeSearch string

	selected map[string]bool

	armedID    string
	armedUntil time.Time

	sortColumn string
	sortAsc    bool
}

func New(now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	return &Model{
		now:      now,
		phase:    PhaseIdle,
		selected: make(map[string]bool),
	}
}

func (m *Model) Phase() Phase            { return m.phase }
func (m *Model) Books() []client.Book    { return m.books }
func (m *Model) Meta() client.Pagination { return m.meta }
func (m *Model) ErrorMessage() string    { return m.errMsg }

// BeginLoad enters the loading state; mount, refresh and retry all
// pass through here.
func (m *Model) BeginLoad() {
	m.phase = PhaseLoading
	m.errMsg = ""
}

// SetLoaded installs a fresh page. New data invalidates the selection
// and any pending delete arm.
func (m *Model) SetLoaded(page *client.BookPage) {
	m.phase = PhaseLoaded
	m.books = page.Books
	m.meta = page.Pagination
	m.errMsg = ""
	m.ClearSelection()
	m.disarm()
}

func (m *Model) SetError(msg string) {
	m.phase = PhaseError
	m.errMsg = msg
}

// StageSearch records typed input without applying it; the filter only
// changes on SubmitSearch.
func (m *Model) StageSearch(term string) {
	m.stagedSearch = term
}

func (m *Model) StagedSearch() string { return m.stagedSearch }
func (m *Model) ActiveSearch() string { return m.activeSearch }

// SubmitSearch promotes the staged term to the active filter. The
// selection is cleared because the visible set is about to change.
func (m *Model) SubmitSearch() (string, bool) {
	term := strings.TrimSpace(m.stagedSearch)
	if term == m.activeSearch {
		return m.activeSearch, false
	}
	m.activeSearch = term
	m.ClearSelection()
	return term, true
}

// ClearSearch removes the active filter, restoring the unfiltered view.
func (m *Model) ClearSearch() bool {
	m.stagedSearch = ""
	if m.activeSearch == "" {
		return false
	}
	m.activeSearch = ""
	m.ClearSelection()
	return true
}

// ToggleSelect flips one book in or out of the selection.
func (m *Model) ToggleSelect(id string) {
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
}

func (m *Model) IsSelected(id string) bool { return m.selected[id] }
func (m *Model) SelectionCount() int       { return len(m.selected) }

// ToggleSelectAll selects every currently visible book, or clears the
// selection when all of them are already selected. It never reaches
// beyond the loaded page.
func (m *Model) ToggleSelectAll() {
	if m.allVisibleSelected() {
		m.ClearSelection()
		return
	}
	for _, b := range m.books {
		m.selected[b.ID] = true
	}
}

func (m *Model) allVisibleSelected() bool {
	if len(m.books) == 0 {
		return false
	}
	for _, b := range m.books {
		if !m.selected[b.ID] {
			return false
		}
	}
	return true
}

// Selected returns the selected ids in display order.
func (m *Model) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for _, b := range m.books {
		if m.selected[b.ID] {
			out = append(out, b.ID)
		}
	}
	return out
}

func (m *Model) ClearSelection() {
	m.selected = make(map[string]bool)
}

// PressDelete drives the per-item two-step confirmation. A first press
// arms the item for ArmTTL; a second press on the same item within the
// window confirms. A press on any other item cancels the previous arm
// and starts a new one, and a press after the deadline counts as a
// fresh first press.
func (m *Model) PressDelete(id string) DeleteAction {
	now := m.now()
	if m.armedID == id && now.Before(m.armedUntil) {
		m.disarm()
		return DeleteConfirmed
	}
	m.armedID = id
	m.armedUntil = now.Add(ArmTTL)
	return DeleteArmed
}

// ArmedID reports the currently armed item, empty once the window has
// lapsed.
func (m *Model) ArmedID() string {
	if m.armedID == "" || m.now().After(m.armedUntil) {
		return ""
	}
	return m.armedID
}

func (m *Model) disarm() {
	m.armedID = ""
	m.armedUntil = time.Time{}
}

// RemoveBook drops one book from the loaded page after a confirmed
// single delete.
func (m *Model) RemoveBook(id string) {
	m.removeBooks(map[string]bool{id: true})
}

// ApplyBulkResult reconciles the loaded page with a settled bulk
// delete: succeeded ids disappear, failed ones stay listed and
// selected so the user can see what survived.
func (m *Model) ApplyBulkResult(result client.BulkResult) {
	deleted := make(map[string]bool, len(result.Deleted))
	for _, id := range result.Deleted {
		deleted[id] = true
	}
	m.removeBooks(deleted)
}

func (m *Model) removeBooks(ids map[string]bool) {
	kept := m.books[:0:0]
	for _, b := range m.books {
		if !ids[b.ID] {
			kept = append(kept, b)
		}
	}
	m.books = kept
	for id := range ids {
		delete(m.selected, id)
	}
	if ids[m.armedID] {
		m.disarm()
	}
}

// ToggleSort orders the loaded page by the given column, flipping the
// direction when the column is already active. This sorts only what is
// on screen; it does not refetch.
func (m *Model) ToggleSort(column string) {
	if m.sortColumn == column {
		m.sortAsc = !m.sortAsc
	} else {
		m.sortColumn = column
		m.sortAsc = true
	}

	asc := m.sortAsc
	sort.SliceStable(m.books, func(i, j int) bool {
		less := bookLess(m.books[i], m.books[j], column)
		if asc {
			return less
		}
		return bookLess(m.books[j], m.books[i], column)
	})
}

func (m *Model) SortColumn() string  { return m.sortColumn }
func (m *Model) SortAscending() bool { return m.sortAsc }

func bookLess(a, b client.Book, column string) bool {
	switch column {
	case "author":
		return strings.ToLower(a.Author) < strings.ToLower(b.Author)
	case "price":
		return a.Price < b.Price
	case "createdAt":
		return a.CreatedAt.Before(b.CreatedAt)
	default:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
}
