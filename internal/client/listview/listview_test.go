package listview

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/bookshelf/internal/client"
)

// fakeClock is an adjustable now() for exercising the arm deadline.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestModel() (*Model, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(clock.now), clock
}

func page(ids ...string) *client.BookPage {
	books := make([]client.Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, client.Book{ID: id, Title: "book-" + id})
	}
	return &client.BookPage{
		Books:      books,
		Pagination: client.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: int64(len(ids))},
	}
}

func TestLoadCycle(t *testing.T) {
	m, _ := newTestModel()
	require.Equal(t, PhaseIdle, m.Phase())

	m.BeginLoad()
	require.Equal(t, PhaseLoading, m.Phase())

	m.SetLoaded(page("a", "b"))
	require.Equal(t, PhaseLoaded, m.Phase())
	require.Len(t, m.Books(), 2)
}

func TestErrorStateKeepsMessage(t *testing.T) {
	m, _ := newTestModel()
	m.BeginLoad()
	m.SetError("the request timed out")

	require.Equal(t, PhaseError, m.Phase())
	require.Equal(t, "the request timed out", m.ErrorMessage())

	m.BeginLoad()
	require.Empty(t, m.ErrorMessage())
}

func TestSubmitSearchTrimsAndReportsChange(t *testing.T) {
	m, _ := newTestModel()

	m.StageSearch("  dune  ")
	term, changed := m.SubmitSearch()
	require.Equal(t, "dune", term)
	require.True(t, changed)

	// Same term again is a no-op.
	m.StageSearch("dune")
	_, changed = m.SubmitSearch()
	require.False(t, changed)
}

func TestStagedSearchDoesNotFilterUntilSubmit(t *testing.T) {
	m, _ := newTestModel()
	m.StageSearch("dune")
	require.Empty(t, m.ActiveSearch())

	m.SubmitSearch()
	require.Equal(t, "dune", m.ActiveSearch())
}

func TestClearSearch(t *testing.T) {
	m, _ := newTestModel()
	require.False(t, m.ClearSearch())

	m.StageSearch("dune")
	m.SubmitSearch()
	require.True(t, m.ClearSearch())
	require.Empty(t, m.ActiveSearch())
}

func TestSelectionClearedOnNewData(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b"))
	m.ToggleSelect("a")
	require.Equal(t, 1, m.SelectionCount())

	m.SetLoaded(page("a", "b", "c"))
	require.Zero(t, m.SelectionCount())
}

func TestSelectionClearedOnSearchChange(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b"))
	m.ToggleSelect("a")

	m.StageSearch("dune")
	m.SubmitSearch()
	require.Zero(t, m.SelectionCount())
}

func TestToggleSelectAllOverVisibleSet(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b", "c"))

	m.ToggleSelectAll()
	require.Equal(t, 3, m.SelectionCount())
	require.Equal(t, []string{"a", "b", "c"}, m.Selected())

	// All selected, so the toggle clears.
	m.ToggleSelectAll()
	require.Zero(t, m.SelectionCount())

	// Partial selection selects the rest instead of clearing.
	m.ToggleSelect("b")
	m.ToggleSelectAll()
	require.Equal(t, 3, m.SelectionCount())
}

func TestToggleSelectAllEmptyPage(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page())
	m.ToggleSelectAll()
	require.Zero(t, m.SelectionCount())
}

func TestPressDeleteConfirmsWithinWindow(t *testing.T) {
	m, clock := newTestModel()
	m.SetLoaded(page("a"))

	require.Equal(t, DeleteArmed, m.PressDelete("a"))
	require.Equal(t, "a", m.ArmedID())

	clock.advance(ArmTTL - time.Second)
	require.Equal(t, DeleteConfirmed, m.PressDelete("a"))
	require.Empty(t, m.ArmedID())
}

func TestPressDeleteExpiresAfterTTL(t *testing.T) {
	m, clock := newTestModel()
	m.SetLoaded(page("a"))

	require.Equal(t, DeleteArmed, m.PressDelete("a"))
	clock.advance(ArmTTL + time.Second)

	require.Empty(t, m.ArmedID())
	require.Equal(t, DeleteArmed, m.PressDelete("a"))
}

func TestPressDeleteOtherItemRearms(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b"))

	require.Equal(t, DeleteArmed, m.PressDelete("a"))
	require.Equal(t, DeleteArmed, m.PressDelete("b"))
	require.Equal(t, "b", m.ArmedID())
	require.Equal(t, DeleteConfirmed, m.PressDelete("b"))
}

func TestRemoveBook(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b"))
	m.ToggleSelect("a")

	m.RemoveBook("a")
	require.Len(t, m.Books(), 1)
	require.Equal(t, "b", m.Books()[0].ID)
	require.Zero(t, m.SelectionCount())
}

func TestRemoveArmedBookDisarms(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b"))
	m.PressDelete("a")

	m.RemoveBook("a")
	require.Empty(t, m.ArmedID())
}

func TestApplyBulkResultPartialFailure(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(page("a", "b", "c"))
	m.ToggleSelectAll()

	m.ApplyBulkResult(client.BulkResult{
		Deleted: []string{"a", "c"},
		Failed:  map[string]error{"b": errors.New("not yours")},
	})

	require.Len(t, m.Books(), 1)
	require.Equal(t, "b", m.Books()[0].ID)
	// The failed book stays selected so the user sees what survived.
	require.True(t, m.IsSelected("b"))
	require.Equal(t, 1, m.SelectionCount())
}

func TestToggleSortFlipsDirection(t *testing.T) {
	m, _ := newTestModel()
	m.SetLoaded(&client.BookPage{Books: []client.Book{
		{ID: "1", Title: "zebra", Price: 10},
		{ID: "2", Title: "Apple", Price: 30},
		{ID: "3", Title: "mango", Price: 20},
	}})

	m.ToggleSort("title")
	require.True(t, m.SortAscending())
	require.Equal(t, "Apple", m.Books()[0].Title)

	m.ToggleSort("title")
	require.False(t, m.SortAscending())
	require.Equal(t, "zebra", m.Books()[0].Title)

	m.ToggleSort("price")
	require.True(t, m.SortAscending())
	require.Equal(t, float64(10), m.Books()[0].Price)
}
