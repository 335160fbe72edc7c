package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreshSession(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	require.False(t, s.LoggedIn())
	require.Equal(t, ViewTable, s.ViewMode())
	require.Empty(t, s.SearchTerm())
}

func TestLoginPersistsToken(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, s.Login("tok-123"))
	require.True(t, s.LoggedIn())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	require.True(t, reloaded.LoggedIn())
	require.Equal(t, "tok-123", reloaded.Token())
}

func TestViewModePersists(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetViewMode(ViewCard))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, ViewCard, reloaded.ViewMode())
}

func TestSearchTermNotPersisted(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	s.SetSearchTerm("dune")
	require.Equal(t, "dune", s.SearchTerm())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, reloaded.SearchTerm())
}

func TestLogoutClearsEverything(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, s.Login("tok-123"))
	require.NoError(t, s.SetViewMode(ViewCard))
	s.SetSearchTerm("dune")

	require.NoError(t, s.Logout())
	require.False(t, s.LoggedIn())
	require.Equal(t, ViewTable, s.ViewMode())
	require.Empty(t, s.SearchTerm())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	require.False(t, reloaded.LoggedIn())
	require.Equal(t, ViewTable, reloaded.ViewMode())
}

func TestLogoutWhenNothingStored(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Logout())
}

func TestSetViewModeRejectsUnknown(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.SetViewMode("spreadsheet"))
	require.Equal(t, ViewTable, s.ViewMode())
}
