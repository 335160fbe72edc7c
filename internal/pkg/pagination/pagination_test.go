package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromQueryDefaults(t *testing.T) {
	p := FromQuery("", "")
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
}

func TestFromQueryClamps(t *testing.T) {
	p := FromQuery("-3", "0")
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)

	p = FromQuery("2", "5000")
	require.Equal(t, 2, p.Page)
	require.Equal(t, MaxLimit, p.Limit)

	p = FromQuery("abc", "xyz")
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
}

func TestSkip(t *testing.T) {
	require.Equal(t, int64(0), Params{Page: 1, Limit: 10}.Skip())
	require.Equal(t, int64(20), Params{Page: 3, Limit: 10}.Skip())
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(Params{Page: 2, Limit: 10}, 35)
	require.Equal(t, 2, m.CurrentPage)
	require.Equal(t, 4, m.TotalPages)
	require.Equal(t, int64(35), m.TotalCount)
	require.True(t, m.HasNextPage)
	require.True(t, m.HasPrevPage)
}

func TestNewMetaBeyondLastPage(t *testing.T) {
	m := NewMeta(Params{Page: 9, Limit: 10}, 35)
	require.Equal(t, 9, m.CurrentPage)
	require.Equal(t, 4, m.TotalPages)
	require.False(t, m.HasNextPage)
	require.True(t, m.HasPrevPage)
}

func TestNewMetaEmpty(t *testing.T) {
	m := NewMeta(Params{Page: 1, Limit: 10}, 0)
	require.Equal(t, 0, m.TotalPages)
	require.False(t, m.HasNextPage)
	require.False(t, m.HasPrevPage)
}
