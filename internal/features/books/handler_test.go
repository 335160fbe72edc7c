package books

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateDocumentPartial(t *testing.T) {
	title := "  Dune Messiah  "
	price := 45.5
	req := &UpdateBookRequest{Title: &title, Price: &price}

	set, err := updateDocument(req)
	require.NoError(t, err)
	require.Len(t, set, 2)
	require.Equal(t, "Dune Messiah", set["title"])

	want, err := PriceToDecimal(price)
	require.NoError(t, err)
	require.Equal(t, want, set["price"])
	require.NotContains(t, set, "author")
}

func TestUpdateDocumentEmpty(t *testing.T) {
	set, err := updateDocument(&UpdateBookRequest{})
	require.NoError(t, err)
	require.Empty(t, set)
}
