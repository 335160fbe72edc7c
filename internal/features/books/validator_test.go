package books

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestIsValidISBN(t *testing.T) {
	valid := []string{
		"9780441013593",
		"978-0-441-01359-3",
		"0441013597",
		"044101359X",
		"0 441 01359 7",
	}
	for _, isbn := range valid {
		require.True(t, IsValidISBN(isbn), "expected %q to be valid", isbn)
	}

	invalid := []string{
		"",
		"12345",
		"978044101359",   // 12 digits
		"97804410135931", // 14 digits
		"044101359Y",     // bad check char
		"X441013597",     // X only allowed last
		"isbn9780441013593",
	}
	for _, isbn := range invalid {
		require.False(t, IsValidISBN(isbn), "expected %q to be invalid", isbn)
	}
}

func TestIsValidCoverURL(t *testing.T) {
	valid := []string{
		"https://example.com/covers/dune.jpg",
		"http://example.com/a.PNG",
		"https://cdn.example.com/deep/path/cover.webp",
		"https://images.unsplash.com/photo-1544947950",
		"https://covers.openlibrary.org/b/id/8101356-L",
		"https://res.cloudinary.com/demo/image/upload/book",
	}
	for _, raw := range valid {
		require.True(t, IsValidCoverURL(raw), "expected %q to be valid", raw)
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com/cover.jpg",
		"/relative/cover.jpg",
		"https://example.com/page.html",
		"https://example.com/cover",
	}
	for _, raw := range invalid {
		require.False(t, IsValidCoverURL(raw), "expected %q to be invalid", raw)
	}
}

func bindingValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	RegisterValidations(v)
	return v
}

func TestCreateRequestBounds(t *testing.T) {
	v := bindingValidator(t)

	valid := CreateBookRequest{Title: "Dune", Author: "Frank Herbert", Price: 29.9}
	require.NoError(t, v.Struct(valid))

	cases := map[string]CreateBookRequest{
		"missing title":   {Author: "a", Price: 1},
		"missing price":   {Title: "t", Author: "a"},
		"negative price":  {Title: "t", Author: "a", Price: -1},
		"price too large": {Title: "t", Author: "a", Price: 100000},
		"bad isbn":        {Title: "t", Author: "a", Price: 1, ISBN: "12345"},
		"bad condition":   {Title: "t", Author: "a", Price: 1, Condition: "Mint"},
		"bad status":      {Title: "t", Author: "a", Price: 1, Status: "lost"},
		"too many pages":  {Title: "t", Author: "a", Price: 1, Pages: 10001},
		"bad cover":       {Title: "t", Author: "a", Price: 1, CoverURL: "ftp://x/y.jpg"},
	}
	for name, req := range cases {
		require.Error(t, v.Struct(req), name)
	}
}

func TestCreateRequestRejectsFutureDate(t *testing.T) {
	v := bindingValidator(t)

	future := time.Now().Add(48 * time.Hour)
	req := CreateBookRequest{Title: "t", Author: "a", Price: 1, PublishedDate: &future}
	require.Error(t, v.Struct(req))

	past := time.Now().Add(-48 * time.Hour)
	req.PublishedDate = &past
	require.NoError(t, v.Struct(req))
}

func TestUpdateRequestAllOptional(t *testing.T) {
	v := bindingValidator(t)
	require.NoError(t, v.Struct(UpdateBookRequest{}))

	empty := ""
	require.Error(t, v.Struct(UpdateBookRequest{Title: &empty}))

	bad := -5.0
	require.Error(t, v.Struct(UpdateBookRequest{Price: &bad}))
}
