package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds["username"])

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful.",
			"token":   "tok-123",
			"user":    map[string]any{"id": "u1", "username": "alice", "isActive": true},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	token, user, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
	require.Equal(t, "alice", user.Username)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"books": []any{}, "pagination": map[string]any{}})
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok-123" })
	_, err := c.SearchBooks(context.Background(), "dune", 1, 10)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestSearchBooksQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books", r.URL.Path)
		require.Equal(t, "dune", r.URL.Query().Get("q"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode(map[string]any{
			"books": []map[string]any{{"id": "b1", "title": "Dune"}},
			"pagination": map[string]any{
				"currentPage": 2, "totalPages": 3, "totalCount": 11,
				"hasNextPage": true, "hasPrevPage": true, "limit": 5,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.SearchBooks(context.Background(), "dune", 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	require.Equal(t, "Dune", page.Books[0].Title)
	require.Equal(t, int64(11), page.Pagination.Total())
	require.True(t, page.Pagination.HasNextPage)
}

func TestCollectionTotalBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "title", r.URL.Query().Get("sortBy"))
		require.Equal(t, "asc", r.URL.Query().Get("sortOrder"))

		json.NewEncoder(w).Encode(map[string]any{
			"books": []any{},
			"pagination": map[string]any{
				"currentPage": 1, "totalPages": 1, "totalBooks": 4,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.Collection(context.Background(), 1, 10, "title", "asc")
	require.NoError(t, err)
	require.Equal(t, int64(4), page.Pagination.Total())
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Access denied to this book.",
			"code":    "ACCESS_DENIED",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetBook(context.Background(), "b1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.Equal(t, "ACCESS_DENIED", apiErr.Code)
	require.False(t, SessionEnded(err))
}

func TestSessionEnded(t *testing.T) {
	for _, code := range []string{"NO_TOKEN", "TOKEN_EXPIRED", "INVALID_TOKEN"} {
		require.True(t, SessionEnded(&APIError{Status: 401, Code: code}))
	}
	require.False(t, SessionEnded(&APIError{Status: 404, Code: "BOOK_NOT_FOUND"}))
	require.False(t, SessionEnded(nil))
	require.False(t, SessionEnded(context.Canceled))
}

func TestDeleteBooksPartialFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, http.MethodDelete, r.Method)

		if r.URL.Path == "/books/bad" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"message": "Book not found.",
				"code":    "BOOK_NOT_FOUND",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"code": "BOOK_DELETED"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	result := c.DeleteBooks(context.Background(), []string{"b1", "bad", "b2"})

	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.False(t, result.AllOK())
	require.ElementsMatch(t, []string{"b1", "b2"}, result.Deleted)
	require.Len(t, result.Failed, 1)

	var apiErr *APIError
	require.ErrorAs(t, result.Failed["bad"], &apiErr)
	require.Equal(t, "BOOK_NOT_FOUND", apiErr.Code)
}

func TestErrorBodyWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.DeleteBook(context.Background(), "b1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.NotEmpty(t, apiErr.Message)
}
