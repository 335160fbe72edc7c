// Package client is a typed consumer of the bookshelf REST API. Every
// request carries a fixed timeout and failures map to APIError values;
// nothing is retried automatically.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const DefaultTimeout = 10 * time.Second

// ErrTimeout marks a request that hit the client-side deadline. The
// user retries by re-triggering the action.
var ErrTimeout = errors.New("request timed out")

// APIError is a decoded error response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// SessionEnded reports whether an error means the stored credential is
// no longer usable and the client must drop to the logged-out state.
func SessionEnded(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case "NO_TOKEN", "TOKEN_EXPIRED", "INVALID_TOKEN":
		return true
	}
	return false
}

// Book mirrors the server's book response shape.
type Book struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price"`
	ISBN          string     `json:"isbn,omitempty"`
	Genre         string     `json:"genre,omitempty"`
	Publisher     string     `json:"publisher,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	Pages         int        `json:"pages,omitempty"`
	Language      string     `json:"language,omitempty"`
	Condition     string     `json:"condition"`
	Status        string     `json:"status"`
	CoverURL      string     `json:"coverUrl,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Pagination covers both list endpoints; search reports totalCount,
// the collection endpoint totalBooks.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	TotalBooks  int64 `json:"totalBooks"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

// Total returns whichever count the endpoint filled in.
func (p Pagination) Total() int64 {
	if p.TotalCount > 0 {
		return p.TotalCount
	}
	return p.TotalBooks
}

// BookPage is one page of books plus its pagination block.
type BookPage struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

// User mirrors the server's public user shape.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"isActive"`
}

// BookInput carries fields for create and partial update. Nil fields
// are omitted from the request body.
type BookInput struct {
	Title         *string    `json:"title,omitempty"`
	Author        *string    `json:"author,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	ISBN          *string    `json:"isbn,omitempty"`
	Genre         *string    `json:"genre,omitempty"`
	Publisher     *string    `json:"publisher,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	Pages         *int       `json:"pages,omitempty"`
	Language      *string    `json:"language,omitempty"`
	Condition     *string    `json:"condition,omitempty"`
	Status        *string    `json:"status,omitempty"`
	CoverURL      *string    `json:"coverUrl,omitempty"`
}

// BulkResult is the aggregate outcome of a concurrent multi-delete.
// Succeeded deletions stay deleted even when others fail.
type BulkResult struct {
	Deleted []string
	Failed  map[string]error
}

func (r BulkResult) AllOK() bool { return len(r.Failed) == 0 }

type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// New builds a client for the given base URL. tokenSource is consulted
// per request; an empty string sends no Authorization header.
func New(baseURL string, tokenSource func() string) *Client {
	if tokenSource == nil {
		tokenSource = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		token:   tokenSource,
	}
}

func (c *Client) Register(ctx context.Context, username, password string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/users/create", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, *User, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/users", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", nil, err
	}
	return out.Token, &out.User, nil
}

func (c *Client) ResetPassword(ctx context.Context, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/users/reset", map[string]string{
		"newPassword": newPassword,
	}, nil)
}

func (c *Client) Collection(ctx context.Context, page, limit int, sortBy, sortOrder string) (*BookPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if sortOrder != "" {
		q.Set("sortOrder", sortOrder)
	}

	var out BookPage
	if err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchBooks(ctx context.Context, query string, page, limit int) (*BookPage, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out BookPage
	if err := c.do(ctx, http.MethodGet, "/books?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBook(ctx context.Context, input BookInput) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPost, "/books", input, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

func (c *Client) UpdateBook(ctx context.Context, id string, input BookInput) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), input, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil)
}

// DeleteBooks issues one delete per id concurrently and waits for the
// whole set to settle, reporting a single aggregate outcome.
func (c *Client) DeleteBooks(ctx context.Context, ids []string) BulkResult {
	result := BulkResult{Failed: make(map[string]error)}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := c.DeleteBook(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
			} else {
				result.Deleted = append(result.Deleted, id)
			}
		}(id)
	}
	wg.Wait()

	return result
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return ErrTimeout
		}
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var wire struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if json.Unmarshal(payload, &wire) == nil {
			apiErr.Message = wire.Message
			apiErr.Code = wire.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}
