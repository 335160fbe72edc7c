package books

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bookshelf/internal/pkg/pagination"
	"github.com/xyz-asif/bookshelf/internal/pkg/response"
	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create godoc
// @Summary Create a new book
// @Description Register a book in the authenticated user's collection
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookRequest true "Book data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /books [post]
func (h *Handler) Create(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	price, err := PriceToDecimal(req.Price)
	if err != nil {
		response.ValidationFailed(c, []response.FieldError{{Field: "price", Message: "price must be a valid decimal"}})
		return
	}

	book := &Book{
		UserID:        ownerID,
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Description:   req.Description,
		Price:         price,
		ISBN:          req.ISBN,
		Genre:         req.Genre,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		Pages:         req.Pages,
		Language:      req.Language,
		Condition:     req.Condition,
		Status:        req.Status,
		CoverURL:      req.CoverURL,
	}

	if book.Condition == "" {
		book.Condition = ConditionNew
	}
	if book.Status == "" {
		book.Status = StatusAvailable
	}

	if err := h.repo.Create(c.Request.Context(), book); err != nil {
		log.Printf("create book: %v", err)
		response.InternalError(c)
		return
	}

	response.Created(c, "Book created successfully.", gin.H{
		"book": book.Response(),
		"code": response.CodeBookCreated,
	})
}

// Get godoc
// @Summary Get a book by ID
// @Description Fetch one book owned by the authenticated user
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /books/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	book, ok := h.fetchOwned(c, ownerID)
	if !ok {
		return
	}

	response.OK(c, "Book found.", gin.H{"book": book.Response()})
}

// Search godoc
// @Summary Search owned books
// @Description Case-insensitive substring search over title, author and description; numeric queries also match the exact price
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /books [get]
func (h *Handler) Search(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		query = c.Query("query")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		// Listing everything is the collection endpoint's job.
		response.ValidationFailed(c, []response.FieldError{{Field: "query", Message: "search term is required"}})
		return
	}

	params := pagination.FromQuery(c.Query("page"), c.Query("limit"))

	results, total, err := h.repo.Search(c.Request.Context(), ownerID, query, params.Skip(), int64(params.Limit))
	if err != nil {
		log.Printf("search books: %v", err)
		response.InternalError(c)
		return
	}

	response.OK(c, "Search completed successfully.", gin.H{
		"books":       Responses(results),
		"pagination":  pagination.NewMeta(params, total),
		"searchQuery": query,
	})
}

// Update godoc
// @Summary Update a book
// @Description Partial update of a book owned by the authenticated user
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body UpdateBookRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /books/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	book, ok := h.fetchOwned(c, ownerID)
	if !ok {
		return
	}

	set, err := updateDocument(&req)
	if err != nil {
		response.ValidationFailed(c, []response.FieldError{{Field: "price", Message: "price must be a valid decimal"}})
		return
	}
	if len(set) == 0 {
		response.ValidationFailed(c, []response.FieldError{{Field: "body", Message: "no fields to update"}})
		return
	}

	if err := h.repo.Update(c.Request.Context(), book.ID, set); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "Book not found.", response.CodeBookNotFound)
			return
		}
		log.Printf("update book: %v", err)
		response.InternalError(c)
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), book.ID.Hex())
	if err != nil || updated == nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "Book updated successfully.", gin.H{
		"book": updated.Response(),
		"code": response.CodeBookUpdated,
	})
}

// Delete godoc
// @Summary Delete a book
// @Description Delete a book owned by the authenticated user and remove it from the owner's collection
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /books/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	book, ok := h.fetchOwned(c, ownerID)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), book.ID, ownerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, "Book not found.", response.CodeBookNotFound)
			return
		}
		log.Printf("delete book: %v", err)
		response.InternalError(c)
		return
	}

	response.OK(c, "Book deleted successfully.", gin.H{"code": response.CodeBookDeleted})
}

// fetchOwned resolves the :id param into a book the caller owns,
// answering INVALID_BOOK_ID, BOOK_NOT_FOUND or ACCESS_DENIED itself.
func (h *Handler) fetchOwned(c *gin.Context, ownerID primitive.ObjectID) (*Book, bool) {
	book, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidID) {
			response.Fail(c, http.StatusBadRequest, "Invalid book ID.", response.CodeInvalidBookID)
			return nil, false
		}
		log.Printf("get book: %v", err)
		response.InternalError(c)
		return nil, false
	}
	if book == nil {
		response.Fail(c, http.StatusNotFound, "Book not found.", response.CodeBookNotFound)
		return nil, false
	}
	if book.UserID != ownerID {
		response.Fail(c, http.StatusForbidden, "Access denied to this book.", response.CodeAccessDenied)
		return nil, false
	}
	return book, true
}

func updateDocument(req *UpdateBookRequest) (bson.M, error) {
	set := bson.M{}

	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		set["author"] = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		price, err := PriceToDecimal(*req.Price)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}
	if req.ISBN != nil {
		set["isbn"] = *req.ISBN
	}
	if req.Genre != nil {
		set["genre"] = *req.Genre
	}
	if req.Publisher != nil {
		set["publisher"] = *req.Publisher
	}
	if req.PublishedDate != nil {
		set["publishedDate"] = *req.PublishedDate
	}
	if req.Pages != nil {
		set["pages"] = *req.Pages
	}
	if req.Language != nil {
		set["language"] = *req.Language
	}
	if req.Condition != nil {
		set["condition"] = *req.Condition
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.CoverURL != nil {
		set["coverUrl"] = *req.CoverURL
	}

	return set, nil
}

func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Fail(c, http.StatusForbidden, "Invalid token.", response.CodeInvalidToken)
		c.Abort()
		return primitive.NilObjectID, false
	}
	return id, true
}
