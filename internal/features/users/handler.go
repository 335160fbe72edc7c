package users

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/xyz-asif/bookshelf/internal/config"
	"github.com/xyz-asif/bookshelf/internal/features/books"
	"github.com/xyz-asif/bookshelf/internal/pkg/pagination"
	"github.com/xyz-asif/bookshelf/internal/pkg/response"
	"github.com/xyz-asif/bookshelf/internal/pkg/token"
	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

// Fields the collection endpoint accepts for sorting.
var sortableFields = map[string]bool{
	"title":     true,
	"author":    true,
	"price":     true,
	"createdAt": true,
	"updatedAt": true,
}

type Handler struct {
	repo *Repository
	cfg  *config.Config
}

func NewHandler(repo *Repository, cfg *config.Config) *Handler {
	return &Handler{repo: repo, cfg: cfg}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with a unique username
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /users/create [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cfg.BcryptCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		response.InternalError(c)
		return
	}

	user := &User{
		Username: req.Username,
		Password: string(hash),
		IsActive: true,
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			response.Fail(c, http.StatusConflict, "Username already in use.", response.CodeUsernameExists)
			return
		}
		log.Printf("create user: %v", err)
		response.InternalError(c)
		return
	}

	response.Created(c, "User created successfully.", gin.H{"user": user.Public()})
}

// Login godoc
// @Summary Login
// @Description Authenticate and receive a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /users [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.repo.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		log.Printf("find user: %v", err)
		response.InternalError(c)
		return
	}

	// Unknown username and wrong password answer identically so
	// callers cannot enumerate accounts.
	if user == nil {
		invalidCredentials(c)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		invalidCredentials(c)
		return
	}

	if !user.IsActive {
		response.Fail(c, http.StatusForbidden, "User account is inactive.", response.CodeAccountInactive)
		return
	}

	tok, err := token.Generate(h.cfg.JWTSecret, h.cfg.JWTExpiry(), user.ID.Hex(), user.Username)
	if err != nil {
		log.Printf("generate token: %v", err)
		response.InternalError(c)
		return
	}

	response.OK(c, "Login successful.", gin.H{
		"token": tok,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"isActive": user.IsActive,
		},
	})
}

// ResetPassword godoc
// @Summary Reset the caller's password
// @Description Replace the authenticated user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/reset [put]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.repo.FindByID(c.Request.Context(), c.GetString("userID"))
	if err != nil || user == nil {
		response.Fail(c, http.StatusNotFound, "User not found.", response.CodeUserNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.cfg.BcryptCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		response.InternalError(c)
		return
	}

	if err := h.repo.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "User not found.", response.CodeUserNotFound)
			return
		}
		log.Printf("update password: %v", err)
		response.InternalError(c)
		return
	}

	response.OK(c, "Password reset successfully.", gin.H{"code": response.CodePasswordReset})
}

// GetCollection godoc
// @Summary Get the caller's book collection
// @Description Paginated, sortable page of the authenticated user's books
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param sortBy query string false "Sort field (title, author, price, createdAt, updatedAt)"
// @Param sortOrder query string false "asc or desc (default desc)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users [get]
func (h *Handler) GetCollection(c *gin.Context) {
	user, err := h.repo.FindByID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		log.Printf("find user: %v", err)
		response.InternalError(c)
		return
	}
	if user == nil {
		response.Fail(c, http.StatusNotFound, "User not found.", response.CodeUserNotFound)
		return
	}

	params := pagination.FromQuery(c.Query("page"), c.Query("limit"))

	sortBy := c.Query("sortBy")
	if !sortableFields[sortBy] {
		sortBy = "createdAt"
	}
	sortOrder := -1
	if c.Query("sortOrder") == "asc" {
		sortOrder = 1
	}

	// Reconcile dangling ids before counting, so a half-finished
	// delete never inflates the collection. Best effort: a failed
	// prune only delays the cleanup to the next read.
	ownedIDs, err := h.repo.PruneCollection(c.Request.Context(), user.ID, user.CollectionBooks)
	if err != nil {
		log.Printf("prune collection: %v", err)
		ownedIDs = user.CollectionBooks
	}

	totalBooks := int64(len(ownedIDs))

	results, err := h.repo.CollectionPage(c.Request.Context(), ownedIDs, sortBy, sortOrder, params.Skip(), int64(params.Limit))
	if err != nil {
		log.Printf("collection page: %v", err)
		response.InternalError(c)
		return
	}

	response.OK(c, "Book collection retrieved successfully.", gin.H{
		"books":      books.Responses(results),
		"pagination": collectionMeta(params, totalBooks),
	})
}

func collectionMeta(p pagination.Params, total int64) CollectionMeta {
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))

	meta := CollectionMeta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalBooks:  total,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
		Limit:       p.Limit,
	}
	if meta.HasNextPage {
		next := p.Page + 1
		meta.NextPage = &next
	}
	if meta.HasPrevPage {
		prev := p.Page - 1
		meta.PrevPage = &prev
	}
	return meta
}

func invalidCredentials(c *gin.Context) {
	response.Fail(c, http.StatusUnauthorized, "Invalid credentials.", response.CodeInvalidCredentials)
}
