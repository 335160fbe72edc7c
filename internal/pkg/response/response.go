package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Machine-readable codes carried next to every error message and on
// mutation acknowledgements.
const (
	CodeNoToken            = "NO_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidBookID      = "INVALID_BOOK_ID"
	CodeBookNotFound       = "BOOK_NOT_FOUND"
	CodeAccessDenied       = "ACCESS_DENIED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBookCreated        = "BOOK_CREATED"
	CodeBookUpdated        = "BOOK_UPDATED"
	CodeBookDeleted        = "BOOK_DELETED"
	CodePasswordReset      = "PASSWORD_RESET_SUCCESS"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Message string       `json:"message" example:"Access denied to this book."`
	Code    string       `json:"code" example:"ACCESS_DENIED"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError attaches a validation message to the offending field.
type FieldError struct {
	Field   string `json:"field" example:"price"`
	Message string `json:"message" example:"price must be positive"`
}

// OK sends a 200 with a message merged into the given payload.
func OK(c *gin.Context, message string, payload gin.H) {
	send(c, http.StatusOK, message, payload)
}

// Created sends a 201 with a message merged into the given payload.
func Created(c *gin.Context, message string, payload gin.H) {
	send(c, http.StatusCreated, message, payload)
}

func send(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail sends an error response with a message and machine-readable code.
func Fail(c *gin.Context, status int, message, code string) {
	c.JSON(status, ErrorBody{Message: message, Code: code})
}

// BindError answers a request body that failed binding. Validator
// violations get field-level messages; anything else is a format error.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ValidationFailed(c, fieldErrors(verrs))
		return
	}
	Fail(c, http.StatusBadRequest, "Invalid request format.", CodeValidationError)
}

// ValidationFailed sends the standard 400 validation payload.
func ValidationFailed(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Message: "Invalid data.",
		Code:    CodeValidationError,
		Errors:  errs,
	})
}

// InternalError logs nothing itself; handlers log, callers get a
// generic message.
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "Internal server error.", CodeInternalError)
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must have at most " + fe.Param() + " characters"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "lt":
		return fe.Field() + " must be less than " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "isbn_shape":
		return fe.Field() + " must be a valid ISBN-10 or ISBN-13"
	case "bookcover":
		return fe.Field() + " must be an absolute http(s) image URL"
	case "notfuture":
		return fe.Field() + " must not be in the future"
	default:
		return fe.Field() + " is invalid"
	}
}
