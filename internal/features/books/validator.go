package books

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	isbn10Regex = regexp.MustCompile(`^\d{9}[\dXx]$`)
	isbn13Regex = regexp.MustCompile(`^\d{13}$`)
)

// Hosts that serve covers without an image extension in the path.
var imageCDNHosts = map[string]bool{
	"images.unsplash.com":    true,
	"i.imgur.com":            true,
	"m.media-amazon.com":     true,
	"books.google.com":       true,
	"covers.openlibrary.org": true,
	"res.cloudinary.com":     true,
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// RegisterValidations wires the book-specific rules into the gin
// binding validator.
func RegisterValidations(v *validator.Validate) {
	v.RegisterValidation("isbn_shape", func(fl validator.FieldLevel) bool {
		return IsValidISBN(fl.Field().String())
	})
	v.RegisterValidation("bookcover", func(fl validator.FieldLevel) bool {
		return IsValidCoverURL(fl.Field().String())
	})
	v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(time.Now())
	})
}

// IsValidISBN checks the ISBN-10/13 shape after stripping separators.
// Uniqueness is advisory only and not checked here.
func IsValidISBN(isbn string) bool {
	normalized := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	return isbn10Regex.MatchString(normalized) || isbn13Regex.MatchString(normalized)
}

// IsValidCoverURL accepts absolute http(s) URLs that either end in a
// recognized image extension or live on a known image CDN host.
func IsValidCoverURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	if imageCDNHosts[strings.ToLower(u.Hostname())] {
		return true
	}

	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
