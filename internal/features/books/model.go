package books

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Condition values a book can be registered with.
const (
	ConditionNew     = "Novo"
	ConditionLikeNew = "Seminovo"
	ConditionUsed    = "Usado"
)

// Status values of a book in the owner's collection.
const (
	StatusAvailable   = "disponivel"
	StatusRented      = "alugado"
	StatusUnavailable = "indisponivel"
	StatusSold        = "vendido"
)

// Book is the stored document. Price is kept as Decimal128 so currency
// never picks up binary floating-point drift; responses carry it as a
// plain number via Response().
type Book struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	UserID        primitive.ObjectID   `bson:"user"`
	Title         string               `bson:"title"`
	Author        string               `bson:"author"`
	Description   string               `bson:"description,omitempty"`
	Price         primitive.Decimal128 `bson:"price"`
	ISBN          string               `bson:"isbn,omitempty"`
	Genre         string               `bson:"genre,omitempty"`
	Publisher     string               `bson:"publisher,omitempty"`
	PublishedDate *time.Time           `bson:"publishedDate,omitempty"`
	Pages         int                  `bson:"pages,omitempty"`
	Language      string               `bson:"language,omitempty"`
	Condition     string               `bson:"condition"`
	Status        string               `bson:"status"`
	CoverURL      string               `bson:"coverUrl,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

// BookResponse is the JSON shape of a book, price decoded to a number.
type BookResponse struct {
	ID            primitive.ObjectID `json:"id"`
	UserID        primitive.ObjectID `json:"user"`
	Title         string             `json:"title"`
	Author        string             `json:"author"`
	Description   string             `json:"description,omitempty"`
	Price         float64            `json:"price"`
	ISBN          string             `json:"isbn,omitempty"`
	Genre         string             `json:"genre,omitempty"`
	Publisher     string             `json:"publisher,omitempty"`
	PublishedDate *time.Time         `json:"publishedDate,omitempty"`
	Pages         int                `json:"pages,omitempty"`
	Language      string             `json:"language,omitempty"`
	Condition     string             `json:"condition"`
	Status        string             `json:"status"`
	CoverURL      string             `json:"coverUrl,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Response converts the stored document into its wire form.
func (b *Book) Response() BookResponse {
	price, _ := strconv.ParseFloat(b.Price.String(), 64)
	return BookResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Price:         price,
		ISBN:          b.ISBN,
		Genre:         b.Genre,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate,
		Pages:         b.Pages,
		Language:      b.Language,
		Condition:     b.Condition,
		Status:        b.Status,
		CoverURL:      b.CoverURL,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// Responses converts a page of documents.
func Responses(list []Book) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].Response())
	}
	return out
}

// PriceToDecimal converts a request price into the fixed-point storage
// form. FormatFloat with -1 precision keeps the shortest exact
// representation, so 29.9 stores as 29.9.
func PriceToDecimal(price float64) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(strconv.FormatFloat(price, 'f', -1, 64))
}

// CreateBookRequest carries the fields accepted on creation.
// @Description Data required to register a new book
type CreateBookRequest struct {
	Title         string     `json:"title" binding:"required,max=200" example:"Dune"`
	Author        string     `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	Description   string     `json:"description" binding:"omitempty,max=2000"`
	Price         float64    `json:"price" binding:"required,gt=0,lt=100000" example:"29.9"`
	ISBN          string     `json:"isbn" binding:"omitempty,max=50,isbn_shape" example:"9780441013593"`
	Genre         string     `json:"genre" binding:"omitempty,max=50"`
	Publisher     string     `json:"publisher" binding:"omitempty,max=100"`
	PublishedDate *time.Time `json:"publishedDate" binding:"omitempty,notfuture"`
	Pages         int        `json:"pages" binding:"omitempty,gt=0,lte=10000"`
	Language      string     `json:"language" binding:"omitempty,max=30"`
	Condition     string     `json:"condition" binding:"omitempty,oneof=Novo Seminovo Usado"`
	Status        string     `json:"status" binding:"omitempty,oneof=disponivel alugado indisponivel vendido"`
	CoverURL      string     `json:"coverUrl" binding:"omitempty,bookcover"`
}

// UpdateBookRequest carries a partial merge; every field optional but
// validated under the same constraints as creation.
// @Description Data for partially updating an existing book
type UpdateBookRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Author        *string    `json:"author" binding:"omitempty,min=1,max=100"`
	Description   *string    `json:"description" binding:"omitempty,max=2000"`
	Price         *float64   `json:"price" binding:"omitempty,gt=0,lt=100000"`
	ISBN          *string    `json:"isbn" binding:"omitempty,max=50,isbn_shape"`
	Genre         *string    `json:"genre" binding:"omitempty,max=50"`
	Publisher     *string    `json:"publisher" binding:"omitempty,max=100"`
	PublishedDate *time.Time `json:"publishedDate" binding:"omitempty,notfuture"`
	Pages         *int       `json:"pages" binding:"omitempty,gt=0,lte=10000"`
	Language      *string    `json:"language" binding:"omitempty,max=30"`
	Condition     *string    `json:"condition" binding:"omitempty,oneof=Novo Seminovo Usado"`
	Status        *string    `json:"status" binding:"omitempty,oneof=disponivel alugado indisponivel vendido"`
	CoverURL      *string    `json:"coverUrl" binding:"omitempty,bookcover"`
}
