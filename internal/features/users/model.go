package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the stored account document. The password hash never leaves
// the server; responses go through PublicUser.
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Username        string               `bson:"username"`
	Password        string               `bson:"password"`
	IsActive        bool                 `bson:"isActive"`
	CollectionBooks []primitive.ObjectID `bson:"collectionBooks"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

// PublicUser is the response shape of an account.
type PublicUser struct {
	ID              primitive.ObjectID   `json:"id"`
	Username        string               `json:"username"`
	IsActive        bool                 `json:"isActive"`
	CollectionBooks []primitive.ObjectID `json:"collectionBooks"`
	CreatedAt       time.Time            `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	books := u.CollectionBooks
	if books == nil {
		books = []primitive.ObjectID{}
	}
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		IsActive:        u.IsActive,
		CollectionBooks: books,
		CreatedAt:       u.CreatedAt,
	}
}

// RegisterRequest is the payload for account creation.
// @Description Data required to register a new account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"alice"`
	Password string `json:"password" binding:"required,min=6,max=100" example:"secret1"`
}

// LoginRequest is the payload for token issuance.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// ResetPasswordRequest replaces the caller's password. The caller is
// identified by the bearer token, not by a user id in the body.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6,max=100"`
}

// CollectionMeta is the pagination block of the collection endpoint.
// It keeps the historical totalBooks/nextPage/prevPage naming.
type CollectionMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalBooks  int64 `json:"totalBooks"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}
