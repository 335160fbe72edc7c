package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/bookshelf/internal/config"
	"github.com/xyz-asif/bookshelf/internal/features/books"
	"github.com/xyz-asif/bookshelf/internal/features/users"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		books.RegisterValidations(v)
	}

	api := router.Group("")

	// The users repository doubles as the identity source for the
	// auth middleware on every protected route.
	resolver := users.NewResolver(users.NewRepository(db))

	users.RegisterRoutes(api, db, cfg, resolver)
	books.RegisterRoutes(api, db, cfg.JWTSecret, resolver)
}
