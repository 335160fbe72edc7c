package books

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/bookshelf/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, secret string, resolver middleware.IdentityResolver) {
	repo := NewRepository(db)
	handler := NewHandler(repo)

	group := router.Group("/books")
	group.Use(middleware.Auth(secret, resolver)) // every book route is ownership-gated
	{
		group.POST("", handler.Create)
		group.GET("", handler.Search)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}
}
