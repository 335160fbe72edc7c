package users

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/bookshelf/internal/config"
	"github.com/xyz-asif/bookshelf/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, resolver middleware.IdentityResolver) {
	repo := NewRepository(db)
	handler := NewHandler(repo, cfg)

	group := router.Group("/users")
	{
		group.POST("/create", handler.Register)
		group.POST("", handler.Login)

		protected := group.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret, resolver))
		{
			protected.PUT("/reset", handler.ResetPassword)
			protected.GET("", handler.GetCollection)
		}
	}
}
