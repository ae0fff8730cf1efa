package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/stampcard/internal/server/http/handlers"
	"github.com/polkiloo/stampcard/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StampFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	programHandler := handlers.NewProgramHandler(facade)
	cardHandler := handlers.NewCardHandler(facade)
	stampHandler := handlers.NewStampHandler(facade, facade)

	api := engine.Group("/api")
	operator := api.Group("/operator")
	operator.POST("/register", authHandler.Register)
	operator.POST("/login", authHandler.Login)

	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired(facade))

	authorized.POST("/programs", programHandler.Create)
	authorized.GET("/programs", programHandler.List)
	authorized.GET("/programs/:id/cards", cardHandler.ListByProgram)

	authorized.POST("/cards", cardHandler.Enroll)
	authorized.GET("/cards/:id", cardHandler.Get)
	authorized.POST("/cards/:id/batch", stampHandler.OpenBatch)
	authorized.POST("/cards/:id/stamps", stampHandler.Grant)
	authorized.POST("/cards/:id/claim", stampHandler.Claim)
	authorized.POST("/cards/:id/reset", stampHandler.Reset)
	authorized.GET("/cards/:id/redemptions", stampHandler.Redemptions)

	authorized.POST("/batches/:session/tap", stampHandler.Tap)
	authorized.POST("/batches/:session/commit", stampHandler.Commit)
	authorized.DELETE("/batches/:session", stampHandler.Cancel)

	return engine
}
