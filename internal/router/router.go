package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devops-summer22-promotions/promotions/internal/handler"
	"github.com/devops-summer22-promotions/promotions/internal/middleware"
	"github.com/devops-summer22-promotions/promotions/internal/service"
)

// RegisterRoutes registers every endpoint of the service.
func RegisterRoutes(engine *gin.Engine, services *service.Registry) {
	engine.Use(middleware.CORSMiddleware())

	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{
			"status":  http.StatusMethodNotAllowed,
			"error":   http.StatusText(http.StatusMethodNotAllowed),
			"message": ctx.Request.Method + " is not allowed on " + ctx.Request.URL.Path,
		})
	})

	engine.GET("/", handler.Index)
	engine.GET("/health", handler.Health)

	promoHandler := handler.NewPromotionHandler(services.Promotion)
	promoGroup := engine.Group("/promotions")
	promoGroup.GET("", promoHandler.List)
	promoGroup.POST("", promoHandler.Create)
	promoGroup.GET("/:id", promoHandler.Get)
	promoGroup.PUT("/:id", promoHandler.Update)
	promoGroup.DELETE("/:id", promoHandler.Delete)
	promoGroup.PUT("/:id/cancel", promoHandler.Cancel)
}
