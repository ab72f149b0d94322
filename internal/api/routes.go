package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(methodNotAllowed)

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/convert", h.convertHandler)
		// route of the original serverless function
		api.GET("/ConvertImageFunction", h.convertHandler)
		api.GET("/preview", h.previewHandler)
	}
}
