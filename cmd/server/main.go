package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/imgconvert/internal/api"
	"github.com/youruser/imgconvert/internal/config"
	"github.com/youruser/imgconvert/internal/convert"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	r := gin.Default()
	api.RegisterRoutes(r, api.NewHandler(convert.NewService(cfg, logger)))

	logger.Info("starting server", zap.String("addr", "http://localhost:"+cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
