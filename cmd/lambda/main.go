package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
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

	h := api.NewLambdaHandler(convert.NewService(cfg, logger))
	lambda.Start(h.Handle)
}
