// The deletion Lambda entrypoint. Configuration comes from the function
// environment; events arrive through the Lambda runtime API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/codelynx/photolala-deletion/internal/config"
	"github.com/codelynx/photolala-deletion/internal/handler"
	"github.com/codelynx/photolala-deletion/internal/logging"
)

func main() {
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	cfg := config.LoadConfig()

	ctx := context.Background()
	h, err := handler.Build(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "deletion handler ready",
		"environment", cfg.Environment, "bucket", cfg.BucketName)
	lambda.Start(h.Handle)
}
