// Command server runs the OpsRota HTTP API.
//
// Configuration comes from CONFIG_PATH (or ./config.yaml) with
// environment variable overrides. Exit codes: 0 = clean shutdown,
// 1 = startup or runtime error.
package main

import (
	"context"
	"log"

	"github.com/opsrota/opsrota-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("run: %v", err)
	}
}
