//go:generate swag init -g internal/recipes/http/router.go -d ../../ -o ../../api/recipes --packageName recipes --parseDependency

package main

import (
	"log"

	"github.com/aussiebroadwan/recipebox/internal/recipes/app"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
