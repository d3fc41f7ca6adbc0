// Package main is the entry point for the Green Haven storefront.
//
// @title           Green Haven API
// @version         1.0.0
// @description     JSON API of the Green Haven houseplant storefront: the plant catalog and the per-session shopping cart.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/green-haven
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Catalog
// @tag.description Plant catalog
//
// @tag.name        Cart
// @tag.description Shopper session cart
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/green-haven/docs" // swagger docs

	"github.com/guttosm/green-haven/config"
	"github.com/guttosm/green-haven/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port)
	runErr := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = application.Close(ctx)

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
