package main

import (
	"pos/config"
	"pos/di"
	"pos/helper"
	"pos/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title POS API
// @version 1.0
// @description Restaurant point-of-sale backend: orders, kitchen tickets, bills, tables and reservations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
