package main

import (
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/config"
	"github.com/laptev-dv/diploma-backend/internal/database"
	logger "github.com/laptev-dv/diploma-backend/internal/logging"
	"github.com/laptev-dv/diploma-backend/internal/router"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Setup router, passing the logger to it
	r := router.Setup(log)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
