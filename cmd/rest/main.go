package main

import (
	"context"
	"log"

	"promptpix-be/internal/bootstrap"
	"promptpix-be/internal/config"
	"promptpix-be/internal/server"
	"promptpix-be/internal/tracer"
	"promptpix-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Webhook Worker...")
		if err := container.WebhookWorker.Consume(context.Background()); err != nil {
			log.Printf("Background Webhook Worker Error: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Reconciler...")
		container.ReconcilerService.Run(context.Background())
	}()

	if container.ConsumerService != nil {
		go func() {
			log.Println("Background: Starting Event Consumer...")
			if err := container.ConsumerService.Start(context.Background()); err != nil {
				log.Printf("Background Consumer Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
