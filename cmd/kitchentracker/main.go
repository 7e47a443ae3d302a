package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/backup"
	"github.com/mseewaters/kitchen-tracker/internal/database"
	"github.com/mseewaters/kitchen-tracker/internal/logging"
	"github.com/mseewaters/kitchen-tracker/internal/server"
)

func main() {
	port := os.Getenv("KITCHEN_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("KITCHEN_DB_PATH")
	if dbPath == "" {
		dbPath = "kitchen.db"
	}

	logger := logging.Setup(os.Getenv("KITCHEN_LOG_LEVEL"))

	loc := time.Local
	if tz := os.Getenv("KITCHEN_TZ"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("invalid KITCHEN_TZ %q: %v", tz, err)
		}
		loc = l
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := server.Config{
		Location: loc,
		Backup: backup.Config{
			DBPath: dbPath,
			S3: backup.S3Config{
				Endpoint:  os.Getenv("KITCHEN_S3_ENDPOINT"),
				Region:    os.Getenv("KITCHEN_S3_REGION"),
				Bucket:    os.Getenv("KITCHEN_S3_BUCKET"),
				AccessKey: os.Getenv("KITCHEN_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("KITCHEN_S3_SECRET_KEY"),
			},
		},
		VAPIDPublicKey:  os.Getenv("KITCHEN_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("KITCHEN_VAPID_PRIVATE_KEY"),
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.BackupManager().Start(ctx)
	srv.PushScheduler().Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Kitchen tracker running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	srv.PushScheduler().Stop()
	srv.BackupManager().Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
