package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Matuku45/shuttle-booking-system/internal/config"
	api "github.com/Matuku45/shuttle-booking-system/internal/http"
	"github.com/Matuku45/shuttle-booking-system/internal/repositories"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	config.ConnectDB(env)
	defer config.CloseDB()

	if err := bootstrapSchema(); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	r := api.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}

func bootstrapSchema() error {
	ctx := context.Background()
	if err := (repositories.UserRepository{}).EnsureTable(ctx); err != nil {
		return err
	}
	if err := (repositories.ShuttleRepository{}).EnsureTable(ctx); err != nil {
		return err
	}
	if err := (repositories.BookingRepository{}).EnsureTable(ctx); err != nil {
		return err
	}
	return (repositories.PaymentRepository{}).EnsureTable(ctx)
}
