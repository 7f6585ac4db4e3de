// Package main runs the chess rules API server: games over a RESTful API
// with long-polling, optional SQLite persistence and user accounts.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chessd/cli"
	"chessrules/internal/http"
	"chessrules/internal/processor"
	"chessrules/internal/service"
	"chessrules/internal/storage"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Database maintenance commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		host        = flag.String("host", "localhost", "API server host")
		port        = flag.Int("port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, WAL journal, fixed JWT secret)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		secretEnv   = flag.String("jwt-secret-env", "CHESSD_JWT_SECRET", "Environment variable holding the JWT secret")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	jwtSecret, err := loadSecret(*secretEnv, *dev)
	if err != nil {
		log.Fatalf("Failed to prepare JWT secret: %v", err)
	}

	// 2. Service, 3. Processor, 4. HTTP app
	svc, err := service.New(store, jwtSecret)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	proc := processor.New(svc)
	app := http.NewFiberApp(proc, svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *host, *port)

	go func() {
		log.Printf("Chess API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		if store != nil {
			log.Printf("Storage: Enabled (%s)", *storagePath)
			log.Printf("Auth Endpoints: http://%s/api/v1/auth/[register|login|me]", apiAddr)
		} else {
			log.Printf("Storage: Disabled (auth features unavailable)")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Service shutdown releases long-poll waiters and closes storage
	if err = svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}
	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// loadSecret reads the JWT secret from the environment, falling back to a
// fixed secret in dev mode and a random one otherwise
func loadSecret(envName string, dev bool) ([]byte, error) {
	if v := os.Getenv(envName); v != "" {
		if len(v) < service.MinSecretN {
			return nil, fmt.Errorf("$%s must be at least %d bytes, got %d", envName, service.MinSecretN, len(v))
		}
		log.Printf("Using JWT secret from $%s", envName)
		return []byte(v), nil
	}
	if dev {
		log.Printf("Using fixed JWT secret (dev mode)")
		return []byte("dev-secret-minimum-32-characters-long"), nil
	}
	secret := make([]byte, service.MinSecretN)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	log.Printf("JWT secret generated (tokens valid until restart)")
	return secret, nil
}
