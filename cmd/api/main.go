package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"sellerdash/auth"
	"sellerdash/bid"
	"sellerdash/db"
	"sellerdash/dispute"
	"sellerdash/earnings"
	"sellerdash/httpapi"
)

func main() {
	ctx := context.Background()

	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	authService := auth.NewService(auth.NewRepository(pool), jwtSecret)
	bidService := bid.NewService(bid.NewRepository(pool))
	disputeService := dispute.NewService(dispute.NewRepository(pool), bidService)
	earningsService := earnings.NewService(earnings.NewRepository(pool), disputeService)

	handler := httpapi.NewHandler(authService, disputeService, earningsService)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("seller dashboard API listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
