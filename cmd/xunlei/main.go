package main

import (
	"log"

	"github.com/joho/godotenv"

	"xunlei/internal/config"
	"xunlei/internal/launcher"
)

func main() {
	// A missing .env is fine; the environment itself is authoritative.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := launcher.New(cfg).Run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
