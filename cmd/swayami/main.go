package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/saulo-duarte/swayami/internal/commands"
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	if err := commands.New().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
