package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/avandra/account-service/config"
	"github.com/avandra/account-service/internal/domain/entity"
	pginfra "github.com/avandra/account-service/internal/infrastructure/postgres"
	"github.com/avandra/account-service/pkg/helpers"
)

// The service never creates accounts; this tool seeds one for local use.
func main() {
	email := flag.String("email", "demo@example.com", "email for the seeded account")
	password := flag.String("password", "demopass123", "password for the seeded account")
	fullName := flag.String("full-name", "Demo User", "full name for the seeded account")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	repo := pginfra.NewUserRepository(pool)
	u := &entity.User{
		Email:        *email,
		PasswordHash: hash,
		FullName:     *fullName,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create user: %v", err)
	}
	log.Printf("seeded user id=%s email=%s", u.ID, u.Email)
}
