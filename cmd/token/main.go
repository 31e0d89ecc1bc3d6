// cmd/token mints a session token for an existing user. Login itself is
// handled elsewhere; this is for operators and local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/projecttracker/internal/config"
	"github.com/gurkanbulca/projecttracker/internal/database"
	"github.com/gurkanbulca/projecttracker/internal/repository"
	"github.com/gurkanbulca/projecttracker/pkg/auth"
)

func main() {
	userID := flag.Int64("user", 0, "id of the user the token is issued for")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_ACCESS_TOKEN_DURATION)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: token -user <id> [-ttl 24h]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *ttl > 0 {
		cfg.JWT.AccessTokenDuration = *ttl
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	user, err := repository.NewUserRepository(db).GetByID(ctx, *userID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("User %d does not exist", *userID)
	}
	if err != nil {
		log.Fatalf("Failed to load user: %v", err)
	}

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenDuration)
	token, expiresAt, err := tokenManager.GenerateToken(user.ID, user.Name)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	log.Printf("Token for %s (id %d) expires at %s", user.Name, user.ID, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
