package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"archery-results/config"
	"archery-results/database"
	"archery-results/reviewers"
)

func main() {
	var (
		email    = flag.String("email", "", "Reviewer e-mail address")
		password = flag.String("password", "", "Reviewer password")
	)
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		log.Fatal("--email and --password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal(err)
	}

	reviewer, err := reviewers.NewPostgresRepository(db).Create(ctx, *email, *password)
	if errors.Is(err, reviewers.ErrEmailTaken) {
		log.Fatalf("reviewer %s already exists", *email)
	}
	if err != nil {
		log.Fatalf("create reviewer: %v", err)
	}

	fmt.Printf("Created reviewer %d (%s)\n", reviewer.ID, reviewer.Email)
}
