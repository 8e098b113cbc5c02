package main

import (
	"context"
	"log"

	"archery-results/clubs"
	"archery-results/config"
	"archery-results/controllers"
	"archery-results/database"
	"archery-results/notify"
	"archery-results/results"
	"archery-results/review"
	"archery-results/reviewers"
	"archery-results/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/slack-go/slack"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal(err)
	}

	store := clubs.NewStore(clubs.NewPostgresStorage(db), clubs.Builtins())
	if err := store.Load(ctx); err != nil {
		log.Fatalf("load club vocabulary: %v", err)
	}
	log.Printf("Loaded %d clubs", len(store.All()))

	policy := review.AgeClassPolicy{Senior: cfg.SeniorResolution, Youth: cfg.YouthResolution}
	sessions := review.NewSessionStore(cfg.SessionTTL(), policy)
	if err := sessions.StartPurgeScheduler(ctx, cfg.SessionPurgeSchedule); err != nil {
		log.Fatal(err)
	}

	var notifiers notify.Multi
	if cfg.SendGridConfigured() {
		notifiers = append(notifiers, notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.ReportEmailTo))
	}
	if cfg.SlackConfigured() {
		notifiers = append(notifiers, notify.NewSlackNotifier(slack.New(cfg.SlackBotToken), cfg.SlackChannelID))
	}
	log.Printf("%d import notifiers configured", len(notifiers))

	app := fiber.New(fiber.Config{
		BodyLimit: 5 * results.MaxFileSize,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Setup(app, routes.Handlers{
		Clubs: &controllers.ClubController{Store: store},
		Auth:  &controllers.AuthController{Reviewers: reviewers.NewPostgresRepository(db), JWTSecret: cfg.JWTSecret},
		Imports: &controllers.ImportController{
			Sessions: sessions,
			Parser:   results.NewParser(store, cfg.GenderDefault),
			Notifier: notifiers,
		},
		JWTSecret: cfg.JWTSecret,
	})

	log.Println("Server running on port " + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
