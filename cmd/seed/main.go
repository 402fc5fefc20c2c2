package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"quoteme/internal/config"
	"quoteme/internal/database"
	"quoteme/internal/domain"
	jwtsvc "quoteme/internal/pkg/jwt"
	"quoteme/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "quoteme.db"
	}
	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM quotes")
	db.Exec("DELETE FROM projects")
	db.Exec("DELETE FROM providers")

	ctx := context.Background()
	providerRepo := repository.NewProviderRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	london := &domain.Coordinate{Lat: 51.5074, Lon: -0.1278}

	log.Println("Creating providers...")
	providers := []domain.Provider{
		{
			Name:     "Ace Plumbing Ltd",
			Email:    "ace@plumbing.example",
			Bio:      "Emergency and planned plumbing, 12 years in the trade.",
			Trades:   []domain.Trade{domain.TradePlumber},
			Location: &domain.Coordinate{Lat: 51.52, Lon: -0.10},
			Rating:   4.7, ReviewCount: 31,
			Status: domain.ProviderActive,
		},
		{
			Name:     "Volt Works",
			Email:    "hello@voltworks.example",
			Bio:      "Rewires, consumer units, EV chargers.",
			Trades:   []domain.Trade{domain.TradeElectrician},
			Location: &domain.Coordinate{Lat: 51.49, Lon: -0.15},
			Rating:   4.3, ReviewCount: 18,
			Status: domain.ProviderActive,
		},
		{
			Name:     "Oak & Iron Carpentry",
			Email:    "workshop@oakiron.example",
			Trades:   []domain.Trade{domain.TradeCarpenter, domain.TradeHandyman},
			Location: &domain.Coordinate{Lat: 51.55, Lon: -0.08},
			Rating:   4.9, ReviewCount: 52,
			Status: domain.ProviderActive,
		},
		{
			Name:   "Fresh Start Decorating",
			Email:  "team@freshstart.example",
			Trades: []domain.Trade{domain.TradePainter},
			Status: domain.ProviderOnboarding,
		},
	}
	for i := range providers {
		if err := providerRepo.Create(ctx, &providers[i]); err != nil {
			log.Fatal("create provider:", err)
		}
	}

	log.Println("Creating a demo project with quotes...")
	project := &domain.Project{
		UserName:       "Dana Reeves",
		UserEmail:      "dana@example.com",
		UserPhone:      "+44 20 7946 0000",
		Description:    "Full bathroom refit: new suite, tiling, and a replacement extractor fan.",
		RequiredTrades: []domain.Trade{domain.TradePlumber, domain.TradeElectrician},
		Location:       london,
	}
	if err := projectRepo.Create(ctx, project); err != nil {
		log.Fatal("create project:", err)
	}

	plumber := domain.TradePlumber
	electrician := domain.TradeElectrician
	demoQuotes := []domain.Quote{
		{ProjectID: project.ID, ProviderID: providers[0].ID, Trade: &plumber,
			Amount: 1850, Proposal: "Full suite swap and tiling, five working days."},
		{ProjectID: project.ID, ProviderID: providers[1].ID, Trade: &electrician,
			Amount: 420, Proposal: "Fan replacement plus a new lighting circuit."},
	}
	for i := range demoQuotes {
		if err := quoteRepo.Create(ctx, &demoQuotes[i]); err != nil {
			log.Fatal("create quote:", err)
		}
	}
	for _, q := range demoQuotes {
		if err := quoteRepo.Select(ctx, project.ID, q.ID); err != nil {
			log.Fatal("select quote:", err)
		}
	}

	jwt := jwtsvc.New(cfg.JWTSecret, 30*24*time.Hour)
	for _, p := range providers[:2] {
		token, err := jwt.GenerateToken(p.ID, "provider")
		if err != nil {
			log.Fatal("token:", err)
		}
		log.Printf("%s (id=%d) token: %s", p.Name, p.ID, token)
	}

	log.Printf("Seeded %d providers, project id=%d with %d selected quotes", len(providers), project.ID, len(demoQuotes))
}
