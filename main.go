package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/config"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/handlers"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/inquiry"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/notify"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/routes"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/tint"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: "2006-01-02 15:04:05",
	}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment variables")
	}

	if err := config.ConnectDB(); err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}
	cancel()

	cache := utils.NewCache()
	notifier := notify.FromEnv(log)
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	properties := config.GetCollection(config.CollectionProperties())
	users := config.GetCollection(config.CollectionUsers())
	inquiries := config.GetCollection(config.CollectionInquiries())

	searchSvc := search.NewService(search.NewMongoStore(properties, users), log)
	inquirySvc := inquiry.NewService(inquiry.NewMongoStore(inquiries, properties, users), notifier, log, clientURL)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	routes.RegisterRoutes(e, routes.Controllers{
		Users:      handlers.NewUserController(log),
		Properties: handlers.NewPropertyController(searchSvc, cache, log),
		Inquiries:  handlers.NewInquiryController(inquirySvc, log),
		Wishlist:   handlers.NewWishlistController(log),
		Admin:      handlers.NewAdminController(notifier, log, clientURL),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
