package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"marketd/internal/auth"
	"marketd/internal/config"
	"marketd/internal/http/handlers"
	applog "marketd/internal/log"
	"marketd/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db)
	api := app.Group("/api")

	// Public catalog
	api.Get("/products", deps.CatalogHandler.PublicProducts)
	api.Get("/categories", deps.CatalogHandler.Categories)
	api.Get("/feedback/:productId", deps.FeedbackHandler.ForProduct)

	// Seller
	seller := api.Group("/seller", handlers.RequireRole(verifier, "seller"))
	seller.Post("/category-requests", deps.SellerHandler.RequestCategoryApproval)
	seller.Get("/category-requests", deps.SellerHandler.MyCategoryRequests)
	seller.Get("/approved-categories", deps.SellerHandler.ApprovedCategories)
	seller.Post("/category-proposals", deps.SellerHandler.ProposeCategory)
	seller.Get("/category-proposals", deps.SellerHandler.MyCategoryProposals)
	seller.Post("/product-proposals", deps.SellerHandler.ProposeProduct)
	seller.Get("/product-proposals", deps.SellerHandler.MyProductProposals)
	seller.Get("/products", deps.SellerHandler.MyProducts)
	seller.Post("/products", deps.SellerHandler.CreateProduct)
	seller.Put("/products/:id", deps.SellerHandler.UpdateProduct)
	seller.Get("/feedback", deps.SellerHandler.MyFeedback)

	// Admin
	admin := api.Group("/admin", handlers.RequireRole(verifier, "admin"))
	admin.Get("/pending-category-requests", deps.AdminHandler.PendingCategoryRequests)
	admin.Post("/category-requests/:id/decide", deps.AdminHandler.DecideCategoryRequest)
	admin.Get("/proposals/pending-category-proposals", deps.AdminHandler.PendingCategoryProposals)
	admin.Get("/proposals/pending-product-proposals", deps.AdminHandler.PendingProductProposals)
	admin.Post("/proposals/review-category-proposal", deps.AdminHandler.ReviewCategoryProposal)
	admin.Post("/proposals/review-product-proposal", deps.AdminHandler.ReviewProductProposal)

	// Buyer
	buyer := handlers.RequireRole(verifier, "buyer")
	api.Post("/orders", buyer, deps.OrderHandler.Place)
	api.Get("/orders", buyer, deps.OrderHandler.Mine)
	api.Get("/buyer/products", buyer, deps.CatalogHandler.BuyerProducts)
	api.Get("/buyer/products/:id", buyer, deps.CatalogHandler.BuyerProduct)
	api.Post("/feedback", buyer, deps.FeedbackHandler.Submit)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
