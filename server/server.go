package server

import (
	"fmt"

	"genebank/database"
	routes "genebank/server/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Options struct {
	BankDir   string
	Addr      string
	CacheSize int
	Logger    *zap.SugaredLogger
}

// New builds the fiber app serving the trees of bank under /api.
func New(bank *database.Bank, registry *routes.Registry) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	routes.SetupRoutes(app.Group("/api"), bank, registry)
	return app
}

func Server(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	bank, err := database.OpenBank(opts.BankDir)
	if err != nil {
		return fmt.Errorf("error loading bank: %w", err)
	}

	registry := routes.NewRegistry(bank, opts.CacheSize, log)
	defer registry.Close()

	app := New(bank, registry)
	log.Infow("fiber listening", "addr", opts.Addr, "bank", bank.ID())
	if err := app.Listen(opts.Addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
