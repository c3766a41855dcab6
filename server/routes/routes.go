package routes

import (
	"errors"
	"path/filepath"
	"strings"

	"genebank/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type entryJSON struct {
	Sequence  string `json:"sequence"`
	Frequency uint32 `json:"frequency"`
}

func treeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, database.ErrTreeNotFound) {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// treeID copies the route parameter out of the request buffer, which fasthttp reuses.
func treeID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func SetupRoutes(router fiber.Router, bank *database.Bank, registry *Registry) {
	router.Get("/banks", func(c *fiber.Ctx) error {
		banks, err := database.ListBanks(filepath.Dir(bank.Dir()))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"banks": banks})
	})

	router.Get("/trees", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"bank": bank.ID(), "trees": bank.ListTrees()})
	})

	router.Get("/trees/:id/search", func(c *fiber.Ctx) error {
		seq := strings.TrimSpace(c.Query("sequence"))
		if seq == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sequence required"})
		}

		ot, err := registry.get(treeID(c))
		if err != nil {
			return treeError(c, err)
		}

		key, err := ot.codec.Encode(seq)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		ot.mu.Lock()
		freq, err := ot.tree.Search(key)
		ot.mu.Unlock()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(entryJSON{Sequence: strings.ToLower(seq), Frequency: freq})
	})

	router.Get("/trees/:id/dump", func(c *fiber.Ctx) error {
		ot, err := registry.get(treeID(c))
		if err != nil {
			return treeError(c, err)
		}

		entries := []entryJSON{}
		ot.mu.Lock()
		err = ot.tree.Traverse(func(freq uint32, key uint64) error {
			entries = append(entries, entryJSON{Sequence: ot.codec.Decode(key), Frequency: freq})
			return nil
		})
		ot.mu.Unlock()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{"id": ot.entry.ID, "entries": entries})
	})

	router.Get("/trees/:id/stats", func(c *fiber.Ctx) error {
		ot, err := registry.get(treeID(c))
		if err != nil {
			return treeError(c, err)
		}

		ot.mu.Lock()
		stats := ot.tree.Stats()
		ot.mu.Unlock()

		return c.JSON(fiber.Map{"id": ot.entry.ID, "degree": ot.tree.Degree, "stats": stats})
	})
}
