package controllers

import (
	"errors"
	"strconv"

	"archery-results/clubs"

	"github.com/gofiber/fiber/v2"
)

type ClubController struct {
	Store *clubs.Store
}

type CreateClubRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (cc *ClubController) List(c *fiber.Ctx) error {
	return c.JSON(cc.Store.All())
}

func (cc *ClubController) Suggestions(c *fiber.Ctx) error {
	limit := clubs.DefaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = n
	}
	return c.JSON(cc.Store.Suggestions(c.Query("q"), limit))
}

func (cc *ClubController) Create(c *fiber.Ctx) error {
	var req CreateClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	club, err := cc.Store.Add(c.UserContext(), req.Code, req.Name)
	switch {
	case errors.Is(err, clubs.ErrEmptyField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, clubs.ErrDuplicateCode):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add club"})
	}
	return c.Status(fiber.StatusCreated).JSON(club)
}

func (cc *ClubController) Delete(c *fiber.Ctx) error {
	err := cc.Store.Remove(c.UserContext(), c.Params("code"))
	switch {
	case errors.Is(err, clubs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, clubs.ErrBuiltIn):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove club"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (cc *ClubController) Reset(c *fiber.Ctx) error {
	cc.Store.Reset(c.UserContext())
	return c.JSON(cc.Store.All())
}
