package controllers

import (
	"errors"
	"log"

	"archery-results/middleware"
	"archery-results/models"
	"archery-results/reviewers"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Reviewers reviewers.Repository
	JWTSecret string
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var data models.LoginInput
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	reviewer, err := ac.Reviewers.Authenticate(c.UserContext(), data.Email, data.Password)
	if errors.Is(err, reviewers.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err != nil {
		log.Printf("login %s: %v", data.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
	}

	tokenString, err := middleware.IssueToken(ac.JWTSecret, reviewer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}
