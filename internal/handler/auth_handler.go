package handler

import (
	"log"
	"os"

	"go-catalog-import/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues tokens for the single admin identity configured through
// the environment. There is no user management in this system.
type AuthHandler struct {
	adminEmail   string
	passwordHash []byte
}

func NewAuthHandler() *AuthHandler {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	hash := []byte(os.Getenv("ADMIN_PASSWORD_HASH"))
	if len(hash) == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
			log.Println("Warning: ADMIN_PASSWORD not set, using default credentials")
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash admin password: ", err)
		}
		hash = generated
	}

	return &AuthHandler{adminEmail: email, passwordHash: hash}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Email != h.adminEmail {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := jwt.GenerateToken(h.adminEmail, "Catalog Administrator")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{"token": token})
}
