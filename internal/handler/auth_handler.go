package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-bff/internal/middleware"
	"movie-discovery-bff/internal/models"
)

// AuthHandler handles signup, login and the current account.
type AuthHandler struct {
	auth  AuthService
	users UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthService, users UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Signup creates a password account.
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SignupRequest true "Account"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.auth.Signup(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Signin logs in with email and password.
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SigninRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c fiber.Ctx) error {
	var req models.SigninRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.auth.Signin(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Google logs in with a Google ID token.
// @Summary Google sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.GoogleLoginRequest true "ID token"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) Google(c fiber.Ctx) error {
	var req models.GoogleLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.auth.GoogleLogin(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Me returns the authenticated account.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]models.User
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, err := h.users.Me(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
