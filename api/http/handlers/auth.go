package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/auth"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{Email: u.Email, Role: string(u.Role), Status: string(u.Status)}
}

// Register handles candidate registration; every new account starts as a
// candidate in the waiting stage.
// @Summary Register user
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case auth.ErrUserAlreadyExists:
			return presenter.Error(c, http.StatusConflict, "user already exists")
		case auth.ErrInvalidCredentials:
			return presenter.Error(c, http.StatusBadRequest, "email and password are required")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"user":  toUserResponse(result.User),
		"token": result.Token,
	})
}

// Login handles user login.
// @Summary Login
// @Tags    users
// @Accept  json
// @Produce json
// @Param   input body credentialsRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"user":  toUserResponse(result.User),
		"token": result.Token,
	})
}

// Verify подтверждает, что токен действителен; до сюда доходит только
// запрос, прошедший middleware.
// @Summary Verify token
// @Tags    users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /auth/verify [get]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"valid": true,
		"email": requesterEmail(c),
		"role":  c.Locals("role"),
	})
}

// Current returns the authenticated user's workflow view.
// @Summary Current user
// @Tags    users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /auth/current [get]
func (h *AuthHandler) Current(c *fiber.Ctx) error {
	user, err := h.useCase.GetByEmail(c.Context(), requesterEmail(c))
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "user not found")
	}
	return presenter.JSON(c, http.StatusOK, toUserResponse(user))
}

// Logout отзывает текущий токен до его естественного истечения.
// @Summary Logout
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals("tokenId").(string)
	expiresAt, _ := c.Locals("tokenExp").(time.Time)
	if err := h.useCase.Logout(c.Context(), tokenID, expiresAt); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to logout")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "logged out"})
}
