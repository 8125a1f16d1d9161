package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/auth"
	"github.com/artem13815/internship/pkg/workflow"
)

// UsersHandler обслуживает админские операции над пользователями.
type UsersHandler struct {
	useCase auth.AuthUseCase
	guard   *workflow.Guard
}

func NewUsersHandler(useCase auth.AuthUseCase, guard *workflow.Guard) *UsersHandler {
	return &UsersHandler{useCase: useCase, guard: guard}
}

// GetAll возвращает всех пользователей для HR-дэшборда.
// @Summary Список пользователей
// @Tags    users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /users/getAll [get]
func (h *UsersHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.useCase.List(c.Context(), 500, 0)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list users")
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"users": out})
}

// GetByEmail возвращает пользователя по email.
// @Summary Пользователь по email
// @Tags    users
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /users/getByEmail/{email} [get]
func (h *UsersHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	user, err := h.useCase.GetByEmail(c.Context(), email)
	if err != nil {
		return presenter.Error(c, http.StatusNotFound, "user not found")
	}
	return presenter.JSON(c, http.StatusOK, toUserResponse(user))
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus двигает статус через те же правила перехода, что и
// составные операции; это админский инструмент, а не обходной путь.
// @Summary Перевести статус кандидата
// @Tags    users
// @Accept  json
// @Produce json
// @Param   email path string true "email кандидата"
// @Param   input body statusRequest true "целевой статус"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /users/updateStatus/{email} [patch]
func (h *UsersHandler) UpdateStatus(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Params("email")))
	if email == "" {
		return presenter.Error(c, http.StatusBadRequest, "email is required")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	target, err := workflow.Parse(req.Status)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if err := h.guard.Advance(c.Context(), email, target); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"email":  email,
		"status": string(target),
	})
}
