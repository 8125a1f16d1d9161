package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/result"
)

type ResultHandler struct {
	uc result.UseCase
}

func NewResultHandler(uc result.UseCase) *ResultHandler {
	return &ResultHandler{uc: uc}
}

type resultDTO struct {
	Email     string   `json:"email"`
	Result    string   `json:"result"`
	Positions []string `json:"positions"`
}

func toResultDTO(r result.Result) resultDTO {
	positions := r.Positions
	if positions == nil {
		positions = []string{}
	}
	return resultDTO{Email: r.Email, Result: string(r.Result), Positions: positions}
}

type createResultRequest struct {
	Email     string   `json:"email"`
	Result    string   `json:"result"`
	Positions []string `json:"positions"`
}

// Create — финальное решение HR: результат + filter.done + переход
// considering→accepted|rejected одной операцией.
// @Summary Вынести решение
// @Tags    Результаты
// @Accept  json
// @Produce json
// @Param   input body createResultRequest true "решение и позиции"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /results/create [post]
func (h *ResultHandler) Create(c *fiber.Ctx) error {
	var req createResultRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	decision, err := result.ParseDecision(req.Result)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	r, err := h.uc.RecordDecision(c.Context(), req.Email, decision, req.Positions)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"result": toResultDTO(r)})
}

// GetByEmail
// @Summary Результат по email
// @Tags    Результаты
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /results/getByEmail/{email} [get]
func (h *ResultHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	r, err := h.uc.Get(c.Context(), email)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"result": toResultDTO(r)})
}
