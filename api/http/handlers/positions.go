package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/catalog"
)

type PositionHandler struct {
	uc catalog.UseCase
}

func NewPositionHandler(uc catalog.UseCase) *PositionHandler { return &PositionHandler{uc: uc} }

type positionDTO struct {
	Name         string `json:"name"`
	Availability bool   `json:"availability"`
}

// Create добавляет позицию в каталог.
// @Summary Создать позицию
// @Tags    Позиции
// @Accept  json
// @Produce json
// @Param   input body positionDTO true "позиция"
// @Security BearerAuth
// @Success 201 {object} positionDTO
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /positions/create [post]
func (h *PositionHandler) Create(c *fiber.Ctx) error {
	var req positionDTO
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	p, err := h.uc.CreatePosition(c.Context(), catalog.Position{Name: req.Name, Availability: req.Availability})
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, positionDTO{Name: p.Name, Availability: p.Availability})
}

type availabilityRequest struct {
	Availability bool `json:"availability"`
}

// Update переключает доступность позиции для новых заявок.
// @Summary Доступность позиции
// @Tags    Позиции
// @Accept  json
// @Produce json
// @Param   name path string true "имя позиции"
// @Param   input body availabilityRequest true "новое значение"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /positions/update/{name} [patch]
func (h *PositionHandler) Update(c *fiber.Ctx) error {
	name := c.Params("name")
	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := h.uc.SetAvailability(c.Context(), name, req.Availability); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"name": name, "availability": req.Availability})
}

// GetAll возвращает каталог позиций; открыт кандидатам для формы заявки.
// @Summary Все позиции
// @Tags    Позиции
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /positions/getAll [get]
func (h *PositionHandler) GetAll(c *fiber.Ctx) error {
	positions, err := h.uc.ListPositions(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list positions")
	}
	out := make([]positionDTO, 0, len(positions))
	for _, p := range positions {
		out = append(out, positionDTO{Name: p.Name, Availability: p.Availability})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"positions": out})
}
