package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/screening"
)

type FilterHandler struct {
	uc screening.UseCase
}

func NewFilterHandler(uc screening.UseCase) *FilterHandler {
	return &FilterHandler{uc: uc}
}

type filterDTO struct {
	Email        string  `json:"email"`
	GpaF         float64 `json:"gpaF"`
	GpaA         float64 `json:"gpaA"`
	F            int     `json:"f"`
	Completeness float64 `json:"completeness"`
	Done         bool    `json:"done"`
}

func toFilterDTO(f screening.Filter) filterDTO {
	return filterDTO{
		Email:        f.Email,
		GpaF:         f.GpaF,
		GpaA:         f.GpaA,
		F:            f.F,
		Completeness: f.Completeness,
		Done:         f.Done,
	}
}

// GetAllNotDone — очередь скрининга для HR.
// @Summary Непросмотренные фильтры
// @Tags    Фильтры
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /filters/getAllNotDone [get]
func (h *FilterHandler) GetAllNotDone(c *fiber.Ctx) error {
	list, err := h.uc.ListNotDone(c.Context())
	if err != nil {
		return presenter.FromError(c, err)
	}
	dtos := make([]filterDTO, 0, len(list))
	for _, f := range list {
		dtos = append(dtos, toFilterDTO(f))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"filters": dtos})
}

// GetByEmail
// @Summary Фильтр по email
// @Tags    Фильтры
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /filters/getByEmail/{email} [get]
func (h *FilterHandler) GetByEmail(c *fiber.Ctx) error {
	f, err := h.uc.Get(c.Context(), c.Params("email"))
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"filter": toFilterDTO(f)})
}

// SetDone помечает фильтр просмотренным.
// @Summary Отметить фильтр просмотренным
// @Tags    Фильтры
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /filters/setDone/{email} [patch]
func (h *FilterHandler) SetDone(c *fiber.Ctx) error {
	if err := h.uc.SetDone(c.Context(), c.Params("email")); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": "filter marked as done"})
}

type updateFilterRequest struct {
	GpaF float64 `json:"gpaF"`
	F    int     `json:"f"`
}

// Update — ручная корректировка gpaF и F после просмотра грейд-репорта.
// @Summary Скорректировать метрики фильтра
// @Tags    Фильтры
// @Accept  json
// @Produce json
// @Param   email path string true "email кандидата"
// @Param   input body updateFilterRequest true "новые значения"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /filters/update/{email} [patch]
func (h *FilterHandler) Update(c *fiber.Ctx) error {
	var req updateFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	f, err := h.uc.UpdateScores(c.Context(), c.Params("email"), req.GpaF, req.F)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"filter": toFilterDTO(f)})
}
