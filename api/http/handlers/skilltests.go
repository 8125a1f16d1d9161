package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/storage/files"
)

type SkillTestHandler struct {
	uc    catalog.UseCase
	store *files.Store
}

func NewSkillTestHandler(uc catalog.UseCase, store *files.Store) *SkillTestHandler {
	return &SkillTestHandler{uc: uc, store: store}
}

type skillTestDTO struct {
	Name     string `json:"name"`
	PDF      string `json:"pdf"`
	Position string `json:"position"`
}

// Create заводит тестовое задание: имя, позиция и PDF с инструкцией.
// @Summary Создать тестовое задание
// @Tags    Тестовые задания
// @Accept  multipart/form-data
// @Produce json
// @Param   name formData string true "имя задания"
// @Param   position formData string true "позиция"
// @Param   pdf formData file true "PDF с инструкцией"
// @Security BearerAuth
// @Success 201 {object} skillTestDTO
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /skillTests/create [post]
func (h *SkillTestHandler) Create(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	position := strings.TrimSpace(c.FormValue("position"))
	fh, err := c.FormFile("pdf")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "instructions PDF is required")
	}
	pdfURL, err := h.store.Save(fh, "skilltests")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	t, err := h.uc.CreateSkillTest(c.Context(), catalog.SkillTest{Name: name, PDF: pdfURL, Position: position})
	if err != nil {
		// каталожная запись не создана — подчищаем файл
		_ = h.store.Remove(pdfURL)
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, skillTestDTO{Name: t.Name, PDF: t.PDF, Position: t.Position})
}

// Delete убирает задание из каталога; уже выданные офферы не трогает.
// @Summary Удалить тестовое задание
// @Tags    Тестовые задания
// @Produce json
// @Param   name path string true "имя задания"
// @Security BearerAuth
// @Success 204 {object} nil
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /skillTests/delete/{name} [delete]
func (h *SkillTestHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSkillTest(c.Context(), c.Params("name")); err != nil {
		return presenter.FromError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetAll возвращает каталог заданий.
// @Summary Все тестовые задания
// @Tags    Тестовые задания
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /skillTests/getAll [get]
func (h *SkillTestHandler) GetAll(c *fiber.Ctx) error {
	tests, err := h.uc.ListSkillTests(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list skill tests")
	}
	out := make([]skillTestDTO, 0, len(tests))
	for _, t := range tests {
		out = append(out, skillTestDTO{Name: t.Name, PDF: t.PDF, Position: t.Position})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"skillTests": out})
}

// GetByName возвращает одно задание; кандидаты обогащают им тесты оффера.
// @Summary Тестовое задание по имени
// @Tags    Тестовые задания
// @Produce json
// @Param   name path string true "имя задания"
// @Success 200 {object} skillTestDTO
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /skillTests/getByName/{name} [get]
func (h *SkillTestHandler) GetByName(c *fiber.Ctx) error {
	t, err := h.uc.GetSkillTest(c.Context(), c.Params("name"))
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, skillTestDTO{Name: t.Name, PDF: t.PDF, Position: t.Position})
}
