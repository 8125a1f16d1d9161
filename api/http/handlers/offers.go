package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/offer"
	"github.com/artem13815/internship/pkg/storage/files"
)

type OfferHandler struct {
	uc    offer.UseCase
	store *files.Store
}

func NewOfferHandler(uc offer.UseCase, store *files.Store) *OfferHandler {
	return &OfferHandler{uc: uc, store: store}
}

type skillTestOfferDTO struct {
	Name          string   `json:"name"`
	UploadedFiles []string `json:"uploadedFiles"`
	Status        string   `json:"status"`
	DueTime       string   `json:"dueTime"`
	Rank          int      `json:"rank"`
	Explanation   string   `json:"explanation"`
}

type offerDTO struct {
	Email      string              `json:"email"`
	DueTime    string              `json:"dueTime"`
	SkillTests []skillTestOfferDTO `json:"skillTests"`
}

func toOfferDTO(o offer.Offer) offerDTO {
	dto := offerDTO{Email: o.Email, DueTime: o.DueTime.Format(time.RFC3339)}
	for _, t := range o.SkillTests {
		uploaded := t.UploadedFiles
		if uploaded == nil {
			uploaded = []string{}
		}
		dto.SkillTests = append(dto.SkillTests, skillTestOfferDTO{
			Name:          t.Name,
			UploadedFiles: uploaded,
			Status:        string(t.Status),
			// все тесты оффера делят один дедлайн
			DueTime:     o.DueTime.Format(time.RFC3339),
			Rank:        t.Rank,
			Explanation: t.Explanation,
		})
	}
	return dto
}

type makeOfferRequest struct {
	Email      string `json:"email"`
	DueTime    string `json:"dueTime"`
	SkillTests []struct {
		Name     string `json:"name"`
		Position string `json:"position"`
	} `json:"skillTests"`
}

// Create — составная операция HR: анкета, оффер, offered-флаг заявки и
// переход в offering выполняются одной серверной операцией.
// @Summary Выставить оффер
// @Tags    Офферы
// @Accept  json
// @Produce json
// @Param   input body makeOfferRequest true "email, дедлайн и задания по позициям"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /offers/create [post]
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var req makeOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	var due time.Time
	if req.DueTime != "" {
		parsed, err := parseDueTime(req.DueTime)
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid due time format")
		}
		due = parsed
	}
	assignments := make([]offer.Assignment, 0, len(req.SkillTests))
	for _, t := range req.SkillTests {
		assignments = append(assignments, offer.Assignment{Position: t.Position, SkillTest: t.Name})
	}
	if err := h.uc.MakeOffer(c.Context(), req.Email, due, assignments); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{"message": "offer created"})
}

// GetByEmail возвращает оффер; серверная проверка дедлайна уже применена.
// @Summary Оффер по email
// @Tags    Офферы
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /offers/getByEmail/{email} [get]
func (h *OfferHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	o, applicable, err := h.uc.Get(c.Context(), email)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if !applicable {
		return presenter.JSON(c, http.StatusOK, fiber.Map{"applicable": false})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"applicable": true, "offer": toOfferDTO(o)})
}

type testUpdateDTO struct {
	Name        string   `json:"name"`
	Rank        int      `json:"rank"`
	Explanation string   `json:"explanation"`
	KeepFiles   []string `json:"keepFiles"`
}

// Update — bulk save правок кандидата: JSON-поле skillTests плюс новые
// файлы, приложенные под именем соответствующего теста (идут в staging).
// @Summary Сохранить правки по тестам
// @Tags    Офферы
// @Accept  multipart/form-data
// @Produce json
// @Param   email path string true "email кандидата"
// @Param   skillTests formData string true "JSON-массив правок"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /offers/update/{email} [patch]
func (h *OfferHandler) Update(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	var dtos []testUpdateDTO
	if raw := c.FormValue("skillTests"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid skillTests JSON")
		}
	}
	updates := make([]offer.TestUpdate, 0, len(dtos))
	var saved []string
	form, _ := c.MultipartForm()
	for _, dto := range dtos {
		u := offer.TestUpdate{
			Name:        dto.Name,
			Rank:        dto.Rank,
			Explanation: dto.Explanation,
			KeepFiles:   dto.KeepFiles,
		}
		if form != nil {
			for _, fh := range form.File[dto.Name] {
				url, err := h.store.Save(fh, "submissions")
				if err != nil {
					return presenter.Error(c, http.StatusBadRequest, err.Error())
				}
				saved = append(saved, url)
				u.StagedFiles = append(u.StagedFiles, url)
			}
		}
		updates = append(updates, u)
	}
	o, err := h.uc.Update(c.Context(), email, updates)
	if err != nil {
		for _, url := range saved {
			_ = h.store.Remove(url)
		}
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"offer": toOfferDTO(o)})
}

// Submit сдаёт один тест: keepFiles — JSON-массив оставляемых файлов,
// новые решения приложены под полем file.
// @Summary Сдать тест
// @Tags    Офферы
// @Accept  multipart/form-data
// @Produce json
// @Param   email path string true "email кандидата"
// @Param   testName path string true "имя теста"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /offers/submit/{email}/{testName} [patch]
func (h *OfferHandler) Submit(c *fiber.Ctx) error {
	email, testName := c.Params("email"), c.Params("testName")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	var keep []string
	if raw := c.FormValue("keepFiles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &keep); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid keepFiles JSON")
		}
	}
	var extra, saved []string
	if form, _ := c.MultipartForm(); form != nil {
		for _, fh := range form.File["file"] {
			url, err := h.store.Save(fh, "submissions")
			if err != nil {
				return presenter.Error(c, http.StatusBadRequest, err.Error())
			}
			saved = append(saved, url)
			extra = append(extra, url)
		}
	}
	o, allSubmitted, err := h.uc.Submit(c.Context(), email, testName, keep, extra)
	if err != nil {
		for _, url := range saved {
			_ = h.store.Remove(url)
		}
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"offer":        toOfferDTO(o),
		"allSubmitted": allSubmitted,
	})
}

// Dismiss убирает staging теста; сданные файлы и статус не меняются.
// @Summary Сбросить черновик теста
// @Tags    Офферы
// @Produce json
// @Param   email path string true "email кандидата"
// @Param   testName path string true "имя теста"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /offers/dismiss/{email}/{testName} [patch]
func (h *OfferHandler) Dismiss(c *fiber.Ctx) error {
	email, testName := c.Params("email"), c.Params("testName")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	o, err := h.uc.Dismiss(c.Context(), email, testName)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"offer": toOfferDTO(o)})
}
