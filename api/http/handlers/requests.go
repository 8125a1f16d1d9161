package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/request"
	"github.com/artem13815/internship/pkg/storage/files"
)

type RequestHandler struct {
	uc    request.UseCase
	store *files.Store
}

func NewRequestHandler(uc request.UseCase, store *files.Store) *RequestHandler {
	return &RequestHandler{uc: uc, store: store}
}

type requestDTO struct {
	Email     string   `json:"email"`
	Positions []string `json:"positions"`
	Resume    string   `json:"resume"`
	Offered   bool     `json:"offered"`
}

func toRequestDTO(r request.Request) requestDTO {
	return requestDTO{Email: r.Email, Positions: r.Positions, Resume: r.Resume, Offered: r.Offered}
}

// submit разбирает multipart-форму заявки (positions — строка через
// запятую, resume — файл) и выполняет SubmitRequest от имени токена.
func (h *RequestHandler) submit(c *fiber.Ctx) error {
	email := requesterEmail(c)

	var positions []string
	for _, p := range strings.Split(c.FormValue("positions"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			positions = append(positions, p)
		}
	}

	resumeURL := ""
	if fh, err := c.FormFile("resume"); err == nil && fh != nil {
		url, err := h.store.Save(fh, "resumes")
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		resumeURL = url
	}

	r, err := h.uc.Submit(c.Context(), email, positions, resumeURL)
	if err != nil {
		if resumeURL != "" {
			_ = h.store.Remove(resumeURL)
		}
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"request": toRequestDTO(r)})
}

// Create — первая подача заявки; атомарно переводит кандидата в requesting.
// @Summary Подать заявку
// @Tags    Заявки
// @Accept  multipart/form-data
// @Produce json
// @Param   positions formData string true "позиции через запятую"
// @Param   resume formData file true "резюме (обязательно при первой подаче)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /requests/create [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error { return h.submit(c) }

// Update — правка заявки до выставления оффера; статус не двигает.
// @Summary Обновить заявку
// @Tags    Заявки
// @Accept  multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /requests/update [patch]
func (h *RequestHandler) Update(c *fiber.Ctx) error { return h.submit(c) }

// Get возвращает заявку кандидата.
// @Summary Заявка по email
// @Tags    Заявки
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /requests/getByEmail/{email} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	r, err := h.uc.Get(c.Context(), email)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"request": toRequestDTO(r)})
}

// GetNotOffered — входящие заявки для HR.
// @Summary Заявки без оффера
// @Tags    Заявки
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /requests/getAllNotOffered [get]
func (h *RequestHandler) GetNotOffered(c *fiber.Ctx) error {
	reqs, err := h.uc.ListNotOffered(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list requests")
	}
	out := make([]requestDTO, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequestDTO(r))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"requests": out})
}
