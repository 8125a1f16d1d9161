package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/api/http/presenter"
	"github.com/artem13815/internship/pkg/personalinfo"
	"github.com/artem13815/internship/pkg/storage/files"
)

type PersonalInfoHandler struct {
	uc    personalinfo.UseCase
	store *files.Store
}

func NewPersonalInfoHandler(uc personalinfo.UseCase, store *files.Store) *PersonalInfoHandler {
	return &PersonalInfoHandler{uc: uc, store: store}
}

type personalInfoDTO struct {
	Email             string  `json:"email"`
	DueTime           string  `json:"dueTime"`
	Name              string  `json:"name"`
	Nickname          string  `json:"nickname"`
	Mobile            string  `json:"mobile"`
	Address           string  `json:"address"`
	DOB               string  `json:"dob"`
	BloodType         string  `json:"bloodType"`
	LineID            string  `json:"lineId"`
	University        string  `json:"university"`
	Qualification     string  `json:"qualification"`
	Major             string  `json:"major"`
	GPA               float64 `json:"gpa"`
	Reason            string  `json:"reason"`
	OtherReason       string  `json:"otherReason"`
	Strength          string  `json:"strength"`
	Weakness          string  `json:"weakness"`
	Opportunity       string  `json:"opportunity"`
	Threats           string  `json:"threats"`
	RecruitmentSource string  `json:"recruitmentSource"`
	VideoClip         string  `json:"videoClip,omitempty"`
	GradeReport       string  `json:"gradeReport,omitempty"`
	HomeRegistration  string  `json:"homeRegistration,omitempty"`
	IDCard            string  `json:"idCard,omitempty"`
	SlidePresentation string  `json:"slidePresentation,omitempty"`
}

func toPersonalInfoDTO(p personalinfo.PersonalInfo) personalInfoDTO {
	return personalInfoDTO{
		Email:             p.Email,
		DueTime:           p.DueTime.Format(time.RFC3339),
		Name:              p.Name,
		Nickname:          p.Nickname,
		Mobile:            p.Mobile,
		Address:           p.Address,
		DOB:               p.DOB,
		BloodType:         p.BloodType,
		LineID:            p.LineID,
		University:        p.University,
		Qualification:     p.Qualification,
		Major:             p.Major,
		GPA:               p.GPA,
		Reason:            p.Reason,
		OtherReason:       p.OtherReason,
		Strength:          p.Strength,
		Weakness:          p.Weakness,
		Opportunity:       p.Opportunity,
		Threats:           p.Threats,
		RecruitmentSource: p.RecruitmentSource,
		VideoClip:         p.VideoClip,
		GradeReport:       p.GradeReport,
		HomeRegistration:  p.HomeRegistration,
		IDCard:            p.IDCard,
		SlidePresentation: p.SlidePresentation,
	}
}

// GetByEmail возвращает анкету; до стадии offering отдаёт applicable=false
// вместо 404 — анкеты на этих этапах ещё не должно быть.
// @Summary Анкета по email
// @Tags    Анкеты
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /personalInfos/getByEmail/{email} [get]
func (h *PersonalInfoHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	p, applicable, err := h.uc.Get(c.Context(), email)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if !applicable {
		return presenter.JSON(c, http.StatusOK, fiber.Map{"applicable": false})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"applicable": true, "personalInfo": toPersonalInfoDTO(p)})
}

// Submit применяет заполненную кандидатом форму; поля приходят
// multipart'ом вместе с файлами документов.
// @Summary Отправить анкету
// @Tags    Анкеты
// @Accept  multipart/form-data
// @Produce json
// @Param   email path string true "email кандидата"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /personalInfos/update/{email} [patch]
func (h *PersonalInfoHandler) Submit(c *fiber.Ctx) error {
	email := c.Params("email")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	gpa, _ := strconv.ParseFloat(c.FormValue("gpa"), 64)
	p := personalinfo.PersonalInfo{
		Email:             email,
		Name:              c.FormValue("name"),
		Nickname:          c.FormValue("nickname"),
		Mobile:            c.FormValue("mobile"),
		Address:           c.FormValue("address"),
		DOB:               c.FormValue("dob"),
		BloodType:         c.FormValue("bloodType"),
		LineID:            c.FormValue("lineId"),
		University:        c.FormValue("university"),
		Qualification:     c.FormValue("qualification"),
		Major:             c.FormValue("major"),
		GPA:               gpa,
		Reason:            c.FormValue("reason"),
		OtherReason:       c.FormValue("otherReason"),
		Strength:          c.FormValue("strength"),
		Weakness:          c.FormValue("weakness"),
		Opportunity:       c.FormValue("opportunity"),
		Threats:           c.FormValue("threats"),
		RecruitmentSource: c.FormValue("recruitmentSource"),
	}
	var saved []string
	for field := range personalinfo.FileFields {
		fh, err := c.FormFile(field)
		if err != nil || fh == nil {
			continue
		}
		url, err := h.store.Save(fh, "personal")
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		saved = append(saved, url)
		p.SetFileURL(field, url)
	}
	updated, err := h.uc.Submit(c.Context(), p)
	if err != nil {
		for _, url := range saved {
			_ = h.store.Remove(url)
		}
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"personalInfo": toPersonalInfoDTO(updated)})
}

// DeleteFile снимает одну ссылку на документ и удаляет сам файл; анкета
// при этом остаётся.
// @Summary Удалить файл анкеты
// @Tags    Анкеты
// @Produce json
// @Param   email path string true "email кандидата"
// @Param   field path string true "имя поля-файла"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /personalInfos/deleteFile/{email}/{field} [patch]
func (h *PersonalInfoHandler) DeleteFile(c *fiber.Ctx) error {
	email, field := c.Params("email"), c.Params("field")
	if !canAccess(c, email) {
		return presenter.Error(c, http.StatusForbidden, "access denied")
	}
	// читаем текущий URL до очистки, чтобы убрать файл с диска
	old, applicable, err := h.uc.Get(c.Context(), email)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if !applicable {
		return presenter.Error(c, http.StatusConflict, "personal info is not applicable at this stage")
	}
	updated, err := h.uc.ClearFile(c.Context(), email, field)
	if err != nil {
		return presenter.FromError(c, err)
	}
	if url := old.FileURL(field); url != "" {
		_ = h.store.Remove(url)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"personalInfo": toPersonalInfoDTO(updated)})
}
