package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/internship/pkg/catalog"
	"github.com/artem13815/internship/pkg/offer"
	"github.com/artem13815/internship/pkg/personalinfo"
	"github.com/artem13815/internship/pkg/request"
	"github.com/artem13815/internship/pkg/result"
	"github.com/artem13815/internship/pkg/screening"
	"github.com/artem13815/internship/pkg/workflow"
)

// FromError переводит доменные ошибки в HTTP-статусы единообразно для
// всех хендлеров: валидация — 400, нелегальный переход или расхождение
// статуса с под-записями — 409, отсутствие записи — 404.
func FromError(c *fiber.Ctx, err error) error {
	var validation workflow.ErrValidation
	if errors.As(err, &validation) {
		return Error(c, http.StatusBadRequest, validation.Error())
	}
	var transition *workflow.TransitionError
	if errors.As(err, &transition) {
		return Error(c, http.StatusConflict, transition.Error())
	}
	var unknownTest offer.ErrUnknownTest
	if errors.As(err, &unknownTest) {
		return Error(c, http.StatusNotFound, unknownTest.Error())
	}
	switch {
	case errors.Is(err, workflow.ErrConflict):
		return Error(c, http.StatusConflict, "application state is inconsistent, please retry")
	case errors.Is(err, result.ErrAlreadyExists), errors.Is(err, catalog.ErrAlreadyExists):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrNotFound),
		errors.Is(err, request.ErrNotFound),
		errors.Is(err, personalinfo.ErrNotFound),
		errors.Is(err, offer.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, screening.ErrNotFound),
		errors.Is(err, result.ErrNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	}
	return Error(c, http.StatusInternalServerError, "internal error")
}
