package helpers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type ErrorResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Errors   map[string]string `json:"errors,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StatusForError maps service errors onto HTTP statuses.
func StatusForError(err error) int {
	var rejected *services.ServerRejectedError
	var netErr *services.NetworkError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrCheckoutNotStarted):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrStageIncomplete),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrPaymentUnavailable),
		errors.Is(err, services.ErrUnknownCoupon),
		errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rejected):
		if rejected.StatusCode >= 400 && rejected.StatusCode < 500 {
			return rejected.StatusCode
		}
		return http.StatusBadGateway
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func RespondData(rnd *render.Render, w http.ResponseWriter, status int, message string, data any) {
	_ = rnd.JSON(w, status, DataResponse{Success: true, Message: message, Data: data})
}

func RespondError(rnd *render.Render, w http.ResponseWriter, err error) {
	_ = rnd.JSON(w, StatusForError(err), ErrorResponse{Success: false, Message: services.UserMessage(err)})
}

func RespondMessage(rnd *render.Render, w http.ResponseWriter, status int, message string) {
	_ = rnd.JSON(w, status, ErrorResponse{Success: false, Message: message})
}

// RespondValidation writes 422 with per-field messages, or 400 when err is not
// a validation failure.
func RespondValidation(rnd *render.Render, w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		_ = rnd.JSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Success: false,
			Message: "Please check the highlighted fields.",
			Errors:  FormatValidationErrors(verrs),
		})
		return
	}
	RespondMessage(rnd, w, http.StatusBadRequest, "Invalid request payload.")
}

// RespondResult writes a cart mutation outcome. Failures keep the message the
// service chose, which for a missing login asks the shopper to sign in.
func RespondResult(rnd *render.Render, w http.ResponseWriter, res services.Result) {
	if res.Success {
		_ = rnd.JSON(w, http.StatusOK, res)
		return
	}
	status := StatusForError(res.Err)
	if res.Err == nil {
		status = http.StatusBadGateway
	}
	_ = rnd.JSON(w, status, res)
}
