package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/pkg/money"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// statusFor maps a domain error kind onto an HTTP status.
func statusFor(kind model.Kind) int {
	switch kind {
	case model.KindValidation, model.KindBusinessRule, model.KindPaymentTiming, model.KindState:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := model.KindOf(err)
	status := statusFor(kind)

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, status, ErrorResponse{Error: "internal server error", Code: "INTERNAL"})
		return
	}

	var de *model.DomainError
	msg := err.Error()
	if errors.As(err, &de) && kind != model.KindValidation {
		msg = de.Error()
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: model.CodeOf(err)})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Code: model.ErrValidation.Code()})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeBadRequest(w, err.Error())
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details[fe.Field()] = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
			continue
		}
		details[fe.Field()] = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "request validation failed",
		Code:    model.ErrValidation.Code(),
		Details: details,
	})
}

// checkScale rejects amounts the ledger cannot store without rounding. Keys
// are the JSON field names.
func checkScale(w http.ResponseWriter, amounts map[string]decimal.Decimal) bool {
	details := make(map[string]string)
	for field, amount := range amounts {
		if !money.FitsScale(amount) {
			details[field] = "at most 2 decimal places"
		}
	}
	if len(details) == 0 {
		return true
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   money.ErrTooPrecise.Error(),
		Code:    model.ErrValidation.Code(),
		Details: details,
	})
	return false
}
