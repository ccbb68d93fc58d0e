package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vamsi4727/bhanus-studio-billing/internal/backup"
	billdomain "github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/billdate"
	"github.com/vamsi4727/bhanus-studio-billing/internal/settings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if billdomain.IsValidation(err) || errors.Is(err, settings.ErrInvalidKey) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "validation error",
				},
			},
		}
	}

	switch {
	case errors.Is(err, billdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, backup.ErrCorruptSnapshot):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "corrupt snapshot",
		}
	case isStorageError(err):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "storage_error",
			Message: "storage unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isStorageError(err error) bool {
	var sErr *billdomain.StorageError
	return errors.As(err, &sErr)
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, billdomain.ErrInvalidInvoiceNumber):
		return "invalid_invoice_number"
	case errors.Is(err, billdomain.ErrInvalidCustomerName):
		return "invalid_customer_name"
	case errors.Is(err, billdomain.ErrEmptyItems):
		return "empty_items"
	case errors.Is(err, billdomain.ErrInvalidItemDescription):
		return "invalid_item_description"
	case errors.Is(err, billdomain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, billdomain.ErrInvalidRate):
		return "invalid_rate"
	case errors.Is(err, billdomain.ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, billdate.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, settings.ErrInvalidKey):
		return "invalid_key"
	default:
		return "invalid_request"
	}
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_invoice_number":
		return "invoiceNumber"
	case "invalid_customer_name":
		return "customerName"
	case "empty_items", "invalid_item_description", "invalid_quantity", "invalid_rate":
		return "items"
	case "invalid_date_range":
		return "range"
	case "invalid_date":
		return "date"
	case "invalid_key":
		return "key"
	default:
		return "request"
	}
}

// classifyErrorForLog feeds the request logger's error fields.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
