package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// DataResponse writes a successful envelope with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse writes a failed envelope.
func ErrorResponse(c echo.Context, statusCode int, message string, details interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   http.StatusText(statusCode),
		Message: message,
		Details: details,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes a 400 with validation details.
func BadRequestResponse(c echo.Context, details interface{}) error {
	message := "invalid request"
	if errs, ok := details.([]ValidationError); ok && len(errs) > 0 {
		parts := make([]string, 0, len(errs))
		for _, e := range errs {
			parts = append(parts, e.Message)
		}
		message = strings.Join(parts, "; ")
	}
	return ErrorResponse(c, http.StatusBadRequest, message, details)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong", nil)
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message, []*AppError{appErr})
	}
	return InternalServerErrorResponse(c)
}

// HTTPErrorHandler renders echo errors (unknown routes, bad methods) in the API envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		_ = ErrorResponse(c, he.Code, message, nil)
		return
	}
	_ = AppErrorResponse(c, err)
}
