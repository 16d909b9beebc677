package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return apperr.HTTPStatus(err)
}

// ErrorHandler renders apperr and echo errors as {message, errors}. Causes
// of 5xx responses are logged and never sent to the client.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)
		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("request_id", requestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg(body.Message)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}

func render(err error) (int, ErrorBody) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := apperr.HTTPStatus(ae)
		msg := ae.Message
		if status >= http.StatusInternalServerError && msg == "" {
			msg = "Internal server error"
		}
		return status, ErrorBody{Message: msg, Errors: ae.Fields}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			if he.Code < http.StatusInternalServerError {
				msg = m.Error()
			}
		case nil:
		default:
			if he.Code < http.StatusInternalServerError {
				msg = fmt.Sprint(m)
			}
		}
		return he.Code, ErrorBody{Message: msg}
	}

	return http.StatusInternalServerError, ErrorBody{Message: "Internal server error"}
}
