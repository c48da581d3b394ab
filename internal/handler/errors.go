package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/logger"
)

type errorDetail struct {
	Type    string `json:"type"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   errorDetail `json:"error"`
	Message string      `json:"message"`
}

// NewErrorHandler returns the echo.HTTPErrorHandler that writes every error
// response.  Handlers and middleware only return errors.  When
// exposeInternal is true (APP_ENV=test) unhandled errors carry their cause
// in the message; otherwise clients see "Internal Server Error".
func NewErrorHandler(exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		typ, status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			logger.FromEcho(c).Error("unhandled error",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
			if exposeInternal {
				msg = err.Error()
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, errorBody{
				Error:   errorDetail{Type: typ, Status: status, Message: msg},
				Message: msg,
			})
		}
		if werr != nil {
			logger.FromEcho(c).Warn("write error response", zap.Error(werr))
		}
	}
}

// classify maps err to the client-facing type, status and message.
func classify(err error) (string, int, string) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Kind.String(), appErr.Status(), appErr.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		switch he.Code {
		case http.StatusNotFound:
			return apperror.KindNotFound.String(), he.Code, "Not Found"
		case http.StatusBadRequest:
			return apperror.KindValidation.String(), he.Code, msg
		case http.StatusUnauthorized:
			return apperror.KindAuthentication.String(), he.Code, msg
		case http.StatusForbidden:
			return apperror.KindAuthorization.String(), he.Code, msg
		}
		if he.Code >= http.StatusInternalServerError {
			return apperror.KindUnhandled.String(), he.Code, "Internal Server Error"
		}
		return "HTTPError", he.Code, msg
	}
	return apperror.KindUnhandled.String(), http.StatusInternalServerError, "Internal Server Error"
}
