package http

import (
	"errors"
	"net/http"

	"brokerage/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	codeValidation        = "validation"
	codeNotFound          = "not-found"
	codeActorNotPermitted = "actor-not-permitted"
	codeDependency        = "dependency"
	codeInternal          = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

func writeData(c echo.Context, status int, data any) error {
	return c.JSON(status, dataEnvelope{Data: data})
}

func writeErrorEnvelope(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeError maps domain and dependency errors to status codes.
// Dependency and unexpected failures do not leak their cause to the client.
func writeError(c echo.Context, err error) error {
	status, code, message := classify(err)
	return writeErrorEnvelope(c, status, code, message)
}

func classify(err error) (int, string, string) {
	var transitionErr *errs.TransitionError
	if errors.As(err, &transitionErr) {
		if transitionErr.Reason == errs.ReasonActorNotPermitted {
			return http.StatusForbidden, codeActorNotPermitted, err.Error()
		}
		return http.StatusConflict, string(transitionErr.Reason), err.Error()
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, codeNotFound, err.Error()
	case errs.IsValidation(err):
		return http.StatusBadRequest, codeValidation, err.Error()
	case errors.Is(err, errs.ErrDependency):
		return http.StatusInternalServerError, codeDependency, "a dependency is unavailable, retry later"
	default:
		return http.StatusInternalServerError, codeInternal, "internal error"
	}
}

// HTTPErrorHandler renders echo's own errors (unknown route, bad method) in the envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := codeInternal
		switch {
		case he.Code == http.StatusNotFound:
			code = codeNotFound
		case he.Code < http.StatusInternalServerError:
			code = codeValidation
		}
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		_ = writeErrorEnvelope(c, he.Code, code, message)
		return
	}

	_ = writeError(c, err)
}
