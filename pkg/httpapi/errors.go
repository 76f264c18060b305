package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/schema"
)

type errorPayload struct {
	Error  string         `json:"error"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

// clientError reports whether err was caused by the request.
func clientError(err error) bool {
	return errors.Is(err, schema.ErrInvalidSchema) ||
		errors.Is(err, render.ErrUnknownTemplate) ||
		errors.Is(err, render.ErrInvalidOptions) ||
		errors.Is(err, orchestrator.ErrInvalidRequest)
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, payload := s.classify(err, c)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, payload)
	}
	if err != nil {
		s.logger.Error("write error response", "error", err)
	}
}

func (s *Server) classify(err error, c echo.Context) (int, errorPayload) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorPayload{Error: schema.ErrInvalidSchema.Error(), Issues: verr.Issues}
	}
	if clientError(err) {
		return http.StatusBadRequest, errorPayload{Error: err.Error()}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if text, ok := httpErr.Message.(string); ok && text != "" {
			message = text
		}
		return httpErr.Code, errorPayload{Error: message}
	}

	s.logger.Error("request failed",
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
	return http.StatusInternalServerError, errorPayload{Error: "internal error"}
}
