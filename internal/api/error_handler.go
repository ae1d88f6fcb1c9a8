package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/api/handler"
	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

const internalErrorMessage = "internal server error"

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// kindForStatus classifies errors raised by Echo itself (router misses, bind
// failures, oversized bodies) so they render with a sensible type.
func kindForStatus(status int) domain.Kind {
	switch {
	case status == http.StatusUnauthorized:
		return domain.KindUnauthenticated
	case status == http.StatusForbidden:
		return domain.KindForbidden
	case status == http.StatusNotFound:
		return domain.KindNotFound
	case status == http.StatusConflict:
		return domain.KindConflict
	case status == http.StatusTooManyRequests:
		return domain.KindRateLimited
	case status >= 400 && status < 500:
		return domain.KindInvalidArgument
	default:
		return domain.KindUnclassified
	}
}

// NewHTTPErrorHandler returns the single place where error bodies are
// rendered. Every handler, middleware and recovered panic ends up here.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, kind, msg := resolveError(err)
		traceID := requestID(c)
		metrics.ErrorsTotal.WithLabelValues(kind.String()).Inc()

		if status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("trace_id", traceID).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		} else {
			log.Debug().
				Err(err).
				Str("trace_id", traceID).
				Int("status", status).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, handler.ErrorResponse{
				Error: handler.ErrorBody{
					Message:    msg,
					Type:       kind.String(),
					StatusCode: status,
				},
				TraceID: traceID,
			})
		}
		if err != nil {
			log.Error().Err(err).Str("trace_id", traceID).Msg("write error response")
		}
	}
}

func resolveError(err error) (int, domain.Kind, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind := kindForStatus(he.Code)
		if kind == domain.KindUnclassified {
			return he.Code, kind, internalErrorMessage
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, kind, msg
	}

	kind := domain.Classify(err)
	status := StatusFor(kind)
	if kind == domain.KindUnclassified {
		return status, kind, internalErrorMessage
	}
	return status, kind, domain.PublicMessage(err)
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
