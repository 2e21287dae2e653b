package httpserver

import (
	"errors"
	"net/http"

	"bracelet-customizer/internal/customization"
	"bracelet-customizer/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

func writeData(c *gin.Context, status int, data any) {
	c.JSON(status, dataEnvelope{Data: data})
}

// writeError maps service errors onto status codes. Only internal errors are logged here; the
// request logger records the rest.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *customization.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorEnvelope{Error: apiError{Code: string(verr.Code), Message: verr.Error()}})
	case errors.Is(err, customization.ErrMalformed):
		c.JSON(http.StatusBadRequest, errorEnvelope{Error: apiError{Code: "MalformedCustomization", Message: err.Error()}})
	case errors.Is(err, domain.ErrNotCustomizable):
		c.JSON(http.StatusUnprocessableEntity, errorEnvelope{Error: apiError{Code: "NotCustomizable", Message: err.Error()}})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorEnvelope{Error: apiError{Code: "InvalidInput", Message: err.Error()}})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorEnvelope{Error: apiError{Code: "NotFound", Message: "resource not found"}})
	case errors.Is(err, domain.ErrCartClosed):
		c.JSON(http.StatusConflict, errorEnvelope{Error: apiError{Code: "CartClosed", Message: err.Error()}})
	case errors.Is(err, domain.ErrCartChanged):
		c.JSON(http.StatusConflict, errorEnvelope{Error: apiError{Code: "CartChanged", Message: err.Error()}})
	default:
		event := log.Error().Err(err).Str("request_id", c.GetString(requestIDHeader)).Str("path", c.FullPath())
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			event = event.Str("pg_code", pgErr.Code).Str("pg_constraint", pgErr.ConstraintName)
		}
		event.Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: apiError{Code: "Internal", Message: "unexpected error"}})
	}
}
