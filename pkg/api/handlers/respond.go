package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/lampbridge/pkg/api/types"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/lamp/schema"
)

const maxBodyBytes = 1 << 16

func success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, types.Response{
		Status:  types.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func failed(c *gin.Context, code int, message string) {
	c.JSON(code, types.Response{
		Status:  types.StatusFailed,
		Message: message,
	})
}

// fail maps an engine error onto a status code.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lamp.ErrInvalidArgument):
		failed(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, lamp.ErrNotFound):
		failed(c, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		failed(c, http.StatusInternalServerError, err.Error())
	}
}

// bindValidated reads the body, validates it against the schema of req and
// decodes it into dst. It writes the 400 response itself and returns false
// on failure.
func bindValidated(c *gin.Context, v *schema.Validator, req schema.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		failed(c, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := v.Decode(req, body, dst); err != nil {
		failed(c, http.StatusBadRequest, fmt.Sprintf("Validation failed: %v", err))
		return false
	}
	return true
}

func timerResponse(t lamp.Timer, now time.Time) types.TimerResponse {
	return types.TimerResponse{
		ID:          t.ID.String(),
		Number:      t.Number,
		StartAt:     t.StartAt,
		ExpiredAt:   t.ExpiredAt,
		ExpiresAt:   t.ExpiresAt().UTC(),
		RemainingMS: t.Remaining(now).Milliseconds(),
	}
}
