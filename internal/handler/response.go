package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/pkg/errors"
)

// Result is the {success, message} body of the root level routes.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondWithResult writes a failure Result for err. Client errors carry the
// service message; anything else is logged and answered with fallback.
func RespondWithResult(c *gin.Context, err error, fallback string) {
	status := errors.StatusOf(err)
	message := fallback
	if appErr, ok := errors.As(err); ok && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString("request_id")).
			Msg(fallback)
	}
	c.AbortWithStatusJSON(status, Result{Success: false, Message: message})
}
