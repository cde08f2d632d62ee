package legacy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req model.SubmitFeedbackRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if _, err := h.feedback.SubmitFeedback(c.Request.Context(), req); err != nil {
		handler.RespondWithResult(c, err, "Failed to Submit Feedback")
		return
	}
	c.JSON(http.StatusOK, handler.Result{Success: true, Message: "Feedback submitted successfully"})
}

func (h *Handler) ListFeedback(c *gin.Context) {
	entries, err := h.feedback.ListFeedback(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(entries))
}
