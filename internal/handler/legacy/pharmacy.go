package legacy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type paymentIDRow struct {
	// Null when no payment has been recorded yet.
	PaymentID *int64 `json:"paymentID"`
}

type paymentResult struct {
	Success   bool  `json:"success"`
	PaymentID int64 `json:"paymentID"`
}

func (h *Handler) ListMedicines(c *gin.Context) {
	medicines, err := h.pharmacy.ListMedicines(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(medicines))
}

func (h *Handler) LatestPaymentID(c *gin.Context) {
	latest, err := h.pharmacy.LatestPaymentID(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, []paymentIDRow{{PaymentID: latest}})
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req model.RecordPaymentRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	record, err := h.pharmacy.RecordPayment(c.Request.Context(), req)
	if err != nil {
		handler.RespondWithResult(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, paymentResult{Success: true, PaymentID: record.PaymentID})
}

func (h *Handler) ListPaymentRecords(c *gin.Context) {
	records, err := h.pharmacy.ListPaymentRecords(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(records))
}
