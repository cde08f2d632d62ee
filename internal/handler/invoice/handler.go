package invoice

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/billing"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service billing.InvoiceService
}

func NewHandler(service billing.InvoiceService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /invoices. Refunds need an admin.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	invoices := r.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.GET("/:id/payments", h.ListPayments)
		invoices.POST("/:id/payments", h.AddPayment)
		invoices.PATCH("/:id/cancel", h.CancelInvoice)
		invoices.PATCH("/:id/refund", authMiddleware.RequireRole(model.RoleAdmin), h.RefundInvoice)
	}
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req model.InvoiceRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, "Invoice created successfully", inv)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", inv)
}

func (h *Handler) ListInvoices(c *gin.Context) {
	var (
		filter model.InvoiceFilter
		ok     bool
	)
	if filter.PatientID, ok = handler.QueryID(c, "patientId"); !ok {
		return
	}
	if filter.VisitID, ok = handler.QueryID(c, "appointmentId"); !ok {
		return
	}
	filter.Status = model.InvoiceStatus(c.Query("status"))

	invoices, err := h.service.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", handler.NonNil(invoices))
}

func (h *Handler) AddPayment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req model.PaymentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.AddPayment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, "Payment recorded successfully", inv)
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", handler.NonNil(payments))
}

func (h *Handler) CancelInvoice(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Invoice cancelled successfully", inv)
}

func (h *Handler) RefundInvoice(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.RefundInvoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Invoice refunded successfully", inv)
}
