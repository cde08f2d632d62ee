package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/visit"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service visit.VisitService
}

func NewHandler(service visit.VisitService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
		appointments.PATCH("/:id/medical-details", h.UpdateMedicalDetails)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.VisitRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	v, err := h.service.CreateVisit(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, "Appointment created successfully", v)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	v, err := h.service.GetVisit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", v)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var (
		filter model.VisitFilter
		ok     bool
	)
	if filter.PatientID, ok = handler.QueryID(c, "patientId"); !ok {
		return
	}
	if filter.PhysicianID, ok = handler.QueryID(c, "doctorId"); !ok {
		return
	}
	if filter.Date, ok = handler.QueryDate(c, "date"); !ok {
		return
	}
	filter.Status = model.VisitStatus(c.Query("status"))

	visits, err := h.service.ListVisits(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", handler.NonNil(visits))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req model.VisitRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	v, err := h.service.UpdateVisit(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Appointment updated successfully", v)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req model.VisitStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	v, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Appointment status updated successfully", v)
}

func (h *Handler) UpdateMedicalDetails(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req model.MedicalDetailsRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	v, err := h.service.UpdateMedicalDetails(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Medical details updated successfully", v)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteVisit(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Appointment deleted successfully", nil)
}
