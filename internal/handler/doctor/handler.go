package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/physician"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service physician.PhysicianService
}

func NewHandler(service physician.PhysicianService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /doctors. Reads are open to any signed in user;
// mutations need an admin.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)

		admin := doctors.Group("", authMiddleware.RequireRole(model.RoleAdmin))
		admin.POST("", h.CreateDoctor)
		admin.PUT("/:id", h.UpdateDoctor)
		admin.PATCH("/:id/availability", h.SetAvailability)
		admin.DELETE("/:id", h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.PhysicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.CreatePhysician(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, "Doctor created successfully", doc)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetPhysician(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", doc)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	filter := model.PhysicianFilter{
		Specialization: c.Query("specialization"),
		Department:     c.Query("department"),
		AvailableOnly:  c.Query("available") == "true",
		Search:         c.Query("search"),
	}

	doctors, err := h.service.ListPhysicians(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "", handler.NonNil(doctors))
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req model.PhysicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdatePhysician(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Doctor updated successfully", doc)
}

func (h *Handler) SetAvailability(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req model.AvailabilityRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.SetAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Doctor availability updated successfully", doc)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePhysician(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Doctor deleted successfully", nil)
}
