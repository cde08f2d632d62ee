// Package legacy serves the root level routes the existing web client calls.
// Lists are bare JSON arrays and mutations answer with {success, message}.
package legacy

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/internal/service/booking"
	"github.com/jwalitptl/hospital-api/internal/service/feedback"
	"github.com/jwalitptl/hospital-api/internal/service/pharmacy"
	"github.com/jwalitptl/hospital-api/internal/service/staff"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	booking  *booking.Service
	staff    *staff.Service
	pharmacy *pharmacy.Service
	feedback *feedback.Service
	accounts *auth.Service
}

func NewHandler(
	bookingSvc *booking.Service,
	staffSvc *staff.Service,
	pharmacySvc *pharmacy.Service,
	feedbackSvc *feedback.Service,
	accounts *auth.Service,
) *Handler {
	return &Handler{
		booking:  bookingSvc,
		staff:    staffSvc,
		pharmacy: pharmacySvc,
		feedback: feedbackSvc,
		accounts: accounts,
	}
}

// RegisterPublicRoutes mounts the routes that never require a token.
func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.POST("/login", h.Login)
	r.POST("/signup", h.Signup)
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/doctors", h.ListDoctors)
	r.POST("/doctors", h.SubmitFeedback)
	r.GET("/doctorForDoctorPage", h.DoctorName)
	r.GET("/docDB", h.ListEmployees)

	r.GET("/ward", h.ListWards)
	r.POST("/bookWard", h.BookWard)
	r.POST("/unbookWard", h.UnbookWard)
	r.GET("/fetchWardsOfDoctor", h.WardsOfDoctor)

	r.GET("/appointments", h.AppointmentsOn)
	r.GET("/appointmentList", h.ListAppointments)
	r.GET("/appointmentListForDoctor", h.AppointmentsForDoctor)
	r.GET("/nextAppointmentID", h.NextAppointmentID)
	r.POST("/bookAppointment", h.BookAppointment)
	r.POST("/deleteAppointment", h.DeleteAppointment)

	r.GET("/pharmacy", h.ListMedicines)
	r.GET("/latestPaymentID", h.LatestPaymentID)
	r.POST("/paymentrecord", h.RecordPayment)
	r.GET("/fetchrecord", h.ListPaymentRecords)

	r.GET("/feedback", h.ListFeedback)
}

// RegisterStaffRoutes mounts the employee mutations, which the router
// restricts to admins when the legacy routes are authenticated.
func (h *Handler) RegisterStaffRoutes(r gin.IRoutes) {
	r.POST("/addEmployee", h.AddEmployee)
	r.POST("/deleteEmployee", h.DeleteEmployee)
}

// requiredQueryID reads a mandatory positive integer query parameter.
func requiredQueryID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithMessage(c, http.StatusBadRequest, key+" must be a positive integer")
		return 0, false
	}
	return id, true
}
