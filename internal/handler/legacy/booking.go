package legacy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const (
	msgBooked         = "Appointment booked successfully"
	msgBookFailed     = "Failed to book appointment"
	msgCancelled      = "Appointment and ward updated successfully"
	msgCancelFailed   = "Failed to delete appointment"
	msgWardBooked     = "Ward occupied successfully"
	msgWardBookFailed = "Failed to occupy ward"
	msgWardFreed      = "Ward unoccupied successfully"
	msgWardFreeFailed = "Failed to unoccupy ward"
)

type bookingResult struct {
	handler.Result
	AppID int64 `json:"appID"`
}

type wardIDRow struct {
	WardID int64 `json:"wardID"`
}

func (h *Handler) ListWards(c *gin.Context) {
	wards, err := h.booking.ListAvailableWards(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(wards))
}

func (h *Handler) WardsOfDoctor(c *gin.Context) {
	doctorID, ok := requiredQueryID(c, "docID")
	if !ok {
		return
	}
	ids, err := h.booking.ListWardIDsForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	rows := make([]wardIDRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, wardIDRow{WardID: id})
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AppointmentsOn(c *gin.Context) {
	if c.Query("date") == "" {
		httputil.RespondWithMessage(c, http.StatusBadRequest, "date is required")
		return
	}
	date, ok := handler.QueryDate(c, "date")
	if !ok {
		return
	}
	appts, err := h.booking.ListAppointmentsOn(c.Request.Context(), *date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(appts))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appts, err := h.booking.ListAllAppointments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(appts))
}

func (h *Handler) AppointmentsForDoctor(c *gin.Context) {
	doctorID, ok := requiredQueryID(c, "docID")
	if !ok {
		return
	}
	appts, err := h.booking.ListAppointmentsForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(appts))
}

func (h *Handler) NextAppointmentID(c *gin.Context) {
	next, err := h.booking.NextAppointmentID(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appID": next})
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	appt, err := h.booking.BookAppointment(c.Request.Context(), req)
	if err != nil {
		handler.RespondWithResult(c, err, msgBookFailed)
		return
	}
	c.JSON(http.StatusOK, bookingResult{
		Result: handler.Result{Success: true, Message: msgBooked},
		AppID:  appt.AppID,
	})
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	var req model.CancelAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if _, err := h.booking.CancelAppointment(c.Request.Context(), req.AppointmentID, req.WardID); err != nil {
		handler.RespondWithResult(c, err, msgCancelFailed)
		return
	}
	c.JSON(http.StatusOK, handler.Result{Success: true, Message: msgCancelled})
}

func (h *Handler) BookWard(c *gin.Context) {
	h.setWard(c, true, msgWardBooked, msgWardBookFailed)
}

func (h *Handler) UnbookWard(c *gin.Context) {
	h.setWard(c, false, msgWardFreed, msgWardFreeFailed)
}

func (h *Handler) setWard(c *gin.Context, occupied bool, okMsg, failMsg string) {
	var req model.WardRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if err := h.booking.SetWardOccupied(c.Request.Context(), req.Ward(), occupied); err != nil {
		handler.RespondWithResult(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, handler.Result{Success: true, Message: okMsg})
}
