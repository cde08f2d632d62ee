package legacy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/staff"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const (
	msgAddEmployeeFailed = "Failed to add employee"
	msgAddDoctorFailed   = "Failed to add doctor record"
)

type docNameRow struct {
	DocName string `json:"docName"`
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.staff.ListDoctors(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(doctors))
}

func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := h.staff.ListEmployees(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NonNil(employees))
}

func (h *Handler) DoctorName(c *gin.Context) {
	doctorID, ok := requiredQueryID(c, "doctorID")
	if !ok {
		return
	}
	name, err := h.staff.DoctorName(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, []docNameRow{{DocName: name}})
}

// AddEmployee answers with a bare JSON string on success.
func (h *Handler) AddEmployee(c *gin.Context) {
	var req model.AddEmployeeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	msg, err := h.staff.AddEmployee(c.Request.Context(), req)
	if err != nil {
		fallback := msgAddEmployeeFailed
		if repository.FailedStep(err) == repository.StepDoctor {
			fallback = msgAddDoctorFailed
		}
		handler.RespondWithResult(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	var req model.DeleteEmployeeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if _, err := h.staff.DeleteEmployee(c.Request.Context(), req.EmployeeID); err != nil {
		handler.RespondWithResult(c, err, "Failed to delete employee")
		return
	}
	c.JSON(http.StatusOK, staff.MsgDeleted)
}
