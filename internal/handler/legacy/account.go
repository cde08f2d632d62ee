package legacy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/auth"
)

type loginRow struct {
	UserID string     `json:"userID"`
	Role   model.Role `json:"role"`
}

// Login answers with the matching credential row; the hash is never echoed.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	cred, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handler.RespondWithResult(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, []loginRow{{UserID: cred.UserID, Role: cred.Role}})
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	if err := h.accounts.Signup(c.Request.Context(), req.Username, req.Password); err != nil {
		handler.RespondWithResult(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusOK, handler.Result{Success: true, Message: auth.MsgUserRegistered})
}
