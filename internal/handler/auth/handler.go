package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /auth. Validate and logout need the bearer token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/register", h.Register)
		group.GET("/validate", authMiddleware.Authenticate(), h.Validate)
		group.POST("/logout", authMiddleware.Authenticate(), h.Logout)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	token, err := h.service.IssueToken(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "Login successful", token)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if err := h.service.Signup(c.Request.Context(), req.Username, req.Password); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, auth.MsgUserRegistered, nil)
}

func (h *Handler) Validate(c *gin.Context) {
	httputil.RespondWithSuccess(c, "Token is valid", gin.H{
		"username": c.GetString(middleware.ContextUsername),
		"role":     c.GetString(middleware.ContextRole),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.GetString(middleware.ContextToken)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithStatus(c, http.StatusOK, "Logged out successfully", nil)
}
