package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// BindJSON decodes the body into obj and answers 400 when it is malformed or
// fails validation.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		httputil.RespondWithMessage(c, http.StatusBadRequest, validator.Message(err))
		return false
	}
	return true
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithMessage(c, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

// QueryID reads an optional positive integer query parameter. A missing key
// yields nil.
func QueryID(c *gin.Context, key string) (*int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithMessage(c, http.StatusBadRequest, "invalid "+key)
		return nil, false
	}
	return &id, true
}

func QueryDate(c *gin.Context, key string) (*model.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		httputil.RespondWithMessage(c, http.StatusBadRequest, "invalid "+key+", expected YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}

// NonNil keeps empty results rendering as [] instead of null.
func NonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
