package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/response"
)

// StatusFor maps service and storage errors to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, internal.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internal.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, internal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if status >= 500 {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	c.AbortWithStatusJSON(status, response.Failure(status, msg, err))
}

// Fail reports err with the status StatusFor picks.
func Fail(c *gin.Context, app App, err error, msg string) {
	HandleError(c, app.Logger(), err, StatusFor(err), msg)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Created", requestID)
	c.JSON(http.StatusCreated, response.Success(data, nil))
}

// bindJSON decodes the body, reporting failures as 400.
func bindJSON(c *gin.Context, app App, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// dayParam reads a yyyy-mm-dd value from the path or query, defaulting to today.
func dayParam(c *gin.Context, app App, name string) string {
	if v := c.Param(name); v != "" {
		return v
	}
	if v := c.Query(name); v != "" {
		return v
	}
	return app.Journal().Today(app.Now())
}
