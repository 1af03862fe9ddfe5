package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
)

func GetDashboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		days := 0
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				HandleError(c, app.Logger(), fmt.Errorf("%w: days must be a number", internal.ErrInvalidInput), http.StatusBadRequest, "Invalid period")
				return
			}
			days = n
		}
		dash, err := app.Journal().BuildDashboard(c.Request.Context(), user.ID, days, app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to build dashboard")
			return
		}
		HandleSuccess(c, app.Logger(), dash, nil)
	}
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
