package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
)

func ListSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		logs, err := app.Journal().ListSleeps(c.Request.Context(), user.ID, c.Query("from"), c.Query("to"), app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to fetch logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"count": len(logs)})
	}
}

func GetSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		log, err := app.Journal().GetSleep(c.Request.Context(), user.ID, c.Param("date"))
		if err != nil {
			Fail(c, app, err, "No sleep logged")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func PutSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.SleepRequest
		if !bindJSON(c, app, &body) {
			return
		}
		app.Logger().Debugf("Parsed SleepRequest: %+v", body)

		log, err := app.Journal().SaveSleep(c.Request.Context(), user.ID, c.Param("date"), &body, app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to save log")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func DeleteSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if err := app.Journal().DeleteSleep(c.Request.Context(), user.ID, c.Param("date")); err != nil {
			Fail(c, app, err, "Failed to delete log")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": true}, nil)
	}
}
