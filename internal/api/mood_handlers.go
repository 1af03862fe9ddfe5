package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
)

func GetJournalDay(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		day, err := app.Journal().JournalDay(c.Request.Context(), user.ID, dayParam(c, app, "date"))
		if err != nil {
			Fail(c, app, err, "Failed to load journal")
			return
		}
		HandleSuccess(c, app.Logger(), day, nil)
	}
}

func ListMoods(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		logs, err := app.Journal().ListMoods(c.Request.Context(), user.ID, c.Query("from"), c.Query("to"), app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to fetch mood logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"count": len(logs)})
	}
}

func GetMood(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		log, err := app.Journal().GetMood(c.Request.Context(), user.ID, c.Param("date"))
		if err != nil {
			Fail(c, app, err, "No mood logged")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func PutMood(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		var req service.MoodRequest
		if !bindJSON(c, app, &req) {
			return
		}
		log, err := app.Journal().SaveMood(c.Request.Context(), user.ID, c.Param("date"), &req, app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to save mood")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func DeleteMood(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if err := app.Journal().DeleteMood(c.Request.Context(), user.ID, c.Param("date")); err != nil {
			Fail(c, app, err, "Failed to delete mood")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": true}, nil)
	}
}
