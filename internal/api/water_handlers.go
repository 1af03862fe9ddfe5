package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
)

func GetWater(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		summary, err := app.Journal().WaterForDay(c.Request.Context(), user.ID, dayParam(c, app, "date"))
		if err != nil {
			Fail(c, app, err, "Failed to fetch water intake")
			return
		}
		HandleSuccess(c, app.Logger(), summary, nil)
	}
}

func PostWater(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		var req service.WaterRequest
		if !bindJSON(c, app, &req) {
			return
		}
		log, err := app.Journal().AddWater(c.Request.Context(), user.ID, &req, app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to log water")
			return
		}
		HandleCreated(c, app.Logger(), log)
	}
}

func DeleteLastWater(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		removed, err := app.Journal().RemoveLastWater(c.Request.Context(), user.ID, dayParam(c, app, "date"))
		if err != nil {
			Fail(c, app, err, "Nothing to remove")
			return
		}
		HandleSuccess(c, app.Logger(), removed, nil)
	}
}

func DeleteWater(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if err := app.Journal().DeleteWater(c.Request.Context(), user.ID, c.Param("id")); err != nil {
			Fail(c, app, err, "Failed to delete water log")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": true}, nil)
	}
}
