package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
)

func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		profile, err := service.GetProfile(c.Request.Context(), app.Profiles(), user.ID)
		if err != nil {
			Fail(c, app, err, "Failed to load profile")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func PutProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		var req service.ProfileRequest
		if !bindJSON(c, app, &req) {
			return
		}
		profile, err := service.UpdateProfile(c.Request.Context(), app.Profiles(), user.ID, &req, app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to update profile")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func PutPassword(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		var req service.ChangePasswordRequest
		if !bindJSON(c, app, &req) {
			return
		}
		if err := service.ChangePassword(c.Request.Context(), app.Profiles(), user.ID, &req, app.Now()); err != nil {
			Fail(c, app, err, "Failed to change password")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"changed": true}, nil)
	}
}

func GetGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		goals, err := service.GetGoals(c.Request.Context(), app.Profiles(), user.ID)
		if err != nil {
			Fail(c, app, err, "Failed to load goals")
			return
		}
		HandleSuccess(c, app.Logger(), goals, nil)
	}
}

func PutGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		var req service.GoalsRequest
		if !bindJSON(c, app, &req) {
			return
		}
		goals, err := service.UpdateGoals(c.Request.Context(), app.Profiles(), user.ID, &req, app.Now())
		if err != nil {
			Fail(c, app, err, "Goal validation failed")
			return
		}
		HandleSuccess(c, app.Logger(), goals, nil)
	}
}
