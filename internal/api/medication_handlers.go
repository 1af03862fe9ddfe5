package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
)

func ListMedications(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		meds, err := app.Journal().ListMedications(c.Request.Context(), user.ID)
		if err != nil {
			Fail(c, app, err, "Failed to fetch medications")
			return
		}
		HandleSuccess(c, app.Logger(), meds, nil)
	}
}

func PostMedications(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		var req service.AddMedicationsRequest
		if !bindJSON(c, app, &req) {
			return
		}
		meds, err := app.Journal().AddMedications(c.Request.Context(), user.ID, &req, app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to add medications")
			return
		}
		HandleCreated(c, app.Logger(), meds)
	}
}

func DeleteMedication(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if err := app.Journal().DeleteMedication(c.Request.Context(), user.ID, c.Param("id")); err != nil {
			Fail(c, app, err, "Failed to delete medication")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": true}, nil)
	}
}

func PostToggleMedication(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		res, err := app.Journal().ToggleMedication(c.Request.Context(), user.ID, c.Param("id"), dayParam(c, app, "date"), app.Now())
		if err != nil {
			Fail(c, app, err, "Failed to toggle medication")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func GetTakenMedications(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		ids, err := app.Journal().TakenMedicationIDs(c.Request.Context(), user.ID, dayParam(c, app, "date"))
		if err != nil {
			Fail(c, app, err, "Failed to fetch taken medications")
			return
		}
		HandleSuccess(c, app.Logger(), ids, nil)
	}
}
