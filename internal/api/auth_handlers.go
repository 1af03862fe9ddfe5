package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
)

var errTokensDisabled = errors.New("sessions are issued by the external auth service")

func PostSignUp(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.Tokens() == nil {
			HandleError(c, app.Logger(), errTokensDisabled, http.StatusNotImplemented, "Sign up unavailable")
			return
		}
		var req service.SignUpRequest
		if !bindJSON(c, app, &req) {
			return
		}
		session, err := service.SignUp(c.Request.Context(), app.Profiles(), app.Tokens(), &req, app.Now())
		if err != nil {
			Fail(c, app, err, "Sign up failed")
			return
		}
		HandleCreated(c, app.Logger(), session)
	}
}

func PostLogin(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.Tokens() == nil {
			HandleError(c, app.Logger(), errTokensDisabled, http.StatusNotImplemented, "Login unavailable")
			return
		}
		var req service.SignInRequest
		if !bindJSON(c, app, &req) {
			return
		}
		session, err := service.SignIn(c.Request.Context(), app.Profiles(), app.Tokens(), &req)
		if err != nil {
			Fail(c, app, err, "Login failed")
			return
		}
		HandleSuccess(c, app.Logger(), session, nil)
	}
}
