package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yasmngoncalves/PolarisApp/internal/auth"
)

type RouterConfig struct {
	Auth        auth.Provider
	CORSOrigins []string
	// TraceService enables otelgin spans when set.
	TraceService string
}

func NewRouter(app App, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceService != "" {
		r.Use(otelgin.Middleware(cfg.TraceService))
	}
	r.Use(RequestIDMiddleware(), RequestLogger(app.Logger()))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	r.GET("/healthz", Healthz)

	public := r.Group("/api/auth")
	public.POST("/signup", PostSignUp(app))
	public.POST("/login", PostLogin(app))

	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware(cfg.Auth))

	protected.GET("/profile", GetProfile(app))
	protected.PUT("/profile", PutProfile(app))
	protected.PUT("/profile/password", PutPassword(app))
	protected.GET("/goals", GetGoals(app))
	protected.PUT("/goals", PutGoals(app))

	protected.GET("/journal/:date", GetJournalDay(app))

	protected.GET("/mood", ListMoods(app))
	protected.GET("/mood/:date", GetMood(app))
	protected.PUT("/mood/:date", PutMood(app))
	protected.DELETE("/mood/:date", DeleteMood(app))

	protected.GET("/sleep", ListSleep(app))
	protected.GET("/sleep/:date", GetSleep(app))
	protected.PUT("/sleep/:date", PutSleep(app))
	protected.DELETE("/sleep/:date", DeleteSleep(app))

	protected.GET("/water", GetWater(app))
	protected.POST("/water", PostWater(app))
	protected.DELETE("/water/last", DeleteLastWater(app))
	protected.DELETE("/water/:id", DeleteWater(app))

	protected.GET("/medications", ListMedications(app))
	protected.POST("/medications", PostMedications(app))
	protected.GET("/medications/taken", GetTakenMedications(app))
	protected.DELETE("/medications/:id", DeleteMedication(app))
	protected.POST("/medications/:id/toggle", PostToggleMedication(app))

	protected.GET("/dashboard", GetDashboard(app))
	return r
}
