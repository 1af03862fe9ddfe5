package api

import (
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Profiles() storage.ProfileRepository
	Journal() *service.Journal
	// Tokens is nil when sessions are issued by another service.
	Tokens() service.TokenIssuer
	Now() time.Time
}

// Application is the App used by the server binary.
type Application struct {
	Log    internal.Logger
	Store  storage.Store
	Diary  *service.Journal
	Issuer service.TokenIssuer
	Clock  func() time.Time
}

func (a *Application) Logger() internal.Logger             { return a.Log }
func (a *Application) Profiles() storage.ProfileRepository { return a.Store }
func (a *Application) Journal() *service.Journal           { return a.Diary }
func (a *Application) Tokens() service.TokenIssuer         { return a.Issuer }

func (a *Application) Now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

var _ App = (*Application)(nil)
