package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tagocar/fms-backend/internal/middleware"
	"github.com/tagocar/fms-backend/internal/o11y"
	"github.com/tagocar/fms-backend/passenger"
	"github.com/tagocar/fms-backend/route"
	"github.com/tagocar/fms-backend/trip"
)

type Config struct {
	// Auth0Domain enables JWT validation on the /fms surface when set.
	// Acceptance tests leave it empty.
	Auth0Domain string
	Audience    string

	MetricsUsername string
	MetricsPassword string
}

type API struct {
	r  *gin.Engine
	pr *passenger.Repository
	rr *route.Repository
	tr *trip.Repository
}

func New(pr *passenger.Repository, rr *route.Repository, tr *trip.Repository, obs *o11y.Observability, cfg Config) (*API, error) {
	a := &API{
		r:  gin.New(),
		pr: pr,
		rr: rr,
		tr: tr,
	}

	a.r.Use(gin.Recovery())
	a.r.Use(middleware.Tracing("fms-server"))
	a.r.Use(middleware.Logging(obs.Logger))
	a.r.Use(middleware.Metrics(obs.Registry))

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	metrics := gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	if cfg.MetricsUsername != "" {
		a.r.GET("/metrics", gin.BasicAuth(gin.Accounts{cfg.MetricsUsername: cfg.MetricsPassword}), metrics)
	} else {
		a.r.GET("/metrics", metrics)
	}

	fms := a.r.Group("/fms")
	if cfg.Auth0Domain != "" {
		jwt, err := middleware.JWT(cfg.Auth0Domain, cfg.Audience)
		if err != nil {
			return nil, err
		}
		fms.Use(jwt)
	}
	a.Mount(fms)

	return a, nil
}

// Mount registers the resource handlers on a router group. Split out from
// New so tests can mount them behind their own middleware.
func (a *API) Mount(g *gin.RouterGroup) {
	g.POST("/passengers", a.createPassengerHandler)
	g.GET("/passengers/:id", a.getPassengerHandler)

	g.POST("/routes", a.createRouteHandler)
	g.POST("/routes/passenger-initiated", a.createPassengerRouteHandler)
	g.GET("/routes", a.findRoutesHandler)
	g.GET("/routes/:id", a.getRouteHandler)
	g.PUT("/routes/:id", a.updateRouteHandler)
	g.DELETE("/routes/:id", a.deleteRouteHandler)
	g.PUT("/routes/:id/involve-driver", a.involveDriverHandler)

	g.POST("/trips", a.createTripHandler)
	g.GET("/trips", a.findTripsHandler)
	g.GET("/trips/:id", a.getTripHandler)
	g.PUT("/trips/:id/approve", a.approveTripHandler)
}

// NewForTest builds an API with handlers only, no auth or o11y middleware.
func NewForTest(pr *passenger.Repository, rr *route.Repository, tr *trip.Repository) *API {
	a := &API{r: gin.New(), pr: pr, rr: rr, tr: tr}
	a.r.Use(gin.Recovery())
	a.Mount(a.r.Group("/fms"))
	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}
