package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rfones/scheduler/internal/profile"
	"github.com/rfones/scheduler/server/ai"
	"github.com/rfones/scheduler/server/middleware"
	"github.com/rfones/scheduler/server/service/reconcile"
	"github.com/rfones/scheduler/store"
)

// APIV1Service registers the v1 REST surface on an echo server.
type APIV1Service struct {
	Profile          *profile.Profile
	Store            *store.IntervalStore
	SchedulerService *SchedulerService
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(profile *profile.Profile, intervalStore *store.IntervalStore, completer ai.Completer, logger *slog.Logger) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   intervalStore,
		SchedulerService: &SchedulerService{
			Store:     intervalStore,
			Reconcile: reconcile.NewService(completer, logger),
			Applier:   reconcile.NewApplier(intervalStore),
			Logger:    logger,
		},
	}
}

// Register binds the routes and shared middleware.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	rateLimiter := middleware.NewRateLimiter()

	group := echoServer.Group("/api/v1")
	group.Use(echomw.CORS())
	group.Use(rateLimiter.Middleware())

	group.POST("/scheduler/reconcile", s.SchedulerService.ReconcileSchedule)
	group.GET("/scheduler/availability", s.SchedulerService.ListAvailability)
	group.POST("/scheduler/availability", s.SchedulerService.AddAvailability)
	group.DELETE("/scheduler/availability/:id", s.SchedulerService.DeleteAvailability)

	// The reconcile endpoint is mutating only; make the contract
	// explicit for other verbs instead of echo's default 405 body.
	group.Match([]string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete},
		"/scheduler/reconcile", methodNotAllowed)
}

func methodNotAllowed(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}
