package http

import (
	"log/slog"

	"github.com/geocoder89/roomhub/internal/auth"
	"github.com/geocoder89/roomhub/internal/config"
	"github.com/geocoder89/roomhub/internal/http/handlers"
	"github.com/geocoder89/roomhub/internal/http/middlewares"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "roomhub-api"

type Deps struct {
	Config   config.Config
	Service  handlers.ReservationService
	Users    handlers.UserReader
	JWT      *auth.Manager
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	// readiness probe; nil means always ready
	Ping func() error
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Config.AllowedOrigins))
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	if deps.Config.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(deps.Config.MaxBodyBytes))
	}

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// auth
	authLimiter := middlewares.NewRateLimiter(deps.Config.AuthRateLimit, deps.Config.AuthRateWindow())
	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWT)

	r.POST("/api/auth",
		authLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		middlewares.RequireJSON(),
		authHandler.Login,
	)

	authMW := middlewares.NewAuthMiddleware(deps.JWT, deps.Users)

	roomsHandler := handlers.NewRoomsHandler(deps.Service, deps.Prom)
	reservationsHandler := handlers.NewReservationsHandler(deps.Service, deps.Prom)
	usersHandler := handlers.NewUsersHandler(deps.Service)

	rooms := r.Group("/rooms", authMW.RequireAuth())
	rooms.GET("/", roomsHandler.ListRooms)
	rooms.GET("/all-rooms-reservations", roomsHandler.AllRoomsReservations)
	rooms.GET("/availables", roomsHandler.AvailableRooms)

	createReservation := []gin.HandlerFunc{middlewares.RequireJSON(), roomsHandler.CreateReservation}
	if deps.Config.BookingRateLimit > 0 {
		bookingLimiter := middlewares.NewRateLimiter(deps.Config.BookingRateLimit, deps.Config.BookingRateWindow())
		createReservation = append([]gin.HandlerFunc{bookingLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP)}, createReservation...)
	}
	rooms.POST("/:room_id/create-reservation", createReservation...)

	r.DELETE("/room-reservations/:id", authMW.RequireAuth(), reservationsHandler.Delete)

	r.GET("/users/my-reservations", authMW.RequireAuth(), usersHandler.MyReservations)

	return r
}
