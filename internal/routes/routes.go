package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/gateway"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/hub"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/mirror"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/barber-booking/internal/usecase/client"
)

// Deps are the process-wide singletons the routes are built on.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Hub      *hub.Hub
	Mirror   *mirror.Store
	Gateway  *gateway.Gateway
	Notifier *notification.Service
	Media    *media.Presigner
	Audit    *audit.Dispatcher
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Clock    timezone.Clock

	// SSEKeepAlive defaults to 25s.
	SSEKeepAlive time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RequestLogger(d.Log))

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		d.Gateway,
		d.Gateway,
		d.Mirror,
		d.Notifier,
		d.Audit,
		d.Metrics,
		d.Log,
		d.Clock,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		d.Gateway,
		d.Mirror,
		d.Notifier,
		d.Audit,
		d.Metrics,
		d.Log,
	)

	listAppointmentsUC := ucAppointment.NewListClientAppointments(d.Gateway)
	availabilityUC := ucAppointment.NewGetAvailability(d.Gateway, d.Mirror, d.Clock)

	// ======================================================
	// USE CASES — CLIENTS
	// ======================================================
	loginUC := ucClient.NewLogin(d.Gateway, d.Mirror, d.Audit, d.Log)
	registerUC := ucClient.NewRegister(d.Gateway, d.Mirror, d.Audit, d.Log, d.Clock)
	sessionUC := ucClient.NewSession(d.Mirror, d.Log)
	pointsUC := ucClient.NewUpdatePoints(d.Gateway, d.Mirror, d.Audit, d.Log)
	rankingUC := ucClient.NewGetRanking(d.Gateway)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(loginUC, registerUC, sessionUC, cfg)
	clientHandler := handlers.NewClientHandler(pointsUC, rankingUC)
	catalogHandler := handlers.NewCatalogHandler(d.Gateway, d.Media)
	shopHandler := handlers.NewShopHandler(availabilityUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsUC,
		availabilityUC,
	)
	notificationHandler := handlers.NewNotificationHandler(d.Notifier)
	eventsHandler := handlers.NewEventsHandler(d.Hub, d.SSEKeepAlive)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", catalogHandler.Services)
		api.GET("/professionals", catalogHandler.Professionals)
		api.GET("/config", catalogHandler.Config)
		api.GET("/shop/status", shopHandler.Status)
		api.GET("/dates", shopHandler.Dates)
		api.GET("/ranking", clientHandler.Ranking)
		api.GET("/events", eventsHandler.Stream)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CLIENT
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("", authHandler.Me)
			secured.POST("/logout", authHandler.Logout)
			secured.PATCH("/points", clientHandler.UpdatePoints)

			secured.GET("/availability", appointmentHandler.Availability)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/notifications", notificationHandler.Status)
			secured.POST("/notifications/permission", notificationHandler.RequestPermission)
			secured.DELETE("/notifications", notificationHandler.Disable)
		}
	}
}
