package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/mabarril/api-desbravador/audit"
	"github.com/mabarril/api-desbravador/config"
	"github.com/mabarril/api-desbravador/finance"
	"github.com/mabarril/api-desbravador/handlers"
	"github.com/mabarril/api-desbravador/middlewares"
	"github.com/mabarril/api-desbravador/models"
)

// Register wires all HTTP routes. Everything below /auth and the probes is
// behind JWT auth; finance mutations additionally require the treasurer or
// admin role.
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	svc := finance.NewService(db)
	auditLog := audit.New(db)

	auth := handlers.NewAuthHandler(db, cfg.JWTSecret)
	members := handlers.NewMemberHandler(db, auditLog)
	registrations := handlers.NewRegistrationHandler(db, auditLog)
	events := handlers.NewEventHandler(db, auditLog)
	payments := handlers.NewPaymentHandler(db, svc, auditLog)
	cashbook := handlers.NewCashBookHandler(db, svc, auditLog)
	fees := handlers.NewMonthlyFeeHandler(db, svc, auditLog)
	attendance := handlers.NewAttendanceHandler(db, svc, auditLog)

	// Public
	e.POST("/auth/login", auth.Login)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	staff := e.Group("", authMW, middlewares.RequireRole(models.RoleStaff, models.RoleTreasurer, models.RoleAdmin))
	treasury := e.Group("", authMW, middlewares.RequireRole(models.RoleTreasurer, models.RoleAdmin))
	admin := e.Group("", authMW, middlewares.RequireRole(models.RoleAdmin))

	// Members
	staff.GET("/members", members.List)
	staff.GET("/members/:id", members.Get)
	staff.POST("/members", members.Create)
	admin.DELETE("/members/:id", members.Delete)

	// Registrations
	staff.GET("/registrations", registrations.List)
	staff.POST("/registrations", registrations.Create)
	staff.PATCH("/registrations/:id", registrations.Update)

	// Events and participation
	staff.GET("/events", events.List)
	staff.POST("/events", events.Create)
	staff.POST("/events/:id/participants", events.AddParticipant)
	staff.PATCH("/events/:id/participants/:memberId", events.UpdateParticipant)

	// Attendance
	staff.GET("/attendance", attendance.List)
	staff.POST("/attendance", attendance.Create)
	staff.POST("/attendance/bulk", attendance.Bulk)
	staff.GET("/attendance/members/:id", attendance.MemberStatistics)

	// Payments
	treasury.GET("/payments", payments.List)
	treasury.GET("/payments/statistics", payments.Statistics)
	treasury.GET("/payments/:id", payments.Get)
	treasury.POST("/payments", payments.Create)
	treasury.PATCH("/payments/:id", payments.Update)
	treasury.DELETE("/payments/:id", payments.Delete)

	// Cash book
	treasury.GET("/cashbook", cashbook.List)
	treasury.GET("/cashbook/summary", cashbook.Summary)
	treasury.GET("/cashbook/:id", cashbook.Get)
	treasury.POST("/cashbook", cashbook.Create)
	treasury.PATCH("/cashbook/:id", cashbook.Update)
	treasury.DELETE("/cashbook/:id", cashbook.Delete)

	// Monthly fees
	treasury.GET("/monthly-fees", fees.List)
	treasury.GET("/monthly-fees/statistics", fees.Statistics)
	treasury.GET("/monthly-fees/:id", fees.Get)
	treasury.POST("/monthly-fees", fees.Create)
	treasury.POST("/monthly-fees/generate", fees.Generate)
	treasury.PATCH("/monthly-fees/:id", fees.Update)
	treasury.DELETE("/monthly-fees/:id", fees.Delete)
}
