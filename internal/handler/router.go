package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/middleware"
	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/pkg/authz"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth          *AuthHandler
	Calendar      *CalendarConfigHandler
	Reports       *MonthlyReportHandler
	Registrations *RegistrationHandler
	WorkPlans     *WorkPlanHandler
	Notifications *NotificationHandler
	Metrics       *MetricsHandler
}

// RouterDeps carries the cross-cutting collaborators of the routes.
type RouterDeps struct {
	Tokens      middleware.TokenValidator
	Permissions middleware.PermissionChecker
	Audit       middleware.AuditWriter
	Logger      *zap.Logger
}

// RegisterRoutes mounts the public health endpoints on root and the API on prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, deps RouterDeps) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.Tokens), middleware.WithResponseMeta())
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)

	decide := func(resource string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Permissions, resource, authz.ActionDecide)
	}
	scholarOnly := middleware.RequireRoles(models.RoleScholar)

	calendar := secured.Group("/calendar-config")
	writeCalendar := middleware.RequirePermission(deps.Permissions, authz.ResourceCalendarConfig, authz.ActionWrite)
	calendar.GET("", h.Calendar.Get)
	calendar.GET("/deadline", h.Calendar.Deadline)
	calendar.POST("", writeCalendar, middleware.Audit(deps.Audit, authz.ResourceCalendarConfig, models.AuditActionCreate, deps.Logger), h.Calendar.Create)
	calendar.PUT("", writeCalendar, middleware.Audit(deps.Audit, authz.ResourceCalendarConfig, models.AuditActionUpdate, deps.Logger), h.Calendar.Update)

	reports := secured.Group("/monthly-reports")
	decideReports := decide(authz.ResourceMonthlyReports)
	reports.POST("", scholarOnly, h.Reports.Create)
	reports.GET("", h.Reports.List)
	reports.GET("/export", h.Reports.Export)
	reports.GET("/scholar/:scholarId", h.Reports.ListByScholar)
	reports.GET("/:id", h.Reports.Get)
	reports.DELETE("/:id", h.Reports.Remove)
	reports.PATCH("/:id/submit", h.Reports.Submit)
	reports.PATCH("/:id/begin-validation", decideReports, h.Reports.BeginValidation)
	reports.PATCH("/:id/approve", decideReports, h.Reports.Approve)
	reports.PATCH("/:id/reject", decideReports, h.Reports.Reject)
	reports.PATCH("/:id/resubmit", h.Reports.Resubmit)
	reports.POST("/:id/document", h.Reports.AttachDocument)

	registrations := secured.Group("/registrations")
	decideRegistrations := decide(authz.ResourceRegistrations)
	registrations.POST("", h.Registrations.Create)
	registrations.GET("", h.Registrations.List)
	registrations.GET("/:id", h.Registrations.Get)
	registrations.PATCH("/:id/submit", h.Registrations.Submit)
	registrations.PATCH("/:id/begin-validation", decideRegistrations, h.Registrations.BeginValidation)
	registrations.PATCH("/:id/approve", decideRegistrations, h.Registrations.Approve)
	registrations.PATCH("/:id/reject", decideRegistrations, h.Registrations.Reject)
	registrations.PATCH("/:id/resubmit", h.Registrations.Resubmit)

	plans := secured.Group("/work-plans")
	decidePlans := decide(authz.ResourceWorkPlans)
	plans.POST("", scholarOnly, h.WorkPlans.Create)
	plans.GET("", h.WorkPlans.List)
	plans.GET("/due-schedules", scholarOnly, h.WorkPlans.DueSchedules)
	plans.GET("/:id", h.WorkPlans.Get)
	plans.PATCH("/:id/submit", h.WorkPlans.Submit)
	plans.PATCH("/:id/begin-validation", decidePlans, h.WorkPlans.BeginValidation)
	plans.PATCH("/:id/approve", decidePlans, h.WorkPlans.Approve)
	plans.PATCH("/:id/reject", decidePlans, h.WorkPlans.Reject)
	plans.PATCH("/:id/inactivate", decidePlans, h.WorkPlans.Inactivate)
	plans.PATCH("/:id/resubmit", h.WorkPlans.Resubmit)
	plans.POST("/:id/schedules", h.WorkPlans.AddSchedule)
	plans.PUT("/:id/schedules/:scheduleId", h.WorkPlans.UpdateSchedule)
	plans.DELETE("/:id/schedules/:scheduleId", h.WorkPlans.DeleteSchedule)

	notifications := secured.Group("/notifications")
	notifications.GET("", h.Notifications.List)
	notifications.PATCH("/:id/read", h.Notifications.MarkRead)
}
