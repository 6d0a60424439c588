package handler

import (
	"github.com/gin-gonic/gin"

	internalmiddleware "github.com/noah-isme/sparx-api/internal/middleware"
	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/internal/service"
)

// Routes groups the handlers mounted on the API router.
type Routes struct {
	APIPrefix string
	Auth      *service.AuthService
	Schedule  *ScheduleHandler
	Metrics   *MetricsHandler
}

// Register mounts ops and timetable routes on the engine.
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	r.GET("/metrics", rt.Metrics.Prometheus)

	api := r.Group(rt.APIPrefix)
	api.Use(internalmiddleware.JWT(rt.Auth))

	schedule := api.Group("/schedule")
	schedule.GET("", rt.Schedule.List)
	schedule.GET("/group/:id", rt.Schedule.ByGroup)
	schedule.GET("/teacher/:id", rt.Schedule.ByTeacher)

	admin := schedule.Group("")
	admin.Use(internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	admin.GET("/drafts", rt.Schedule.Drafts)
	admin.GET("/batches", rt.Schedule.Batches)
	admin.GET("/batches/:id", rt.Schedule.Batch)
	admin.GET("/batches/:id/export", rt.Schedule.Export)
	admin.POST("/generate", rt.Schedule.Generate)
	admin.POST("/reoptimize", rt.Schedule.Reoptimize)
	admin.POST("/publish", rt.Schedule.Publish)
	admin.DELETE("/batch/:id", rt.Schedule.Delete)
}
