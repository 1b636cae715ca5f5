package router

import (
	"github.com/gin-gonic/gin"

	"github.com/campus/backend/internal/interfaces/http/handler"
)

// StudentRoutes mounts the student directory and enrollment endpoints
// served by the student service.
func StudentRoutes(students *handler.StudentHandler, enrollments *handler.EnrollmentHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		group := rg.Group("/students")
		group.POST("", students.Create)
		group.GET("", students.List)
		group.GET("/:id", students.Get)
		group.PUT("/:id", students.Update)
		group.DELETE("/:id", students.Delete)

		group.POST("/:id/enrollments", enrollments.Enroll)
		group.GET("/:id/enrollments", enrollments.List)
		group.GET("/:id/enrollments/:course_id", enrollments.Get)
	})
}

// CourseRoutes mounts the course catalog endpoints served by the course
// service.
func CourseRoutes(courses *handler.CourseHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		group := rg.Group("/courses")
		group.POST("", courses.Create)
		group.GET("", courses.List)
		group.GET("/:id", courses.Get)
		group.PUT("/:id", courses.Update)
		group.DELETE("/:id", courses.Delete)
	})
}

// SystemRoutes mounts health and info endpoints on the engine root,
// outside the versioned API prefix.
func SystemRoutes(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Health)
	engine.GET("/liveness", system.Liveness)
	engine.GET("/system/info", system.Info)
}
