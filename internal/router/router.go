package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/lms-api/internal/handler"
	"github.com/noah-isme/lms-api/internal/middleware"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
	"github.com/noah-isme/lms-api/pkg/config"
)

// Dependencies bundles everything Register needs to wire the route tree.
type Dependencies struct {
	Config *config.Config
	Auth   *service.AuthService

	Users                *handler.UserHandler
	Dashboard            *handler.DashboardHandler
	Courses              *handler.CourseHandler
	Enrollments          *handler.EnrollmentHandler
	Assignments          *handler.AssignmentHandler
	Submissions          *handler.SubmissionHandler
	Grades               *handler.GradesHandler
	InstructorCourses    *handler.InstructorCourseHandler
	InstructorAssignment *handler.InstructorAssignmentHandler
	InstructorGrading    *handler.InstructorGradingHandler
	OperatorReports      *handler.OperatorReportHandler
	OperatorCatalog      *handler.OperatorCatalogHandler
	Metrics              *handler.MetricsHandler
}

// Register mounts all routes onto the engine.
func Register(r *gin.Engine, deps Dependencies) {
	r.GET("/health", deps.Metrics.Health)
	r.GET("/ready", deps.Metrics.Ready)
	r.GET("/metrics", deps.Metrics.Prometheus)

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix)

	// Onboarding only needs a verified token: the profile row does not
	// exist yet.
	onboarding := api.Group("")
	onboarding.Use(middleware.TokenOnly(deps.Auth, deps.Config.Auth))
	onboarding.POST("/onboarding", deps.Users.Onboard)

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Auth, deps.Config.Auth))

	authed.GET("/me", deps.Users.Me)

	learner := authed.Group("")
	learner.Use(middleware.RequireRoles(models.RoleLearner))
	learner.GET("/dashboard/overview", deps.Dashboard.LearnerOverview)
	learner.POST("/enrollments", deps.Enrollments.Enroll)
	learner.PATCH("/enrollments/:enrollmentId", deps.Enrollments.Cancel)
	learner.POST("/assignments/:assignmentId/submissions", deps.Submissions.Submit)
	learner.GET("/grades/overview", deps.Grades.Overview)
	learner.GET("/courses/:courseId/grades", deps.Grades.CourseGrades)
	learner.GET("/courses/:courseId/assignments/:assignmentId", deps.Assignments.LearnerDetail)

	// Catalog browsing is open to any authenticated role.
	authed.GET("/courses", deps.Courses.Browse)
	authed.GET("/courses/:courseId", deps.Courses.Detail)
	authed.GET("/categories", deps.Courses.Categories)
	authed.GET("/difficulty-levels", deps.Courses.DifficultyLevels)

	instructor := authed.Group("/instructor")
	instructor.Use(middleware.RequireRoles(models.RoleInstructor))
	instructor.GET("/dashboard", deps.Dashboard.InstructorDashboard)
	instructor.GET("/courses", deps.InstructorCourses.List)
	instructor.POST("/courses", deps.InstructorCourses.Create)
	instructor.PATCH("/courses/:courseId", deps.InstructorCourses.Update)
	instructor.PATCH("/courses/:courseId/status", deps.InstructorCourses.ChangeStatus)
	instructor.GET("/courses/:courseId/assignments", deps.InstructorAssignment.List)
	instructor.POST("/courses/:courseId/assignments", deps.InstructorAssignment.Create)
	instructor.PATCH("/courses/:courseId/assignments/:assignmentId", deps.InstructorAssignment.Update)
	instructor.PATCH("/courses/:courseId/assignments/:assignmentId/status", deps.InstructorAssignment.ChangeStatus)
	instructor.GET("/assignments/:assignmentId/submissions/:submissionId", deps.InstructorGrading.SubmissionDetail)
	instructor.PATCH("/assignments/:assignmentId/submissions/:submissionId/grade", deps.InstructorGrading.Grade)
	instructor.GET("/courses/:courseId/grades/export", deps.InstructorGrading.ExportGradebook)

	operator := authed.Group("/operator")
	operator.Use(middleware.RequireRoles(models.RoleOperator))
	operator.GET("/reports", deps.OperatorReports.List)
	operator.GET("/reports/:reportId", deps.OperatorReports.Detail)
	operator.PATCH("/reports/:reportId", deps.OperatorReports.ChangeStatus)
	operator.POST("/reports/:reportId/actions", deps.OperatorReports.RecordAction)
	operator.GET("/categories", deps.OperatorCatalog.ListCategories)
	operator.POST("/categories", deps.OperatorCatalog.CreateCategory)
	operator.PATCH("/categories/:categoryId", deps.OperatorCatalog.UpdateCategory)
	operator.GET("/difficulty-levels", deps.OperatorCatalog.ListDifficultyLevels)
	operator.POST("/difficulty-levels", deps.OperatorCatalog.CreateDifficultyLevel)
	operator.PATCH("/difficulty-levels/:levelId", deps.OperatorCatalog.UpdateDifficultyLevel)
}
