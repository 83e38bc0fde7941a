package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type HandlerManager struct {
	accountHandler    *AccountHandler
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	sessionHandler    *SessionHandler
	homeworkHandler   *HomeworkHandler
	submissionHandler *SubmissionHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *AuthMiddleware,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		accountHandler:    NewAccountHandler(serviceManager.Account(), logger),
		userHandler:       NewUserHandler(serviceManager.Role(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), serviceManager.Enrollment(), serviceManager.Notification(), logger),
		sessionHandler:    NewSessionHandler(serviceManager.Session(), logger),
		homeworkHandler:   NewHomeworkHandler(serviceManager.Homework(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes registers all API routes. Role guards list their admitted
// roles explicitly; an admin reaches a route only when the route names
// the admin role.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public authentication routes.
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.accountHandler.Register)
		authRoutes.POST("/recover", hm.accountHandler.RecoverPassword)
		authRoutes.POST("/reset-password", hm.accountHandler.ResetPassword)
	}

	// Everything else requires an authenticated, profiled identity.
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.Authenticate())
	{
		authed.GET("/me", hm.accountHandler.Me)

		// Course reads shared by all roles; per-object access rules
		// (assigned teacher, enrolled student) apply in the services.
		courses := authed.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:course_id", hm.courseHandler.GetCourse)
			courses.GET("/:course_id/students", hm.authMiddleware.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.GetRoster)
			courses.GET("/:course_id/sessions", hm.sessionHandler.ListSessions)
			courses.GET("/:course_id/homeworks", hm.homeworkHandler.ListHomeworks)
			courses.POST("/:course_id/notifications", hm.authMiddleware.RequireRole(models.RoleTeacher, models.RoleAdmin), hm.courseHandler.NotifyStudents)
		}

		// Administration routes.
		admin := authed.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/dashboard", hm.dashboardHandler.AdminOverview)

			admin.GET("/users", hm.userHandler.ListUsers)
			admin.PUT("/users/:user_id/role", hm.userHandler.UpdateRole)
			admin.POST("/users/role-sync/retry", hm.userHandler.RetryRoleSync)

			admin.POST("/courses", hm.courseHandler.CreateCourse)
			admin.PUT("/courses/:course_id", hm.courseHandler.UpdateCourse)
			admin.DELETE("/courses/:course_id", hm.courseHandler.DeleteCourse)
			admin.PUT("/courses/:course_id/teacher", hm.courseHandler.AssignTeacher)

			admin.POST("/courses/:course_id/students", hm.courseHandler.EnrollStudent)
			admin.DELETE("/courses/:course_id/students/:student_id", hm.courseHandler.UnenrollStudent)
		}

		// Teaching routes. Admins are listed where they manage any course.
		teacher := authed.Group("/teacher")
		{
			teacher.GET("/dashboard", hm.authMiddleware.RequireRole(models.RoleTeacher), hm.dashboardHandler.TeacherOverview)

			manage := teacher.Group("")
			manage.Use(hm.authMiddleware.RequireRole(models.RoleTeacher, models.RoleAdmin))
			{
				manage.POST("/courses/:course_id/sessions", hm.sessionHandler.CreateSession)
				manage.DELETE("/sessions/:session_id", hm.sessionHandler.DeleteSession)

				manage.POST("/courses/:course_id/homeworks", hm.homeworkHandler.CreateHomework)
				manage.DELETE("/homeworks/:homework_id", hm.homeworkHandler.DeleteHomework)

				manage.GET("/homeworks/:homework_id/submissions", hm.submissionHandler.ListByHomework)
				manage.GET("/homeworks/:homework_id/grading-stats", hm.submissionHandler.GradingStats)
				manage.GET("/homeworks/:homework_id/grades/export", hm.submissionHandler.ExportGrades)
				manage.PUT("/submissions/:submission_id/grade", hm.submissionHandler.Grade)
			}
		}

		// Student routes.
		student := authed.Group("/student")
		student.Use(hm.authMiddleware.RequireRole(models.RoleStudent))
		{
			student.GET("/dashboard", hm.dashboardHandler.StudentOverview)
			student.GET("/courses", hm.courseHandler.MyCourses)
			student.GET("/courses/:course_id/submissions", hm.submissionHandler.ListMine)
			student.POST("/homeworks/:homework_id/submissions", hm.submissionHandler.Submit)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "lms-service",
		})
	})
}
