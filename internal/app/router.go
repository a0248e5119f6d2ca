package app

import (
	"sdo_backend/docs"
	"sdo_backend/internal/config"
	"sdo_backend/internal/middleware"
	"sdo_backend/internal/model"
	"sdo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. any signed-in user
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
	}

	// 3. admins
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		a.registerAdminRoutes(adminGroup, c)
	}
}

func (a *App) registerUserRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/dashboard", c.dashboard.Dashboard)
	r.GET("/counts", c.dashboard.Counts)
	r.GET("/counts/by-status", c.dashboard.CountByStatus)

	taskCases := r.Group("/taskcases/:id")
	{
		taskCases.GET("/tasks", c.dashboard.TaskList)
		taskCases.GET("/tasks/:taskId", c.dashboard.TaskDetail)
		taskCases.POST("/tasks/:taskId/answers", c.lifecycle.SubmitAnswer)
		taskCases.POST("/tasks/:taskId/variants", c.lifecycle.GradeTest)
		taskCases.POST("/complete", c.assignment.CompleteTaskCase)
	}
}

func (a *App) registerAdminRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/review-pending", c.dashboard.ReviewPending)

	// users
	r.GET("/users", c.dashboard.UsersOverview)
	r.POST("/users", c.user.CreateUser)
	r.GET("/users/search", c.user.SearchUsers)
	users := r.Group("/users/:userId")
	{
		users.GET("", c.user.GetUser)
		users.PUT("", c.user.UpdateUser)
		users.DELETE("", c.user.DeleteUser)
		users.GET("/counts", c.dashboard.UserCounts)
		users.GET("/check", c.dashboard.CheckQueue)
		users.GET("/taskcases", c.dashboard.UserTaskCases)
		users.PUT("/taskcases", c.assignment.AssignTaskCases)
		users.GET("/taskcases/:id/tests", c.dashboard.TestResults)
		users.POST("/taskcases/:id/complete", c.assignment.ForceCompleteTaskCase)
		users.GET("/notes", c.user.ListNotes)
		users.POST("/notes", c.user.CreateNote)
		users.PUT("/notes/:noteId", c.user.UpdateNote)
		users.DELETE("/notes/:noteId", c.user.DeleteNote)
	}

	// task cases
	r.GET("/taskcases", c.taskCase.ListTaskCases)
	r.POST("/taskcases", c.taskCase.CreateTaskCase)
	taskCases := r.Group("/taskcases/:id")
	{
		taskCases.GET("", c.taskCase.GetTaskCase)
		taskCases.PUT("", c.taskCase.UpdateTaskCase)
		taskCases.DELETE("", c.taskCase.DeleteTaskCase)
		taskCases.GET("/candidates", c.assignment.CandidateTasks)
		taskCases.PUT("/tasks", c.assignment.AssignTasks)
		taskCases.PUT("/users", c.assignment.AssignUsers)
	}

	// tasks
	r.GET("/tasks", c.task.ListTasks)
	r.POST("/tasks", c.task.CreateTask)
	tasks := r.Group("/tasks/:taskId")
	{
		tasks.GET("", c.task.GetTask)
		tasks.PUT("", c.task.UpdateTask)
		tasks.DELETE("", c.task.DeleteTask)
		tasks.GET("/variants", c.task.ListVariants)
		tasks.POST("/variants", c.task.CreateVariant)
		tasks.PUT("/variants/:variantId", c.task.UpdateVariant)
		tasks.DELETE("/variants/:variantId", c.task.DeleteVariant)
	}

	// review workflow
	r.POST("/answers/:answerId/reviews", c.lifecycle.AddReview)
	r.GET("/relations/:relationId/answers", c.dashboard.RelationAnswers)
	r.POST("/relations/:relationId/accept", c.lifecycle.AcceptAnswer)
}
