package routes

import (
	"memory-nest-api/controllers"
	"memory-nest-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Visitor-facing forms
			public.POST("/submissions", controllers.SubmitData)
			public.POST("/topic-requests", controllers.CreateTopicRequest)
			public.POST("/newsletter/subscribe", controllers.Subscribe)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Memory Nest API is running",
				})
			})
		}

		// Admin routes (require the admin session cookie)
		admin := v1.Group("/admin")
		admin.POST("/login", controllers.AdminLogin)
		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.POST("/logout", controllers.AdminLogout)

			// Submission review
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.ListSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.PUT("/:id/questions", controllers.UpdateQuestions)
				submissions.PUT("/:id/comment", controllers.UpdateComment)
				submissions.PUT("/:id/category", controllers.UpdateCategory)
				submissions.DELETE("/:id", controllers.DeleteSubmission)
				submissions.POST("/location", controllers.ApplyLocation)
			}

			// CSV export of every question across all submissions
			protected.GET("/export/questions.csv", controllers.ExportQuestionsCSV)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Newsletter management
			protected.GET("/newsletter", controllers.ListSubscribers)
			protected.DELETE("/newsletter/:email", controllers.DeleteSubscriber)

			// Topic requests
			protected.GET("/topic-requests", controllers.ListTopicRequests)
		}
	}
}
