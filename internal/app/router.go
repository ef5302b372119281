package app

import (
	"time"

	"quizbank_backend/internal/middleware"
	"quizbank_backend/internal/model"
	"quizbank_backend/pkg/monitoring"
	"quizbank_backend/pkg/security"
	"quizbank_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "quizbank_backend/docs"
)

func (a *App) setupRouter() {
	gin.SetMode(a.config.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(security.CORS(a.config.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(monitoring.MetricsMiddleware())
	if a.config.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}
	if a.config.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.config.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		r.Use(security.RateLimiter(a.config.RateLimit.MaxRequests, window))
	}

	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded files are served statically only with local storage.
	if a.config.Storage.Type == "local" || a.config.Storage.Type == "" {
		r.Static("/uploads", a.config.Storage.LocalPath)
	}

	api := r.Group("/api")
	api.GET("/health", a.healthCtl.Check)

	auth := api.Group("/auth")
	{
		auth.POST("/register", a.authCtl.Register)
		auth.POST("/login", a.authCtl.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(a.config))
	{
		authed.GET("/auth/profile", a.authCtl.Profile)
		authed.PUT("/auth/password", a.authCtl.ChangePassword)

		authed.GET("/activity", a.activityCtl.Feed)
		authed.GET("/activity/unread-count", a.activityCtl.UnreadCount)
		authed.POST("/activity/read-all", a.activityCtl.MarkAllRead)
		authed.POST("/activity/:id/read", a.activityCtl.MarkRead)

		authed.GET("/dashboard/teacher", a.dashboardCtl.Teacher)

		authed.GET("/departments", a.departmentCtl.List)
		authed.GET("/departments/:id", a.departmentCtl.Get)
		authed.GET("/departments/:id/subjects", a.departmentCtl.Subjects)
		authed.GET("/subjects", a.subjectCtl.List)
		authed.GET("/subjects/:id", a.subjectCtl.Get)
		authed.GET("/question-types", a.questionnaireCtl.QuestionTypes)

		questionnaires := authed.Group("/questionnaires")
		questionnaires.Use(middleware.RoleMiddleware(model.RoleTeacher))
		{
			questionnaires.POST("", a.questionnaireCtl.Upload)
			questionnaires.GET("", a.questionnaireCtl.List)
			questionnaires.GET("/browse", a.questionnaireCtl.Browse)
			questionnaires.GET("/:id", a.questionnaireCtl.Get)
			questionnaires.PUT("/:id", a.questionnaireCtl.Update)
			questionnaires.DELETE("/:id", a.questionnaireCtl.Delete)
			questionnaires.GET("/:id/download", a.questionnaireCtl.Download)
			questionnaires.GET("/:id/questions", a.questionnaireCtl.Questions)
			questionnaires.POST("/:id/questions/approve-all", a.questionnaireCtl.ApproveAll)
			questionnaires.PUT("/:id/questions/:questionId", a.questionnaireCtl.UpdateQuestion)
			questionnaires.DELETE("/:id/questions/:questionId", a.questionnaireCtl.DeleteQuestion)
			questionnaires.POST("/:id/retry-extraction", a.questionnaireCtl.RetryExtraction)
		}

		admin := authed.Group("")
		admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
		{
			admin.GET("/dashboard/admin", a.dashboardCtl.Admin)

			admin.POST("/departments", a.departmentCtl.Create)
			admin.PUT("/departments/:id", a.departmentCtl.Update)
			admin.DELETE("/departments/:id", a.departmentCtl.Delete)

			admin.POST("/subjects", a.subjectCtl.Create)
			admin.PUT("/subjects/:id", a.subjectCtl.Update)
			admin.DELETE("/subjects/:id", a.subjectCtl.Delete)

			admin.POST("/teachers", a.teacherCtl.Create)
			admin.GET("/teachers", a.teacherCtl.List)
			admin.GET("/teachers/:id", a.teacherCtl.Get)
			admin.PUT("/teachers/:id", a.teacherCtl.Update)
			admin.DELETE("/teachers/:id", a.teacherCtl.Delete)
		}
	}

	a.router = r
}
