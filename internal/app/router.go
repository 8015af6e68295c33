package app

import (
	"codestep_backend/docs"
	"codestep_backend/internal/config"
	"codestep_backend/internal/middleware"
	"codestep_backend/internal/model"

	"codestep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:courseId", c.course.GetCourse)
		public.GET("/courses/:courseId/chapters/:chapterId/steps/:stepId/nav", c.course.GetStepNavigation)
		public.GET("/catalog/overview", c.course.GetOverview)

		// 步骤内容与路径解析
		public.GET("/content/:language/:courseId/:chapterId/:stepId", c.content.GetStepContent)
		public.GET("/paths/resolve", c.content.ResolvePath)
		public.GET("/paths/validate/:courseId", c.content.ValidateCourse)

		// 搜索：可选认证，登录用户会记录搜索历史
		search := public.Group("/search")
		search.Use(middleware.TryAuthMiddleware(cfg))
		{
			search.GET("", c.search.Search)
			search.GET("/suggestions", c.search.GetSuggestions)
			search.GET("/hot", c.search.GetHotSearches)
			search.GET("/trending", c.search.GetTrending)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 学习状态
	learning := rg.Group("/learning")
	{
		learning.DELETE("", c.learning.ClearAll)
		learning.GET("/courses", c.learning.ListEnrolled)
		learning.GET("/courses/:courseId", c.learning.GetStatus)
		learning.POST("/courses/:courseId/enroll", c.learning.Enroll)
		learning.DELETE("/courses/:courseId/enroll", c.learning.Unenroll)
		learning.PUT("/courses/:courseId/progress", c.learning.UpdateProgress)
		learning.POST("/courses/:courseId/chapters/:chapterId/complete", c.learning.CompleteChapter)
		learning.GET("/courses/:courseId/chapters/:chapterId/steps/:stepId", c.learning.GetStepState)
		learning.GET("/recent", c.learning.ListRecent)
		learning.GET("/history", c.learning.ListStudyHistory)
		learning.POST("/history", c.learning.AddStudyHistory)
		learning.GET("/stats", c.learning.GetStats)
	}

	// 收藏
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", c.favorite.ListFavorites)
		favorites.POST("", c.favorite.AddFavorite)
		favorites.DELETE("", c.favorite.ClearFavorites)
		favorites.POST("/toggle", c.favorite.ToggleFavorite)
		favorites.GET("/stats", c.favorite.GetStats)
		favorites.GET("/:id", c.favorite.CheckFavorite)
		favorites.DELETE("/:id", c.favorite.RemoveFavorite)
		favorites.POST("/:id/access", c.favorite.TouchFavorite)
	}

	// 搜索历史
	rg.GET("/search/history", c.search.ListHistory)
	rg.DELETE("/search/history", c.search.ClearHistory)
	rg.DELETE("/search/history/:id", c.search.RemoveHistory)

	// 答题与错题本
	quiz := rg.Group("/quiz")
	{
		quiz.POST("/:courseId/:chapterId/:stepId", c.quiz.SubmitAnswer)
		quiz.GET("/wrong", c.quiz.ListWrongQuestions)
		quiz.GET("/wrong/stats", c.quiz.GetStats)
		quiz.DELETE("/wrong", c.quiz.ClearWrongQuestions)
		quiz.DELETE("/wrong/:courseId/:chapterId/:stepId", c.quiz.RemoveWrongQuestion)
	}

	// 章节学习导航
	nav := rg.Group("/navigation")
	{
		nav.GET("", c.navigation.GetState)
		nav.DELETE("", c.navigation.Reset)
		nav.PUT("/catalog", c.navigation.SetCatalogRoute)
		nav.POST("/catalog", c.navigation.BackToCatalog)
		nav.POST("/enter", c.navigation.EnterChapter)
		nav.POST("/back", c.navigation.Back)
		nav.POST("/complete", c.navigation.CompleteChapter)
		nav.GET("/should-cleanup", c.navigation.ShouldCleanup)
	}

	// 旧版本地数据迁移
	rg.POST("/migration/import", c.migration.ImportLegacy)
	rg.GET("/migration/status", c.migration.GetStatus)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/paths/preload", c.content.PreloadPaths)
		admin.DELETE("/paths/cache", c.content.ClearPathCache)
	}
}
