package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/auth"
	"resumeforge/internal/config"
	"resumeforge/internal/resume"
	"resumeforge/internal/storage"
)

// Dependencies 汇总路由注册所需的协作者。
type Dependencies struct {
	Config      *config.Config
	Service     *resume.Service
	Users       UserStore
	AuthService *auth.AuthService
	Redis       *redis.Client
	Enqueuer    Enqueuer
	Storage     *storage.Client
	Logger      *slog.Logger
}

// RegisterRoutes 注册 /v1 下的全部路由。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	resumeHandler := NewResumeHandler(deps.Service, deps.Storage)
	sectionHandler := NewSectionHandler(deps.Service)
	exportHandler := NewExportHandler(deps.Service, deps.Enqueuer, deps.Storage, cfg.Export.LinkTTL, cfg.Export.MaxRetry)
	authHandler := NewAuthHandler(deps.Users, deps.AuthService, deps.Redis, cfg.Auth.LoginRateLimitPerHour, cfg.Auth.CookieDomain)
	wsHandler := NewWsHandler(deps.Redis, deps.AuthService, deps.Logger, cfg.API.AllowedOrigins())
	authMiddleware := middleware.AuthMiddleware(deps.AuthService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
		}

		resumeGroup := v1.Group("/resumes")
		resumeGroup.Use(authMiddleware)
		registerResumeRoutes(resumeGroup, resumeHandler, sectionHandler, exportHandler)
	}
}

func registerResumeRoutes(g *gin.RouterGroup, resumes *ResumeHandler, sections *SectionHandler, exports *ExportHandler) {
	g.POST("", resumes.CreateResume)
	g.GET("", resumes.ListResumes)
	g.GET("/:id", resumes.GetResume)
	g.PATCH("/:id", resumes.RenameResume)
	g.DELETE("/:id", resumes.DeleteResume)
	g.POST("/:id/duplicate", resumes.DuplicateResume)
	g.GET("/:id/preview", resumes.Preview)
	g.GET("/:id/preview/html", resumes.PreviewHTML)

	g.PUT("/:id/contact", sections.UpsertContact)
	g.PUT("/:id/summary", sections.UpsertSummary)

	g.POST("/:id/experiences", sections.AddExperience)
	g.PATCH("/:id/experiences/:itemId", sections.UpdateExperience)
	g.DELETE("/:id/experiences/:itemId", sections.DeleteExperience)

	g.POST("/:id/education", sections.AddEducation)
	g.PATCH("/:id/education/:itemId", sections.UpdateEducation)
	g.DELETE("/:id/education/:itemId", sections.DeleteEducation)

	g.POST("/:id/skills", sections.AddSkill)
	g.PATCH("/:id/skills/:itemId", sections.UpdateSkill)
	g.DELETE("/:id/skills/:itemId", sections.DeleteSkill)

	g.POST("/:id/projects", sections.AddProject)
	g.PATCH("/:id/projects/:itemId", sections.UpdateProject)
	g.DELETE("/:id/projects/:itemId", sections.DeleteProject)

	g.POST("/:id/exports", exports.RequestExport)
	g.GET("/:id/exports/:exportId", exports.GetExport)
}
