package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 在 /v1 下注册业务路由。
func RegisterRoutes(router *gin.Engine, svc Services) {
	pdfHandler := NewPDFHandler(svc.Exporter, svc.Renderer)
	resumeHandler := NewResumeHandler(svc.Store, svc.Exporter, svc.Renderer, svc.Storage)
	aiHandler := NewAIHandler(svc.AI, svc.Extractor, svc.MaxUploadBytes)

	v1 := router.Group("/v1")
	{
		v1.POST("/generate-pdf", pdfHandler.GeneratePDF)
		v1.POST("/preview", pdfHandler.Preview)

		resumeGroup := v1.Group("/resume/:email")
		{
			resumeGroup.GET("", resumeHandler.GetResume)
			resumeGroup.POST("", resumeHandler.SaveResume)
			resumeGroup.POST("/export", resumeHandler.ExportResume)
			resumeGroup.GET("/exports", resumeHandler.ListExports)
			resumeGroup.GET("/exports/link", resumeHandler.GetExportLink)
		}

		aiGroup := v1.Group("")
		aiGroup.Use(svc.Limiter.Middleware())
		{
			aiGroup.POST("/parse-resume", aiHandler.ParseResume)
			aiGroup.POST("/rewrite-resume-ai", aiHandler.RewriteResume)
			aiGroup.POST("/rewrite-section-ai", aiHandler.RewriteSection)
			aiGroup.POST("/generate-cover-letter-ai", aiHandler.CoverLetter)
		}
	}
}
