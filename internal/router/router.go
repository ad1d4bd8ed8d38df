package router

import (
	"Lee_Moderation/internal/handler"
	"Lee_Moderation/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRouter(
	submission *handler.SubmissionHandler,
	queue *handler.QueueHandler,
	report *handler.ReportHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.LoggerMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 举报入口额外加IP粗限流，防举报轰炸
	reportLimiter := middleware.NewIPRateLimiter(1, 5)

	// 投稿与举报接口
	contentGroup := r.Group("/api/content")
	contentGroup.Use(middleware.AuthMiddleware())
	{
		contentGroup.POST("/post", submission.SubmitPost)
		contentGroup.POST("/comment", submission.SubmitComment)
		contentGroup.POST("/report", middleware.RateLimitMiddleware(reportLimiter), report.FileReport)
	}

	// 作者申诉接口
	queueGroup := r.Group("/api/queue")
	queueGroup.Use(middleware.AuthMiddleware())
	{
		queueGroup.POST("/:id/appeal", queue.SubmitAppeal)
	}

	// 审核端接口
	modGroup := r.Group("/api/mod")
	modGroup.Use(middleware.AuthMiddleware(), middleware.RequireStaff())
	{
		modGroup.POST("/queue/:id/review", queue.Review)
		modGroup.POST("/queue/:id/appeal", queue.ResolveAppeal)
		modGroup.GET("/queue/pending", queue.Pending)
		modGroup.GET("/queue/appealed", queue.Appealed)
		modGroup.GET("/queue/history", queue.History)
		modGroup.GET("/stats", queue.Stats)
		modGroup.GET("/reports/pending", report.Pending)
		modGroup.POST("/report/:id/resolve", report.Resolve)
	}

	return r
}
