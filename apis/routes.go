package apis

import (
	"stock_advisor/controllers"
	"stock_advisor/core"
	"stock_advisor/pkg/middleware"
	"stock_advisor/pkg/websocket"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, analyzer *core.Analyzer) {
	// 创建控制器实例
	analysisController := controllers.NewAnalysisController(analyzer)
	indicatorController := controllers.NewIndicatorController(analyzer)
	watchlistController := controllers.NewWatchlistController()
	authController := controllers.NewAuthController()

	// 初始化WebSocket管理器
	wsManager := websocket.GetGlobalWebSocketManager()

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Stock Advisor API is running",
		})
	})

	// 添加跨域与认证中间件
	r.Use(middleware.Cors())
	r.Use(middleware.AuthMiddleware())

	// WebSocket路由
	if wsManager != nil {
		r.GET("/ws", wsManager.HandleWebSocket)
	}

	// 认证路由
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authController.Login) // 用户登录
	}

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 用户信息路由
		user := v1.Group("/user")
		{
			user.GET("/profile", authController.GetProfile) // 获取用户信息
		}

		// 分析路由
		analysisGroup := v1.Group("/analysis")
		{
			analysisGroup.POST("", analysisController.RunAnalysis)        // 触发单只股票分析
			analysisGroup.GET("", analysisController.GetAnalysisRecords)  // 分页查询历史分析
			analysisGroup.GET("/:id", analysisController.GetAnalysisByID) // 按ID查询分析记录
		}

		// 指标路由
		v1.GET("/indicators", indicatorController.GetIndicators) // 只计算技术指标

		// 自选股路由
		v1.GET("/watchlist", watchlistController.GetWatchlist) // 自选股及最新分析
	}
}
