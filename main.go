package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock_advisor/core"
	"stock_advisor/pkg/config"
	"stock_advisor/pkg/database"
	"stock_advisor/pkg/gemini"
	"stock_advisor/pkg/marketdata"
	"stock_advisor/pkg/redis"
	"stock_advisor/pkg/telegram"
	"stock_advisor/pkg/websocket"
	"stock_advisor/servers"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetLevel(logrus.InfoLevel)
	logrus.Info("启动股票分析助手...")

	// 加载配置
	config.LoadConfig()

	// 初始化Redis
	if err := redis.InitRedis(); err != nil {
		if telegram.GlobalTelegramClient != nil {
			telegram.GlobalTelegramClient.SendServiceStatus("error", fmt.Sprintf("Redis初始化失败\n错误: %v\n服务即将停止", err))
		}
		logrus.Fatalf("Redis init fail: %v", err)
	}

	// 初始化MySQL，失败时只降级：历史记录接口不可用，分析管线照常工作
	if err := database.InitMySQL(config.GlobalConfig); err != nil {
		logrus.Errorf("MySQL初始化失败，历史记录功能不可用: %v", err)
	}

	// 初始化Telegram客户端
	if err := telegram.InitTelegram(); err != nil {
		logrus.Errorf("Telegram init fail: %v", err)
	}

	// 初始化文本生成客户端
	geminiClient := gemini.New(gemini.Config{
		APIKey:  config.GlobalConfig.GeminiAPIKey,
		BaseURL: config.GlobalConfig.GeminiBaseURL,
		Timeout: config.GlobalConfig.GeminiTimeout,
	})

	// 初始化行情数据客户端
	marketDataClient := marketdata.New(config.GlobalConfig.MarketDataBaseURL, redis.GlobalRedisClient)

	// 初始化分析管线
	analyzer := core.NewAnalyzer(marketDataClient, geminiClient, redis.GlobalRedisClient)

	// 初始化WebSocket管理器
	websocket.InitGlobalWebSocketManager()

	// 启动定时扫描
	var scheduler *core.Scheduler
	if config.GlobalConfig.ScanEnabled {
		scheduler = core.NewScheduler(analyzer)
		if err := scheduler.Start(); err != nil {
			logrus.Fatalf("定时扫描启动失败: %v", err)
		}
	}

	// 创建HTTP服务器
	server := servers.NewHTTPServer(analyzer)
	go func() {
		server.Start()
	}()

	logrus.Info("股票分析助手启动完成!")

	// 优雅关闭
	gracefulShutdown(scheduler)
}

// gracefulShutdown 优雅关闭
func gracefulShutdown(scheduler *core.Scheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("正在关闭股票分析助手...")

	// 停止定时扫描
	if scheduler != nil {
		scheduler.Stop()
	}

	// 停止HTTP服务器 (当前实现没有优雅关闭，直接退出)
	logrus.Info("HTTP服务器将随程序退出关闭")

	// 发送服务完全停止的Telegram通知
	if telegram.GlobalTelegramClient != nil {
		if err := telegram.GlobalTelegramClient.SendServiceStatus("stopped", "股票分析助手已关闭"); err != nil {
			logrus.Errorf("发送关闭完成通知失败: %v", err)
		}
	}

	logrus.Info("股票分析助手已关闭")
}
