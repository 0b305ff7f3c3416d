package core

import (
	"context"
	"time"

	"stock_advisor/pkg/config"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler 定时扫描自选股清单，按条跑完整分析管线
type Scheduler struct {
	analyzer *Analyzer
	cron     *cron.Cron
}

// NewScheduler 创建定时扫描器
func NewScheduler(analyzer *Analyzer) *Scheduler {
	return &Scheduler{
		analyzer: analyzer,
		cron:     cron.New(),
	}
}

// Start 按配置的cron表达式启动扫描任务
func (s *Scheduler) Start() error {
	spec := config.GlobalConfig.ScanCron
	if _, err := s.cron.AddFunc(spec, s.scanWatchlist); err != nil {
		return err
	}
	s.cron.Start()
	logrus.Infof("定时扫描已启动: %s", spec)
	return nil
}

// Stop 停止扫描，等待在跑的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("定时扫描已停止")
}

// scanWatchlist 逐个分析自选股，单只失败不中断整轮扫描
func (s *Scheduler) scanWatchlist() {
	watchlist, err := config.LoadWatchlist(config.GlobalConfig.WatchlistPath)
	if err != nil {
		logrus.Errorf("加载自选股清单失败: %v", err)
		return
	}

	logrus.Infof("开始扫描自选股: %d只", len(watchlist.Symbols))
	for _, symbol := range watchlist.Symbols {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		outcome, err := s.analyzer.RunAndRecord(ctx, symbol, watchlist.Model)
		cancel()
		if err != nil {
			logrus.Errorf("扫描 %s 失败: %v", symbol, err)
			continue
		}
		logrus.Infof("扫描 %s 完成: short=%s long=%s",
			symbol, outcome.Result.ShortTerm.Signal, outcome.Result.LongTerm.Signal)
	}
	logrus.Info("自选股扫描完成")
}
