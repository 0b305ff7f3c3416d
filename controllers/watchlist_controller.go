package controllers

import (
	"net/http"

	"stock_advisor/pkg/config"
	"stock_advisor/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WatchlistController struct{}

func NewWatchlistController() *WatchlistController {
	return &WatchlistController{}
}

// WatchlistEntry 自选股条目，带上最近一次缓存中的分析结果
type WatchlistEntry struct {
	Symbol   string `json:"symbol"`
	Analysis any    `json:"analysis,omitempty"`
}

// GetWatchlist 返回自选股列表，附带Redis中各股票的最新分析
func (wc *WatchlistController) GetWatchlist(c *gin.Context) {
	watchlist, err := config.LoadWatchlist(config.GlobalConfig.WatchlistPath)
	if err != nil {
		logrus.Errorf("加载自选股文件失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "加载自选股列表失败",
			"code":  "WATCHLIST_LOAD_FAILED",
		})
		return
	}

	entries := make([]WatchlistEntry, 0, len(watchlist.Symbols))
	for _, symbol := range watchlist.Symbols {
		entry := WatchlistEntry{Symbol: symbol}
		if redis.GlobalRedisClient != nil {
			result, err := redis.GlobalRedisClient.GetLatestAnalysis(symbol)
			if err != nil {
				logrus.Warnf("读取最新分析缓存失败: symbol=%s error=%v", symbol, err)
			} else if result != nil {
				entry.Analysis = result
			}
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"model": watchlist.Model,
	})
}
