package redis

import (
	"encoding/json"
	"fmt"
	"time"

	"stock_advisor/models"

	"github.com/redis/go-redis/v9"
)

// 行情缓存有效期：日线数据盘中按分钟级刷新即可
const priceSeriesTTL = 10 * time.Minute

// CachePriceSeries 缓存某标的的日线行情序列
func (c *Client) CachePriceSeries(symbol string, series models.PriceSeries) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("序列化行情序列失败: %v", err)
	}
	key := fmt.Sprintf("%s:%s", CacheKeyPriceSeries, symbol)
	return c.Set(key, data, priceSeriesTTL).Err()
}

// GetCachedPriceSeries 读取行情缓存，未命中返回(nil, false)
func (c *Client) GetCachedPriceSeries(symbol string) (models.PriceSeries, bool) {
	key := fmt.Sprintf("%s:%s", CacheKeyPriceSeries, symbol)
	data, err := c.Get(key).Bytes()
	if err != nil {
		return nil, false
	}
	var series models.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, false
	}
	return series, true
}

// SetLatestAnalysis 记录某标的最近一次分析结果，供看板与调度器查询
func (c *Client) SetLatestAnalysis(symbol string, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化分析结果失败: %v", err)
	}
	key := fmt.Sprintf("%s:%s", KeyLatestAnalysis, symbol)
	return c.Set(key, data, 0).Err()
}

// GetLatestAnalysis 读取某标的最近一次分析结果，不存在时返回(nil, nil)
func (c *Client) GetLatestAnalysis(symbol string) (*models.AnalysisResult, error) {
	key := fmt.Sprintf("%s:%s", KeyLatestAnalysis, symbol)
	data, err := c.Get(key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取分析结果失败: %v", err)
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("反序列化分析结果失败: %v", err)
	}
	return &result, nil
}
