// Package marketdata 对接行情数据源的REST接口，取日线行情、基本面、
// 分析师评级与季度盈利。返回的JSON字段较杂，用gjson按路径摘取。
package marketdata

import (
	"context"
	"fmt"
	"time"

	"stock_advisor/models"
	"stock_advisor/pkg/redis"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// 默认取一年多一点的日线，保证252个交易日的52周窗口够用
const historyDays = 400

type Client struct {
	http        *resty.Client
	redisClient *redis.Client // 可为nil，此时跳过缓存
}

// New 创建行情数据客户端，redisClient传nil则不启用行情缓存
func New(baseURL string, redisClient *redis.Client) *Client {
	http := resty.New()
	http.SetBaseURL(baseURL)
	http.SetTimeout(15 * time.Second)
	http.SetHeader("Accept", "application/json")

	return &Client{
		http:        http,
		redisClient: redisClient,
	}
}

// FetchPriceHistory 拉取日线行情，升序返回；命中Redis缓存时直接返回缓存
func (c *Client) FetchPriceHistory(ctx context.Context, symbol string) (models.PriceSeries, error) {
	if c.redisClient != nil {
		if series, ok := c.redisClient.GetCachedPriceSeries(symbol); ok {
			logrus.Debugf("行情缓存命中: %s (%d条)", symbol, len(series))
			return series, nil
		}
	}

	now := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ticker":     symbol,
			"type":       "stock",
			"resolution": "D",
			"from":       fmt.Sprintf("%d", now.AddDate(0, 0, -historyDays).Unix()),
			"to":         fmt.Sprintf("%d", now.Unix()),
		}).
		Get("/stock-insight/v1/stock/bars-long-term")
	if err != nil {
		return nil, fmt.Errorf("拉取行情失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("拉取行情失败: HTTP %d", resp.StatusCode())
	}

	series := make(models.PriceSeries, 0, historyDays)
	gjson.GetBytes(resp.Body(), "data").ForEach(func(_, bar gjson.Result) bool {
		date, err := time.Parse(time.RFC3339, bar.Get("tradingDate").String())
		if err != nil {
			return true
		}
		series = append(series, models.PricePoint{
			Date:   date,
			Open:   bar.Get("open").Float(),
			High:   bar.Get("high").Float(),
			Low:    bar.Get("low").Float(),
			Close:  bar.Get("close").Float(),
			Volume: bar.Get("volume").Float(),
		})
		return true
	})
	if len(series) == 0 {
		return nil, fmt.Errorf("行情数据为空: %s", symbol)
	}
	series.SortAscending()

	if c.redisClient != nil {
		if err := c.redisClient.CachePriceSeries(symbol, series); err != nil {
			logrus.Warnf("写入行情缓存失败: %v", err)
		}
	}
	return series, nil
}

// FetchFundamentals 拉取基本面快照
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/tcanalysis/v1/ticker/%s/overview", symbol))
	if err != nil {
		return nil, fmt.Errorf("拉取基本面失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("拉取基本面失败: HTTP %d", resp.StatusCode())
	}

	body := resp.Body()
	return &models.Fundamentals{
		PE:            gjson.GetBytes(body, "pe").Float(),
		PB:            gjson.GetBytes(body, "pb").Float(),
		ROE:           gjson.GetBytes(body, "roe").Float(),
		ROA:           gjson.GetBytes(body, "roa").Float(),
		DividendYield: gjson.GetBytes(body, "dividend").Float(),
		MarketCap:     gjson.GetBytes(body, "marketCap").Float(),
		EPS:           gjson.GetBytes(body, "eps").Float(),
	}, nil
}

// FetchRecommendations 拉取第三方分析师评级
func (c *Client) FetchRecommendations(ctx context.Context, symbol string) ([]models.Recommendation, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("fType", "TICKER").
		Get(fmt.Sprintf("/tcanalysis/v1/ticker/%s/recommend-his", symbol))
	if err != nil {
		return nil, fmt.Errorf("拉取评级失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("拉取评级失败: HTTP %d", resp.StatusCode())
	}

	var recs []models.Recommendation
	gjson.GetBytes(resp.Body(), "listRecommend").ForEach(func(_, item gjson.Result) bool {
		date, _ := time.Parse("2006-01-02", item.Get("reportDate").String())
		recs = append(recs, models.Recommendation{
			Firm:        item.Get("firm").String(),
			Rating:      item.Get("type").String(),
			TargetPrice: item.Get("targetPrice").Float(),
			Date:        date,
		})
		return true
	})
	return recs, nil
}

// FetchQuarterlyProfit 拉取季度盈利序列
func (c *Client) FetchQuarterlyProfit(ctx context.Context, symbol string) ([]models.QuarterlyProfit, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"yearly": "0",
			"isAll":  "false",
		}).
		Get(fmt.Sprintf("/tcanalysis/v1/finance/%s/incomestatement", symbol))
	if err != nil {
		return nil, fmt.Errorf("拉取季度盈利失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("拉取季度盈利失败: HTTP %d", resp.StatusCode())
	}

	var quarters []models.QuarterlyProfit
	gjson.ParseBytes(resp.Body()).ForEach(func(_, item gjson.Result) bool {
		quarters = append(quarters, models.QuarterlyProfit{
			Quarter: fmt.Sprintf("%d-Q%d", item.Get("year").Int(), item.Get("quarter").Int()),
			Revenue: item.Get("revenue").Float(),
			Profit:  item.Get("postTaxProfit").Float(),
		})
		return true
	})
	return quarters, nil
}
