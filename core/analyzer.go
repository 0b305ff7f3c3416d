package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"stock_advisor/models"
	"stock_advisor/pkg/analysis"
	"stock_advisor/pkg/database"
	"stock_advisor/pkg/gemini"
	"stock_advisor/pkg/indicators"
	"stock_advisor/pkg/marketdata"
	"stock_advisor/pkg/redis"
	"stock_advisor/pkg/telegram"
	"stock_advisor/pkg/websocket"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// marketLocation 目标市场时区，行情序列必须过滤到该时区的当日为止
var marketLocation = mustLoadLocation("Asia/Ho_Chi_Minh")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("无法加载市场时区 %s，使用UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// Analyzer 信号派生管线：行情 → 指标 → 提示词 → 文本生成 → 归一化
// 管线本身同步、无共享可变状态，每次调用只操作请求级数据
type Analyzer struct {
	marketData   *marketdata.Client
	geminiClient *gemini.Client
	redisClient  *redis.Client
}

// NewAnalyzer 创建分析管线
func NewAnalyzer(marketData *marketdata.Client, geminiClient *gemini.Client, redisClient *redis.Client) *Analyzer {
	return &Analyzer{
		marketData:   marketData,
		geminiClient: geminiClient,
		redisClient:  redisClient,
	}
}

// AnalysisOutcome 一次完整分析的产物
type AnalysisOutcome struct {
	Symbol     string                 `json:"symbol"`
	Model      string                 `json:"model"`
	Result     *models.AnalysisResult `json:"result"`
	Indicators *models.IndicatorSet   `json:"indicators"`
}

// gatheredData 并发拉取阶段的汇总，除行情外各分支失败都退化为空值
type gatheredData struct {
	series          models.PriceSeries
	fundamentals    *models.Fundamentals
	recommendations []models.Recommendation
	quarterly       []models.QuarterlyProfit
}

// Analyze 执行完整管线
// 传输/配置类失败向调用方返回错误；生成成功后的内容畸形永远在本地恢复，
// 调用方收到的结果保证形状完整
func (a *Analyzer) Analyze(ctx context.Context, symbol, model string) (*AnalysisOutcome, error) {
	if symbol == "" {
		return nil, fmt.Errorf("股票代码不能为空")
	}
	requestID := uuid.New().String()[:8]
	log := logrus.WithFields(logrus.Fields{"request_id": requestID, "symbol": symbol})

	data, err := a.gather(ctx, symbol, log)
	if err != nil {
		return nil, err
	}

	series := clampToMarketDay(data.series)

	set, err := indicators.ComputeIndicatorSet(series)
	if err != nil {
		return nil, fmt.Errorf("计算指标失败: %v", err)
	}
	log.Debugf("指标计算完成: close=%.2f", set.LatestClose)

	request := &models.AnalysisRequest{
		Symbol:          symbol,
		Indicators:      set,
		Fundamentals:    data.fundamentals,
		Recommendations: data.recommendations,
		Model:           gemini.ResolveModel(model),
	}
	if data.fundamentals != nil {
		request.Fundamentals.Quarterly = data.quarterly
	}

	prompt := BuildPrompt(request)

	// 整个流程唯一的外部阻塞步骤，超时到期按传输失败处理，
	// 不会把截断的文本喂给归一化器
	text, err := a.geminiClient.Generate(ctx, prompt, request.Model)
	if err != nil {
		log.Warnf("文本生成失败: %v", err)
		return nil, err
	}

	// 生成成功后不存在错误路径，畸形内容退化为安全默认值
	result := analysis.Normalize(text)
	log.Infof("分析完成: short=%s long=%s", result.ShortTerm.Signal, result.LongTerm.Signal)

	return &AnalysisOutcome{
		Symbol:     symbol,
		Model:      request.Model,
		Result:     result,
		Indicators: set,
	}, nil
}

// Indicators 只计算指标集合，不走文本生成，供看板的指标接口使用
func (a *Analyzer) Indicators(ctx context.Context, symbol string) (*models.IndicatorSet, error) {
	if symbol == "" {
		return nil, fmt.Errorf("股票代码不能为空")
	}
	series, err := a.marketData.FetchPriceHistory(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("拉取行情失败: %v", err)
	}

	return indicators.ComputeIndicatorSet(clampToMarketDay(series))
}

// clampToMarketDay 过滤到市场时区的当日为止并升序排列，
// 否则指标会锚定到错误的时间点
func clampToMarketDay(series models.PriceSeries) models.PriceSeries {
	now := time.Now().In(marketLocation)
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, marketLocation)
	filtered := series.FilterUpTo(endOfToday)
	filtered.SortAscending()
	return filtered
}

// gather 并发拉取行情、基本面、评级与季度盈利
// 行情是指标计算的硬前提，拉取失败则整个请求失败；其余分支失败只降级为空值
func (a *Analyzer) gather(ctx context.Context, symbol string, log *logrus.Entry) (*gatheredData, error) {
	data := &gatheredData{}
	var seriesErr error

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		data.series, seriesErr = a.marketData.FetchPriceHistory(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		fundamentals, err := a.marketData.FetchFundamentals(ctx, symbol)
		if err != nil {
			log.Warnf("基本面拉取失败，降级为空: %v", err)
			return
		}
		data.fundamentals = fundamentals
	}()
	go func() {
		defer wg.Done()
		recs, err := a.marketData.FetchRecommendations(ctx, symbol)
		if err != nil {
			log.Warnf("评级拉取失败，降级为空: %v", err)
			return
		}
		data.recommendations = recs
	}()
	go func() {
		defer wg.Done()
		quarters, err := a.marketData.FetchQuarterlyProfit(ctx, symbol)
		if err != nil {
			log.Warnf("季度盈利拉取失败，降级为空: %v", err)
			return
		}
		data.quarterly = quarters
	}()

	wg.Wait()

	if seriesErr != nil {
		return nil, fmt.Errorf("拉取行情失败: %v", seriesErr)
	}
	return data, nil
}

// RunAndRecord 执行管线并落库、刷新缓存、广播、按需通知
// 供HTTP接口与定时扫描共用
func (a *Analyzer) RunAndRecord(ctx context.Context, symbol, model string) (*AnalysisOutcome, error) {
	outcome, err := a.Analyze(ctx, symbol, model)
	if err != nil {
		return nil, err
	}

	a.record(outcome)

	if hub := websocket.GetGlobalWebSocketManager(); hub != nil {
		hub.BroadcastAnalysis(outcome)
	}
	if telegram.GlobalTelegramClient != nil && outcome.Result.HasActionSignal() {
		if err := telegram.GlobalTelegramClient.SendAnalysisAlert(outcome.Symbol, outcome.Result); err != nil {
			logrus.Errorf("发送分析通知失败: %v", err)
		}
	}
	return outcome, nil
}

// record 持久化分析记录并刷新Redis中的最新结果
func (a *Analyzer) record(outcome *AnalysisOutcome) {
	if a.redisClient != nil {
		if err := a.redisClient.SetLatestAnalysis(outcome.Symbol, outcome.Result); err != nil {
			logrus.Warnf("刷新最新分析缓存失败: %v", err)
		}
	}

	db := database.GetDB()
	if db == nil {
		return
	}
	resultJSON, err := json.Marshal(outcome.Result)
	if err != nil {
		logrus.Errorf("序列化分析结果失败: %v", err)
		return
	}
	indicatorsJSON, err := json.Marshal(outcome.Indicators)
	if err != nil {
		logrus.Errorf("序列化指标失败: %v", err)
		return
	}

	lastPrice := outcome.Indicators.LatestClose
	if math.IsNaN(lastPrice) {
		lastPrice = 0
	}
	record := &models.AnalysisRecord{
		Symbol:          outcome.Symbol,
		Model:           outcome.Model,
		ShortTermSignal: string(outcome.Result.ShortTerm.Signal),
		LongTermSignal:  string(outcome.Result.LongTerm.Signal),
		Result:          resultJSON,
		Indicators:      indicatorsJSON,
		LastPrice:       lastPrice,
	}
	if err := db.Create(record).Error; err != nil {
		logrus.Errorf("写入分析记录失败: %v", err)
	}
}
