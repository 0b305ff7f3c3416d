package models

import (
	"encoding/json"
	"time"
)

// Signal 标准化后的操作信号
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Sentiment 新闻情绪分类
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// QuarterlyProfit 季度盈利数据
type QuarterlyProfit struct {
	Quarter string  `json:"quarter"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// Fundamentals 基本面数据包
type Fundamentals struct {
	PE            float64           `json:"pe"`
	PB            float64           `json:"pb"`
	ROE           float64           `json:"roe"`
	ROA           float64           `json:"roa"`
	DividendYield float64           `json:"dividend_yield"`
	MarketCap     float64           `json:"market_cap"`
	EPS           float64           `json:"eps"`
	Quarterly     []QuarterlyProfit `json:"quarterly,omitempty"`
}

// Recommendation 第三方分析师评级
type Recommendation struct {
	Firm        string    `json:"firm"`
	Rating      string    `json:"rating"`
	TargetPrice float64   `json:"target_price"`
	Date        time.Time `json:"date"`
}

// AnalysisRequest 交给分析管线的请求包，每次调用新建，用完即弃
type AnalysisRequest struct {
	Symbol          string           `json:"symbol"`
	Indicators      *IndicatorSet    `json:"indicators"`
	Fundamentals    *Fundamentals    `json:"fundamentals,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Model           string           `json:"model,omitempty"`
}

// HorizonView 单个时间维度的结论
type HorizonView struct {
	Signal     Signal `json:"signal"`
	Confidence int    `json:"confidence"` // 0-100
	Summary    string `json:"summary"`
}

// NewsAnalysis 新闻情绪块，可选
type NewsAnalysis struct {
	Sentiment     Sentiment `json:"sentiment"`
	Summary       string    `json:"summary"`
	ImpactOnPrice string    `json:"impactOnPrice"`
}

// AnalysisResult 标准化后的分析结果，跨信任边界返回给调用方的唯一产物
// 无论上游文本多畸形，管线都会产出一个形状完整、取值合法的实例
type AnalysisResult struct {
	ShortTerm     HorizonView   `json:"shortTerm"`
	LongTerm      HorizonView   `json:"longTerm"`
	BuyPrice      *float64      `json:"buyPrice"`
	TargetPrice   *float64      `json:"targetPrice"`
	StopLoss      *float64      `json:"stopLoss"`
	Risks         []string      `json:"risks"`         // 恒为3条
	Opportunities []string      `json:"opportunities"` // 恒为3条
	NewsAnalysis  *NewsAnalysis `json:"newsAnalysis,omitempty"`
}

// HasBuySignal 任一维度给出BUY时为真，价格字段只有此时才允许非空
func (r *AnalysisResult) HasBuySignal() bool {
	return r.ShortTerm.Signal == SignalBuy || r.LongTerm.Signal == SignalBuy
}

// HasActionSignal 任一维度给出非HOLD信号时为真，决定是否推送通知
func (r *AnalysisResult) HasActionSignal() bool {
	return r.ShortTerm.Signal != SignalHold || r.LongTerm.Signal != SignalHold
}

// AnalysisRecord 对应 MySQL 中的 analysis_records 表
type AnalysisRecord struct {
	ID              uint            `json:"id" gorm:"primarykey"`
	Symbol          string          `json:"symbol" gorm:"index"`
	Model           string          `json:"model"`
	ShortTermSignal string          `json:"short_term_signal"`
	LongTermSignal  string          `json:"long_term_signal"`
	Result          json.RawMessage `json:"result" gorm:"type:json"`
	Indicators      json.RawMessage `json:"indicators" gorm:"type:json"`
	LastPrice       float64         `json:"last_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
