package models

import (
	"math"
	"strconv"
)

// JSONFloat 包装float64，让NaN（指标预热期的"尚未定义"标记）序列化为null
// 而不是让encoding/json直接报错
type JSONFloat float64

// MarshalJSON NaN输出null，其余按普通浮点数输出
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// UnmarshalJSON null还原为NaN
func (f *JSONFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = JSONFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = JSONFloat(v)
	return nil
}

// Defined 该指标是否已过预热期
func (f JSONFloat) Defined() bool {
	return !math.IsNaN(float64(f))
}

// TrendDirection 均线趋势方向
type TrendDirection string

const (
	TrendUp   TrendDirection = "TĂNG"
	TrendDown TrendDirection = "GIẢM"
	TrendFlat TrendDirection = "ĐI NGANG"
)

// CrossoverType 均线交叉类型
type CrossoverType string

const (
	CrossoverGolden CrossoverType = "golden_cross"
	CrossoverDeath  CrossoverType = "death_cross"
	CrossoverNone   CrossoverType = "none" // 最近窗口内无交叉，区别于数据不足
)

// BandSet 波动带三元组（布林带风格）
type BandSet struct {
	Upper  JSONFloat `json:"upper"`
	Middle JSONFloat `json:"middle"`
	Lower  JSONFloat `json:"lower"`
	// Position 为最新收盘价在带内的位置 (close-lower)/(upper-lower)
	// 不做钳制，超出[0,1]表示价格已突破波动带，属于极端状态而非错误
	Position JSONFloat `json:"position"`
}

// PivotLevels Woodie枢轴点结构
type PivotLevels struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	R3    float64 `json:"r3"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"` // 常规吸筹参考买入位
	S3    float64 `json:"s3"`
}

// CrossoverAnalysis 均线交叉与历史振幅分析，预热数据不足时整体为nil
type CrossoverAnalysis struct {
	Trend           TrendDirection `json:"trend"`
	Recent          CrossoverType  `json:"recent_crossover"`
	CurrentGapPct   float64        `json:"current_gap_pct"`
	MaxBullishPct   float64        `json:"max_bullish_pct"`
	MaxBearishPct   float64        `json:"max_bearish_pct"`
	ExtremeRatioPct float64        `json:"extreme_ratio_pct"`
	NearExtreme     bool           `json:"near_extreme"`
	AtExtreme       bool           `json:"at_extreme"`
	Interpretation  string         `json:"interpretation"`
}

// YearRange 52周（252个交易日）高低点与当前位置
type YearRange struct {
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Position JSONFloat `json:"position"` // (close-low)/(high-low)
}

// IndicatorSet 派生指标集合，只读，按请求即时计算，不持久化
type IndicatorSet struct {
	LatestClose float64            `json:"latest_close"`
	MAShort     JSONFloat          `json:"ma_short"` // 默认10日
	MALong      JSONFloat          `json:"ma_long"`  // 默认30日
	Bands       BandSet            `json:"bands"`
	Pivots      PivotLevels        `json:"pivots"`
	MomentumW1  JSONFloat          `json:"momentum_w1"` // 默认5日涨跌幅%
	MomentumW2  JSONFloat          `json:"momentum_w2"` // 默认10日涨跌幅%
	VolumeRatio JSONFloat          `json:"volume_ratio"`
	YearRange   YearRange          `json:"year_range"`
	Crossover   *CrossoverAnalysis `json:"crossover,omitempty"`
}
