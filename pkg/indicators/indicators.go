package indicators

import (
	"errors"

	"stock_advisor/models"
)

// 指标窗口与阈值均为产品策略固定值，不要按需重推
const (
	DefaultShortWindow    = 10
	DefaultLongWindow     = 30
	DefaultBandWindow     = 20
	DefaultBandMultiplier = 2.0
	DefaultMomentumW1     = 5
	DefaultMomentumW2     = 10
	DefaultVolumeWindow   = 20
	YearWindow            = 252 // 52周按252个交易日计

	// 当前均线差距相对历史极值的分级阈值（百分比）
	NearExtremeThresholdPct = 60.0
	AtExtremeThresholdPct   = 80.0

	// 最近交叉检测回看的索引对数量
	CrossoverLookback = 5
)

// ErrEmptySeries 行情序列为空，无法计算任何指标
var ErrEmptySeries = errors.New("行情序列为空")

// ComputeIndicatorSet 从升序行情序列计算完整指标集合
// 序列必须已过滤到目标市场时区的当日为止并按日期升序排列；
// 各指标预热不足时以NaN标记，不作为错误返回
func ComputeIndicatorSet(series models.PriceSeries) (*models.IndicatorSet, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	closes := series.Closes()
	volumes := series.Volumes()
	latest := series.Latest()

	shortMA := SMASeries(closes, DefaultShortWindow)
	longMA := SMASeries(closes, DefaultLongWindow)

	set := &models.IndicatorSet{
		LatestClose: latest.Close,
		MAShort:     models.JSONFloat(shortMA[len(shortMA)-1]),
		MALong:      models.JSONFloat(longMA[len(longMA)-1]),
		Bands:       Bands(closes, DefaultBandWindow, DefaultBandMultiplier),
		Pivots:      WoodiePivots(latest.High, latest.Low, latest.Close),
		MomentumW1:  models.JSONFloat(Momentum(closes, DefaultMomentumW1)),
		MomentumW2:  models.JSONFloat(Momentum(closes, DefaultMomentumW2)),
		VolumeRatio: models.JSONFloat(VolumeRatio(volumes, DefaultVolumeWindow)),
		YearRange:   YearRangeOf(series, YearWindow),
		Crossover:   AnalyzeCrossover(shortMA, longMA),
	}
	return set, nil
}
