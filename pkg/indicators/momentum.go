package indicators

import (
	"math"

	"stock_advisor/models"
)

// Momentum 计算window日涨跌幅百分比 (C[now]-C[now-window])/C[now-window]*100
// 序列不足window+1个点时不允许计算，返回NaN
func Momentum(closes []float64, window int) float64 {
	n := len(closes)
	if window <= 0 || n < window+1 {
		return math.NaN()
	}
	base := closes[n-1-window]
	if base == 0 {
		return math.NaN()
	}
	return (closes[n-1] - base) / base * 100
}

// VolumeRatio 最新成交量相对前window日平均成交量的比率
// 需要window+1个点（最新一日不参与均值），不足返回NaN
func VolumeRatio(volumes []float64, window int) float64 {
	n := len(volumes)
	if window <= 0 || n < window+1 {
		return math.NaN()
	}
	sum := 0.0
	for i := n - 1 - window; i < n-1; i++ {
		sum += volumes[i]
	}
	avg := sum / float64(window)
	if avg == 0 {
		return math.NaN()
	}
	return volumes[n-1] / avg
}

// YearRangeOf 计算最近window个交易日的最高价/最低价与当前收盘价位置
func YearRangeOf(series models.PriceSeries, window int) models.YearRange {
	n := len(series)
	if n == 0 {
		return models.YearRange{Position: models.JSONFloat(math.NaN())}
	}
	start := n - window
	if start < 0 {
		start = 0
	}

	high := series[start].High
	low := series[start].Low
	for i := start + 1; i < n; i++ {
		if series[i].High > high {
			high = series[i].High
		}
		if series[i].Low < low {
			low = series[i].Low
		}
	}

	position := math.NaN()
	if high != low {
		position = (series[n-1].Close - low) / (high - low)
	}

	return models.YearRange{
		High:     high,
		Low:      low,
		Position: models.JSONFloat(position),
	}
}
