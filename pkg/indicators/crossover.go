package indicators

import (
	"math"

	"stock_advisor/models"
)

// AnalyzeCrossover 分析短期均线A与长期均线B的交叉与历史振幅状态
// 预热数据不足（两条均线没有同时有效的索引对）时返回nil，
// 调用方必须把nil与"最近无交叉"区分开
func AnalyzeCrossover(shortMA, longMA []float64) *models.CrossoverAnalysis {
	n := len(shortMA)
	if len(longMA) < n {
		n = len(longMA)
	}

	// 收集两条均线都有效的索引
	defined := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !math.IsNaN(shortMA[i]) && !math.IsNaN(longMA[i]) && longMA[i] != 0 {
			defined = append(defined, i)
		}
	}
	if len(defined) < 2 {
		return nil
	}

	// 全历史扫描：记录多头方向（A在B上方）与空头方向的最大百分比差距
	maxBullish := 0.0
	maxBearish := 0.0
	for _, i := range defined {
		gap := (shortMA[i] - longMA[i]) / longMA[i] * 100
		if gap > maxBullish {
			maxBullish = gap
		}
		if -gap > maxBearish {
			maxBearish = -gap
		}
	}

	last := defined[len(defined)-1]
	currentGap := (shortMA[last] - longMA[last]) / longMA[last] * 100

	trend := models.TrendFlat
	if shortMA[last] > longMA[last] {
		trend = models.TrendUp
	} else if shortMA[last] < longMA[last] {
		trend = models.TrendDown
	}

	// 当前差距相对同方向历史极值的比率
	ratio := 0.0
	switch {
	case trend == models.TrendUp && maxBullish > 0:
		ratio = currentGap / maxBullish * 100
	case trend == models.TrendDown && maxBearish > 0:
		ratio = -currentGap / maxBearish * 100
	}

	analysis := &models.CrossoverAnalysis{
		Trend:           trend,
		Recent:          recentCrossover(shortMA, longMA, defined),
		CurrentGapPct:   currentGap,
		MaxBullishPct:   maxBullish,
		MaxBearishPct:   maxBearish,
		ExtremeRatioPct: ratio,
		NearExtreme:     ratio >= NearExtremeThresholdPct,
		AtExtreme:       ratio >= AtExtremeThresholdPct,
	}
	analysis.Interpretation = interpret(analysis)
	return analysis
}

// recentCrossover 在最近CrossoverLookback个相邻索引对中找差值符号变化
// 从≤0变为>0为金叉，从>0变为≤0为死叉
func recentCrossover(shortMA, longMA []float64, defined []int) models.CrossoverType {
	pairs := len(defined) - 1
	if pairs > CrossoverLookback {
		pairs = CrossoverLookback
	}
	for k := len(defined) - 1; k >= len(defined)-pairs; k-- {
		cur := defined[k]
		prev := defined[k-1]
		diffCur := shortMA[cur] - longMA[cur]
		diffPrev := shortMA[prev] - longMA[prev]
		if diffPrev <= 0 && diffCur > 0 {
			return models.CrossoverGolden
		}
		if diffPrev > 0 && diffCur <= 0 {
			return models.CrossoverDeath
		}
	}
	return models.CrossoverNone
}

// interpret 生成供提示词与摘要使用的状态描述（启发式的行情状态信号，不是保证）
func interpret(a *models.CrossoverAnalysis) string {
	switch {
	case a.Trend == models.TrendUp && a.AtExtreme:
		return "Khoảng cách MA đã chạm biên độ lịch sử, cân nhắc chốt lời"
	case a.Trend == models.TrendUp && a.NearExtreme:
		return "Khoảng cách MA tiệm cận biên độ lịch sử, theo dõi chốt lời"
	case a.Trend == models.TrendDown && a.AtExtreme:
		return "Đà giảm đã chạm biên độ lịch sử, có thể cân nhắc bắt đáy"
	case a.Trend == models.TrendDown && a.NearExtreme:
		return "Đà giảm tiệm cận biên độ lịch sử, theo dõi điểm vào ngược xu hướng"
	case a.Trend == models.TrendUp:
		return "Xu hướng tăng tiếp diễn, chưa gần biên độ lịch sử"
	case a.Trend == models.TrendDown:
		return "Xu hướng giảm tiếp diễn, chưa gần biên độ lịch sử"
	default:
		return "Hai đường MA đi ngang, chưa có tín hiệu rõ ràng"
	}
}
