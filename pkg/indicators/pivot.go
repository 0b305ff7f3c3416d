package indicators

import (
	"math"

	"stock_advisor/models"
)

// round2 四舍五入到2位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WoodiePivots 用最近一个完整交易日的高低收计算Woodie枢轴点
// pivot = (H+L+2C)/4，六个衍生位四舍五入到2位小数
// S2是下游使用的常规吸筹参考买入位
func WoodiePivots(high, low, close float64) models.PivotLevels {
	pivot := (high + low + 2*close) / 4
	return models.PivotLevels{
		Pivot: pivot,
		R1:    round2(2*pivot - low),
		R2:    round2(pivot + (high - low)),
		R3:    round2(high + 2*(pivot-low)),
		S1:    round2(2*pivot - high),
		S2:    round2(pivot - (high - low)),
		S3:    round2(low - 2*(high-pivot)),
	}
}
