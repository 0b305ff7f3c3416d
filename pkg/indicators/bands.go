package indicators

import (
	"math"

	"stock_advisor/models"
)

// Bands 计算最新交易日的波动带：中轨为window日均线，上下轨为中轨±multiplier倍滚动标准差
// Position为最新收盘价在带内的位置，刻意不做钳制，越界代表价格处于极端状态
func Bands(closes []float64, window int, multiplier float64) models.BandSet {
	index := len(closes) - 1
	if index < 0 {
		nan := models.JSONFloat(math.NaN())
		return models.BandSet{Upper: nan, Middle: nan, Lower: nan, Position: nan}
	}

	middle := SMAAt(closes, window, index)
	std := RollingStd(closes, window, index)
	upper := middle + multiplier*std
	lower := middle - multiplier*std

	position := math.NaN()
	if !math.IsNaN(upper) && !math.IsNaN(lower) && upper != lower {
		position = (closes[index] - lower) / (upper - lower)
	}

	return models.BandSet{
		Upper:    models.JSONFloat(upper),
		Middle:   models.JSONFloat(middle),
		Lower:    models.JSONFloat(lower),
		Position: models.JSONFloat(position),
	}
}
