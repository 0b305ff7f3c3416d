// Package indicators 提供纯数值的技术指标计算：均线、波动带、枢轴点、动量、
// 历史极值比率等。所有函数无副作用，预热期内的值用NaN标记"尚未定义"，不是错误。
package indicators

import "math"

// SMASeries 计算简单移动平均序列
// 索引i在预热期内（i < window-1）时值为NaN，其余为以i结尾的window个收盘价均值
func SMASeries(closes []float64, window int) []float64 {
	result := make([]float64, len(closes))
	if window <= 0 {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	sum := 0.0
	for i := range closes {
		sum += closes[i]
		if i >= window {
			sum -= closes[i-window]
		}
		if i < window-1 {
			result[i] = math.NaN()
		} else {
			result[i] = sum / float64(window)
		}
	}
	return result
}

// SMAAt 计算以index结尾的window日均价，预热不足返回NaN
func SMAAt(closes []float64, window, index int) float64 {
	if window <= 0 || index < window-1 || index >= len(closes) {
		return math.NaN()
	}
	sum := 0.0
	for i := index - window + 1; i <= index; i++ {
		sum += closes[i]
	}
	return sum / float64(window)
}

// RollingStd 计算以index结尾的window日总体标准差（除以window而非window-1）
// 预热不足返回NaN
func RollingStd(closes []float64, window, index int) float64 {
	if window <= 0 || index < window-1 || index >= len(closes) {
		return math.NaN()
	}
	mean := SMAAt(closes, window, index)
	sumSq := 0.0
	for i := index - window + 1; i <= index; i++ {
		diff := closes[i] - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(window))
}
