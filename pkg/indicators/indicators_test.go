package indicators

import (
	"math"
	"testing"
	"time"

	"stock_advisor/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ========== 均线测试 ==========

func TestSMASeriesWarmup(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17}
	window := 5
	result := SMASeries(closes, window)

	if len(result) != len(closes) {
		t.Fatalf("结果长度错误: 期望 %d, 实际 %d", len(closes), len(result))
	}

	for i := range result {
		if i < window-1 {
			if !math.IsNaN(result[i]) {
				t.Errorf("索引 %d 处于预热期，期望NaN，实际 %v", i, result[i])
			}
			continue
		}
		// 参考实现：直接求尾部window个均值
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += closes[j]
		}
		expected := sum / float64(window)
		if !almostEqual(result[i], expected) {
			t.Errorf("索引 %d 均值错误: 期望 %v, 实际 %v", i, expected, result[i])
		}
	}
}

func TestRollingStdPopulation(t *testing.T) {
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	// 这组数据总体标准差恰好为2（经典例子），窗口取整个序列
	std := RollingStd(closes, 8, 7)
	if !almostEqual(std, 2) {
		t.Errorf("总体标准差错误: 期望 2, 实际 %v", std)
	}

	if !math.IsNaN(RollingStd(closes, 8, 6)) {
		t.Error("预热不足时应返回NaN")
	}
}

// ========== 波动带测试 ==========

func TestBandsPositionNotClamped(t *testing.T) {
	// 前19日横盘在100，最后一日暴涨，收盘价会落在上轨之外
	closes := make([]float64, 20)
	for i := 0; i < 19; i++ {
		closes[i] = 100 + float64(i%3)
	}
	closes[19] = 150

	bands := Bands(closes, DefaultBandWindow, DefaultBandMultiplier)
	if !bands.Position.Defined() {
		t.Fatal("20个点应足够计算波动带")
	}
	if float64(bands.Position) <= 1 {
		t.Errorf("价格突破上轨时位置应大于1（极端状态，不钳制），实际 %v", float64(bands.Position))
	}
}

func TestBandsWarmup(t *testing.T) {
	closes := []float64{100, 101, 102}
	bands := Bands(closes, DefaultBandWindow, DefaultBandMultiplier)
	if bands.Middle.Defined() {
		t.Error("数据不足20个点时中轨应为NaN")
	}
}

// ========== 枢轴点测试 ==========

func TestWoodiePivotsOrdering(t *testing.T) {
	cases := []struct {
		high, low, close float64
	}{
		{105, 95, 100},
		{88.4, 80.15, 85.3},
		{25000, 23000, 24500},
		{100.01, 100.00, 100.005},
	}

	for _, c := range cases {
		p := WoodiePivots(c.high, c.low, c.close)

		if !(p.S1 < p.Pivot && p.Pivot < p.R1) {
			t.Errorf("H=%v L=%v C=%v: 期望 S1 < pivot < R1, 实际 S1=%v pivot=%v R1=%v",
				c.high, c.low, c.close, p.S1, p.Pivot, p.R1)
		}
		if !(p.S3 <= p.S2 && p.S2 <= p.S1) {
			t.Errorf("H=%v L=%v C=%v: 期望 S3 <= S2 <= S1, 实际 S3=%v S2=%v S1=%v",
				c.high, c.low, c.close, p.S3, p.S2, p.S1)
		}
		if !(p.R1 <= p.R2 && p.R2 <= p.R3) {
			t.Errorf("H=%v L=%v C=%v: 期望 R1 <= R2 <= R3, 实际 R1=%v R2=%v R3=%v",
				c.high, c.low, c.close, p.R1, p.R2, p.R3)
		}
	}
}

func TestWoodiePivotsFormula(t *testing.T) {
	p := WoodiePivots(105, 95, 100)
	// pivot = (105+95+200)/4 = 100
	if !almostEqual(p.Pivot, 100) {
		t.Errorf("pivot错误: 期望 100, 实际 %v", p.Pivot)
	}
	if !almostEqual(p.R1, 105) || !almostEqual(p.S1, 95) {
		t.Errorf("R1/S1错误: R1=%v S1=%v", p.R1, p.S1)
	}
	if !almostEqual(p.R2, 110) || !almostEqual(p.S2, 90) {
		t.Errorf("R2/S2错误: R2=%v S2=%v", p.R2, p.S2)
	}
}

// ========== 动量测试 ==========

func TestMomentum(t *testing.T) {
	closes := []float64{100, 102, 104, 106, 108, 110}
	m := Momentum(closes, 5)
	if !almostEqual(m, 10) {
		t.Errorf("5日动量错误: 期望 10, 实际 %v", m)
	}

	// 序列只有6个点，不允许计算6日动量
	if !math.IsNaN(Momentum(closes, 6)) {
		t.Error("点数不足window+1时动量必须为NaN")
	}
	if math.IsNaN(Momentum(closes, 5)) {
		t.Error("恰好window+1个点时动量应可计算")
	}
}

func TestVolumeRatio(t *testing.T) {
	volumes := make([]float64, 21)
	for i := 0; i < 20; i++ {
		volumes[i] = 1000
	}
	volumes[20] = 2000

	ratio := VolumeRatio(volumes, 20)
	if !almostEqual(ratio, 2) {
		t.Errorf("量比错误: 期望 2, 实际 %v", ratio)
	}

	if !math.IsNaN(VolumeRatio(volumes[:20], 20)) {
		t.Error("点数不足时量比应为NaN")
	}
}

// ========== 交叉测试 ==========

// buildCrossSeries 构造短均线在指定索引处从下方上穿长均线的序列
func buildCrossSeries(n, crossAt int) (shortMA, longMA []float64) {
	shortMA = make([]float64, n)
	longMA = make([]float64, n)
	for i := 0; i < n; i++ {
		longMA[i] = 100
		if i < crossAt {
			shortMA[i] = 99
		} else {
			shortMA[i] = 101
		}
	}
	return
}

func TestGoldenCrossDetection(t *testing.T) {
	// 短均线在索引40与41之间从下方穿越到上方，窗口36-41内无其他符号变化
	shortMA, longMA := buildCrossSeries(42, 41)

	analysis := AnalyzeCrossover(shortMA, longMA)
	if analysis == nil {
		t.Fatal("数据充足时不应返回nil")
	}
	if analysis.Recent != models.CrossoverGolden {
		t.Errorf("期望金叉, 实际 %s", analysis.Recent)
	}
	if analysis.Trend != models.TrendUp {
		t.Errorf("期望趋势TĂNG, 实际 %s", analysis.Trend)
	}
}

func TestDeathCrossDetection(t *testing.T) {
	_, longMA := buildCrossSeries(42, 41)
	// 短均线从上方跌破长均线
	shortMA := make([]float64, 42)
	for i := range shortMA {
		if i < 41 {
			shortMA[i] = 101
		} else {
			shortMA[i] = 99
		}
	}

	analysis := AnalyzeCrossover(shortMA, longMA)
	if analysis == nil {
		t.Fatal("数据充足时不应返回nil")
	}
	if analysis.Recent != models.CrossoverDeath {
		t.Errorf("期望死叉, 实际 %s", analysis.Recent)
	}
}

func TestCrossoverOutsideLookback(t *testing.T) {
	// 交叉发生在很久以前，最近5个索引对内无符号变化
	shortMA, longMA := buildCrossSeries(60, 10)

	analysis := AnalyzeCrossover(shortMA, longMA)
	if analysis == nil {
		t.Fatal("数据充足时不应返回nil")
	}
	if analysis.Recent != models.CrossoverNone {
		t.Errorf("交叉超出回看窗口时应为none, 实际 %s", analysis.Recent)
	}
}

func TestCrossoverInsufficientData(t *testing.T) {
	// 两条均线几乎全是NaN，无法分析时返回nil，区别于"无交叉"
	shortMA := []float64{math.NaN(), math.NaN(), 100}
	longMA := []float64{math.NaN(), math.NaN(), math.NaN()}

	if analysis := AnalyzeCrossover(shortMA, longMA); analysis != nil {
		t.Errorf("预热不足时应返回nil, 实际 %+v", analysis)
	}
}

func TestCrossoverExtremeRatio(t *testing.T) {
	// 历史最大多头差距10%，当前差距9%，比率应为90%，达到80%阈值
	longMA := make([]float64, 50)
	shortMA := make([]float64, 50)
	for i := range longMA {
		longMA[i] = 100
		shortMA[i] = 101
	}
	shortMA[10] = 110 // 历史极值 +10%
	shortMA[49] = 109 // 当前 +9%

	analysis := AnalyzeCrossover(shortMA, longMA)
	if analysis == nil {
		t.Fatal("数据充足时不应返回nil")
	}
	if !almostEqual(analysis.ExtremeRatioPct, 90) {
		t.Errorf("极值比率错误: 期望 90, 实际 %v", analysis.ExtremeRatioPct)
	}
	if !analysis.NearExtreme || !analysis.AtExtreme {
		t.Errorf("比率90%%应同时触发60%%与80%%阈值: near=%v at=%v",
			analysis.NearExtreme, analysis.AtExtreme)
	}
}

// ========== 指标集合测试 ==========

func buildSeries(n int) models.PriceSeries {
	series := make(models.PriceSeries, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100 + float64(i)*0.5
		series[i] = models.PricePoint{
			Date:   base.AddDate(0, 0, i),
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 10000,
		}
	}
	return series
}

func TestComputeIndicatorSet(t *testing.T) {
	set, err := ComputeIndicatorSet(buildSeries(60))
	if err != nil {
		t.Fatalf("计算指标集合失败: %v", err)
	}

	if !set.MAShort.Defined() || !set.MALong.Defined() {
		t.Error("60个点时10日与30日均线都应有值")
	}
	if set.Crossover == nil {
		t.Error("60个点时交叉分析不应为nil")
	}
	if !set.MomentumW1.Defined() || !set.MomentumW2.Defined() {
		t.Error("动量指标应有值")
	}
}

func TestComputeIndicatorSetShortSeries(t *testing.T) {
	// 只有5个点：均线、波动带预热不足，但不应报错
	set, err := ComputeIndicatorSet(buildSeries(5))
	if err != nil {
		t.Fatalf("短序列不应报错: %v", err)
	}
	if set.MAShort.Defined() {
		t.Error("5个点时10日均线应为NaN")
	}
	if set.Crossover != nil {
		t.Error("预热不足时交叉分析应为nil")
	}
}

func TestComputeIndicatorSetEmpty(t *testing.T) {
	if _, err := ComputeIndicatorSet(nil); err == nil {
		t.Error("空序列应返回错误")
	}
}
