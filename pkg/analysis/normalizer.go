// Package analysis 把外部文本生成服务返回的自由文本确定性地收敛为
// 形状、取值范围和条数都有保证的AnalysisResult。
// 上游可能返回markdown包裹的JSON、残缺JSON、夹杂散文甚至完全不可用的内容，
// 五个阶段保证每一条路径都终结于一个完整合法的结果，不存在"错误"终态。
package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"stock_advisor/models"
)

const (
	defaultConfidence = 50
	listLength        = 3 // risks/opportunities恒定条数

	// 价格单位启发式：上游文本有时用"千VND"的缩写量级报价，
	// 小于1000的数值一律视为千单位并乘回1000。产品策略，所有价格字段统一适用
	priceUnitThreshold  = 1000
	priceUnitMultiplier = 1000
)

// rawHorizon 解析阶段的松散结构，字段用any承接模型可能给出的任意类型
type rawHorizon struct {
	Signal     any `json:"signal"`
	Confidence any `json:"confidence"`
	Summary    any `json:"summary"`
}

type rawNews struct {
	Sentiment     any `json:"sentiment"`
	Summary       any `json:"summary"`
	ImpactOnPrice any `json:"impactOnPrice"`
}

// rawResult 模型响应的带标签松散模式，第五阶段在这个已知形状上做全函数归一化
type rawResult struct {
	ShortTerm     *rawHorizon `json:"shortTerm"`
	LongTerm      *rawHorizon `json:"longTerm"`
	BuyPrice      any         `json:"buyPrice"`
	TargetPrice   any         `json:"targetPrice"`
	StopLoss      any         `json:"stopLoss"`
	Risks         any         `json:"risks"`
	Opportunities any         `json:"opportunities"`
	NewsAnalysis  *rawNews    `json:"newsAnalysis"`
}

// Normalize 把模型响应文本收敛为标准化结果，任何输入都不会报错
// 阶段推进：剥markdown → 平衡提取 → 修复+解析{成功→归一化, 失败→锚定重试一次} → 兜底默认
func Normalize(text string) *models.AnalysisResult {
	cleaned := StripMarkdown(text)

	object, ok := ExtractObject(cleaned)
	if !ok {
		return DefaultResult()
	}

	var parsed rawResult
	if err := json.Unmarshal([]byte(Repair(object)), &parsed); err != nil {
		// 唯一一次兜底重试：回到未清洗的原始文本，用锚定模式取更窄的匹配再修复重解析
		anchored := FindAnchored(text)
		if anchored == "" {
			return DefaultResult()
		}
		parsed = rawResult{}
		if err := json.Unmarshal([]byte(Repair(anchored)), &parsed); err != nil {
			return DefaultResult()
		}
	}

	return normalizeParsed(&parsed)
}

// normalizeParsed 第五阶段：对部分成形的对象做逐字段归一化
func normalizeParsed(raw *rawResult) *models.AnalysisResult {
	result := &models.AnalysisResult{
		ShortTerm:     normalizeHorizon(raw.ShortTerm),
		LongTerm:      normalizeHorizon(raw.LongTerm),
		BuyPrice:      normalizePrice(raw.BuyPrice),
		TargetPrice:   normalizePrice(raw.TargetPrice),
		StopLoss:      normalizePrice(raw.StopLoss),
		Risks:         normalizeList(raw.Risks, defaultRisks),
		Opportunities: normalizeList(raw.Opportunities, defaultOpportunities),
	}

	// 价格门控：两个维度都不是BUY时，结果绝不能带着买入/目标/止损价出现，
	// 即使解析出的对象给了数值也强制置空
	if !result.HasBuySignal() {
		result.BuyPrice = nil
		result.TargetPrice = nil
		result.StopLoss = nil
	}

	if raw.NewsAnalysis != nil {
		result.NewsAnalysis = &models.NewsAnalysis{
			Sentiment:     normalizeSentiment(raw.NewsAnalysis.Sentiment),
			Summary:       coerceString(raw.NewsAnalysis.Summary),
			ImpactOnPrice: coerceString(raw.NewsAnalysis.ImpactOnPrice),
		}
	}

	return result
}

func normalizeHorizon(raw *rawHorizon) models.HorizonView {
	if raw == nil {
		return models.HorizonView{
			Signal:     models.SignalHold,
			Confidence: defaultConfidence,
			Summary:    defaultSummary,
		}
	}
	summary := strings.TrimSpace(coerceString(raw.Summary))
	if summary == "" {
		summary = defaultSummary
	}
	return models.HorizonView{
		Signal:     normalizeSignal(raw.Signal),
		Confidence: normalizeConfidence(raw.Confidence),
		Summary:    summary,
	}
}

// normalizeSignal 大小写折叠后做子串匹配，MUA/BUY先于BÁN/SELL检查，
// 混杂或乱码的标记也能确定性地落到一个信号上；匹配不到一律HOLD
func normalizeSignal(value any) models.Signal {
	token := strings.ToUpper(coerceString(value))
	switch {
	case strings.Contains(token, "MUA") || strings.Contains(token, "BUY"):
		return models.SignalBuy
	case strings.Contains(token, "BÁN") || strings.Contains(token, "SELL"):
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

// normalizeConfidence 强转数值，非数值给50，其余四舍五入并钳制到[0,100]
func normalizeConfidence(value any) int {
	num, ok := coerceNumber(value)
	if !ok {
		return defaultConfidence
	}
	rounded := int(math.Round(num))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// normalizePrice 强转数值，null/"null"/"undefined"/非数值一律nil
// 小于1000的数值按千单位乘回1000
func normalizePrice(value any) *float64 {
	num, ok := coerceNumber(value)
	if !ok {
		return nil
	}
	if num < priceUnitThreshold {
		num *= priceUnitMultiplier
	}
	return &num
}

// normalizeList 保留原顺序中长度大于3的非空字符串，凑满3条即止，
// 不足3条时从固定默认文案按序补齐，结果恒为3条
func normalizeList(value any, defaults []string) []string {
	result := make([]string, 0, listLength)

	if items, ok := value.([]any); ok {
		for _, item := range items {
			if len(result) == listLength {
				break
			}
			s, ok := item.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if len([]rune(s)) > 3 {
				result = append(result, s)
			}
		}
	}

	for i := 0; len(result) < listLength && i < len(defaults); i++ {
		result = append(result, defaults[i])
	}
	return result
}

// normalizeSentiment 情绪关键词子串匹配（含越南语写法），匹配不到一律neutral
func normalizeSentiment(value any) models.Sentiment {
	token := strings.ToLower(coerceString(value))
	switch {
	case strings.Contains(token, "positive") || strings.Contains(token, "tích cực"):
		return models.SentimentPositive
	case strings.Contains(token, "negative") || strings.Contains(token, "tiêu cực"):
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		lower := strings.ToLower(trimmed)
		if lower == "" || lower == "null" || lower == "undefined" {
			return 0, false
		}
		num, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}
