package analysis

import (
	"encoding/json"
	"reflect"
	"testing"

	"stock_advisor/models"
)

// ========== 提取测试 ==========

func TestExtractObjectBalanced(t *testing.T) {
	// 对象后面的散文里夹带大括号，平衡扫描必须在配对处停下
	text := `Phân tích: {"a": {"b": 1}} và lưu ý {quan trọng} phía sau`
	obj, ok := ExtractObject(text)
	if !ok {
		t.Fatal("应成功提取对象")
	}
	if obj != `{"a": {"b": 1}}` {
		t.Errorf("提取结果错误: %q", obj)
	}
}

func TestExtractObjectUnbalanced(t *testing.T) {
	if _, ok := ExtractObject(`{"shortTerm": {`); ok {
		t.Error("深度未归零时提取应失败")
	}
	if _, ok := ExtractObject(`không có đối tượng nào`); ok {
		t.Error("没有'{'时提取应失败")
	}
}

func TestStripMarkdown(t *testing.T) {
	text := "```json\n{\"a\":1}\n```"
	if got := StripMarkdown(text); got != `{"a":1}` {
		t.Errorf("剥离围栏失败: %q", got)
	}

	// 大写语言标签同样处理
	text = "```JSON\n{\"a\":1}\n```"
	if got := StripMarkdown(text); got != `{"a":1}` {
		t.Errorf("大小写不敏感剥离失败: %q", got)
	}
}

// ========== 修复测试 ==========

func TestRepairRules(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"裸键名", `{shortTerm: {signal: "BUY", confidence: 80, summary: "ok"}, longTerm: {signal: "HOLD", confidence: 50, summary: "ok"}}`},
		{"单引号", `{'shortTerm': {'signal': 'BUY', 'confidence': 80, 'summary': 'ok'}, 'longTerm': {'signal': 'HOLD', 'confidence': 50, 'summary': 'ok'}}`},
		{"尾随逗号", `{"shortTerm": {"signal": "BUY", "confidence": 80, "summary": "ok",}, "longTerm": {"signal": "HOLD", "confidence": 50, "summary": "ok"},}`},
		{"嵌入换行", "{\"shortTerm\": {\"signal\": \"BUY\",\n\t\"confidence\": 80, \"summary\": \"ok\"}, \"longTerm\": {\"signal\": \"HOLD\", \"confidence\": 50, \"summary\": \"ok\"}}"},
	}

	for _, c := range cases {
		repaired := Repair(c.input)
		var parsed map[string]any
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			t.Errorf("%s: 修复后仍不可解析: %v\n%s", c.name, err, repaired)
		}
	}
}

func TestRepairQuotedNull(t *testing.T) {
	repaired := Repair(`{"buyPrice": "null", "stopLoss": "undefined"}`)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		t.Fatalf("修复后解析失败: %v", err)
	}
	if parsed["buyPrice"] != nil || parsed["stopLoss"] != nil {
		t.Errorf(`"null"/"undefined"应映射为裸null: %v`, parsed)
	}
}

// ========== 端到端归一化测试 ==========

func TestNormalizeMarkdownWrapped(t *testing.T) {
	text := "```json\n{\"shortTerm\":{\"signal\":\"MUA\",\"confidence\":80,\"summary\":\"ok\"},\"longTerm\":{\"signal\":\"BÁN\",\"confidence\":40,\"summary\":\"ok\"},\"risks\":[\"rủi ro thanh khoản\",\"rủi ro vĩ mô\"],\"opportunities\":[\"định giá hấp dẫn\"]}\n```"

	result := Normalize(text)

	if result.ShortTerm.Signal != models.SignalBuy {
		t.Errorf("MUA应归一为BUY, 实际 %s", result.ShortTerm.Signal)
	}
	if result.LongTerm.Signal != models.SignalSell {
		t.Errorf("BÁN应归一为SELL, 实际 %s", result.LongTerm.Signal)
	}
	if len(result.Risks) != 3 {
		t.Errorf("risks应补齐为3条, 实际 %d", len(result.Risks))
	}
	if result.Risks[2] != defaultRisks[0] {
		t.Errorf("第3条risk应为首条默认文案, 实际 %q", result.Risks[2])
	}
	if len(result.Opportunities) != 3 {
		t.Errorf("opportunities应补齐为3条, 实际 %d", len(result.Opportunities))
	}
}

func TestNormalizeMalformedFallsToDefault(t *testing.T) {
	result := Normalize(`{"shortTerm": {`)
	expected := DefaultResult()
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("不平衡括号应精确产出第四阶段默认结果\n期望 %+v\n实际 %+v", expected, result)
	}
}

func TestNormalizeEmptyAndGarbage(t *testing.T) {
	for _, text := range []string{"", "không có JSON ở đây", "```\n```", "}{"} {
		result := Normalize(text)
		if result == nil {
			t.Fatalf("输入 %q 不应返回nil", text)
		}
		if result.ShortTerm.Signal != models.SignalHold || len(result.Risks) != 3 {
			t.Errorf("输入 %q 应得到完整默认结果", text)
		}
	}
}

func TestNormalizeAnchoredRetry(t *testing.T) {
	// 字符串值里夹着'}'会让平衡扫描提前归零，截出的片段解析失败；
	// 兜底重试用锚定模式在原文里取更宽的匹配，字符串内的大括号是合法JSON
	text := `{"shortTerm": {"signal": "MUA", "confidence": 70, "summary": "kỳ vọng tăng :} mạnh"}, "longTerm": {"signal": "GIỮ", "confidence": 60, "summary": "ok"}}`

	result := Normalize(text)
	if result.ShortTerm.Signal != models.SignalBuy {
		t.Errorf("锚定重试应解析出BUY, 实际 %s", result.ShortTerm.Signal)
	}
	if result.LongTerm.Signal != models.SignalHold {
		t.Errorf("GIỮ无法匹配应归一为HOLD, 实际 %s", result.LongTerm.Signal)
	}
}

// ========== 字段归一化测试 ==========

func TestNormalizeConfidence(t *testing.T) {
	cases := []struct {
		input    any
		expected int
	}{
		{float64(150), 100},
		{float64(-5), 0},
		{"abc", 50},
		{float64(73.6), 74},
		{nil, 50},
		{"88", 88},
	}
	for _, c := range cases {
		if got := normalizeConfidence(c.input); got != c.expected {
			t.Errorf("confidence %v: 期望 %d, 实际 %d", c.input, c.expected, got)
		}
	}
}

func TestNormalizeSignalOrder(t *testing.T) {
	cases := []struct {
		input    any
		expected models.Signal
	}{
		{"MUA", models.SignalBuy},
		{"buy", models.SignalBuy},
		{"BÁN", models.SignalSell},
		{"sell", models.SignalSell},
		{"nên MUA mạnh", models.SignalBuy},
		// 混杂标记：BUY先于SELL检查，结果必须确定
		{"BUY/SELL", models.SignalBuy},
		{"GIỮ", models.SignalHold},
		{"", models.SignalHold},
		{nil, models.SignalHold},
	}
	for _, c := range cases {
		if got := normalizeSignal(c.input); got != c.expected {
			t.Errorf("signal %v: 期望 %s, 实际 %s", c.input, c.expected, got)
		}
	}
}

func TestNormalizePriceRescale(t *testing.T) {
	if p := normalizePrice(float64(85.5)); p == nil || *p != 85500 {
		t.Errorf("85.5应按千单位乘回85500, 实际 %v", p)
	}
	if p := normalizePrice(float64(95000)); p == nil || *p != 95000 {
		t.Errorf("95000已超过阈值应保持不变, 实际 %v", p)
	}
	if p := normalizePrice("null"); p != nil {
		t.Errorf(`"null"应归一为nil, 实际 %v`, *p)
	}
	if p := normalizePrice("abc"); p != nil {
		t.Errorf("非数值应归一为nil, 实际 %v", *p)
	}
	if p := normalizePrice(nil); p != nil {
		t.Errorf("nil应保持nil, 实际 %v", *p)
	}
}

func TestPriceGating(t *testing.T) {
	text := `{"shortTerm": {"signal": "HOLD", "confidence": 50, "summary": "ok"}, "longTerm": {"signal": "SELL", "confidence": 60, "summary": "ok"}, "buyPrice": 85, "targetPrice": 95, "stopLoss": 80}`

	result := Normalize(text)
	if result.BuyPrice != nil || result.TargetPrice != nil || result.StopLoss != nil {
		t.Errorf("无BUY信号时三个价格都必须为nil: buy=%v target=%v stop=%v",
			result.BuyPrice, result.TargetPrice, result.StopLoss)
	}
}

func TestPricesKeptWithBuySignal(t *testing.T) {
	text := `{"shortTerm": {"signal": "MUA", "confidence": 80, "summary": "ok"}, "longTerm": {"signal": "HOLD", "confidence": 50, "summary": "ok"}, "buyPrice": 85.5, "targetPrice": 95, "stopLoss": 80}`

	result := Normalize(text)
	if result.BuyPrice == nil || *result.BuyPrice != 85500 {
		t.Errorf("BUY信号下买入价应为85500, 实际 %v", result.BuyPrice)
	}
	if result.TargetPrice == nil || *result.TargetPrice != 95000 {
		t.Errorf("目标价应为95000, 实际 %v", result.TargetPrice)
	}
}

func TestNormalizeListCardinality(t *testing.T) {
	cases := []struct {
		name  string
		input any
	}{
		{"空数组", []any{}},
		{"1条", []any{"rủi ro thanh khoản"}},
		{"10条", []any{"một một", "hai hai", "ba ba ba", "bốn bốn", "năm năm", "sáu sáu", "bảy bảy", "tám tám", "chín chín", "mười mười"}},
		{"非数组", "garbage"},
		{"nil", nil},
		{"混入短串与非字符串", []any{"ok", float64(5), "đủ dài rồi", ""}},
	}

	for _, c := range cases {
		got := normalizeList(c.input, defaultRisks)
		if len(got) != 3 {
			t.Errorf("%s: 长度应恒为3, 实际 %d", c.name, len(got))
		}
	}
}

func TestNormalizeListOrderAndTruncate(t *testing.T) {
	input := []any{"thứ nhất", "thứ hai", "thứ ba", "thứ tư"}
	got := normalizeList(input, defaultRisks)
	expected := []string{"thứ nhất", "thứ hai", "thứ ba"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("应按原序保留前3条: %v", got)
	}
}

func TestNormalizeSentiment(t *testing.T) {
	cases := []struct {
		input    any
		expected models.Sentiment
	}{
		{"positive", models.SentimentPositive},
		{"Tích cực", models.SentimentPositive},
		{"negative", models.SentimentNegative},
		{"tiêu cực", models.SentimentNegative},
		{"trung lập", models.SentimentNeutral},
		{nil, models.SentimentNeutral},
	}
	for _, c := range cases {
		if got := normalizeSentiment(c.input); got != c.expected {
			t.Errorf("sentiment %v: 期望 %s, 实际 %s", c.input, c.expected, got)
		}
	}
}

// ========== 幂等性测试 ==========

func TestNormalizeIdempotent(t *testing.T) {
	text := `{"shortTerm": {"signal": "MUA", "confidence": 80, "summary": "triển vọng ngắn hạn tốt"}, "longTerm": {"signal": "HOLD", "confidence": 55, "summary": "chờ thêm tín hiệu"}, "buyPrice": 85.5, "targetPrice": 95, "stopLoss": 80, "risks": ["rủi ro thanh khoản"], "opportunities": ["định giá hấp dẫn"], "newsAnalysis": {"sentiment": "positive", "summary": "tin tốt", "impactOnPrice": "hỗ trợ giá"}}`

	first := Normalize(text)

	serialized, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	second := Normalize(string(serialized))

	if !reflect.DeepEqual(first, second) {
		t.Errorf("重复归一化应与首次结果完全一致\n第一次 %+v\n第二次 %+v", first, second)
	}
}
