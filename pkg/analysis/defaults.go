package analysis

import "stock_advisor/models"

// 兜底文案，全部为固定内容，保证解析彻底失败时仍产出确定性的合法结果
const defaultSummary = "Không đủ dữ liệu để đưa ra nhận định, tạm thời giữ quan điểm trung lập"

// 风险/机会列表不足3条时按序补齐的固定默认文案
var (
	defaultRisks = []string{
		"Rủi ro biến động chung của thị trường chứng khoán",
		"Thanh khoản cổ phiếu có thể thay đổi bất ngờ",
		"Thông tin doanh nghiệp chưa được cập nhật đầy đủ",
	}
	defaultOpportunities = []string{
		"Theo dõi thêm tín hiệu kỹ thuật để xác nhận xu hướng",
		"Chờ vùng giá hấp dẫn hơn để giải ngân",
		"Cân nhắc trung bình giá nếu nền tảng cơ bản tốt",
	}
)

// DefaultResult 第四阶段：上游文本完全无法解析时的兜底结果
// 两个维度都给HOLD、50%置信度，价格全空，风险与机会各3条固定文案
// 管线绝不向调用方抛解析错误，畸形输入退化为这个安全默认值
func DefaultResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ShortTerm: models.HorizonView{
			Signal:     models.SignalHold,
			Confidence: defaultConfidence,
			Summary:    defaultSummary,
		},
		LongTerm: models.HorizonView{
			Signal:     models.SignalHold,
			Confidence: defaultConfidence,
			Summary:    defaultSummary,
		},
		Risks:         append([]string(nil), defaultRisks...),
		Opportunities: append([]string(nil), defaultOpportunities...),
	}
}
