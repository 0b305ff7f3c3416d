package core

import (
	"fmt"
	"strings"

	"stock_advisor/models"
)

// BuildPrompt 把指标与基本面组装成发给文本生成服务的越南语提示词，
// 并要求严格的JSON输出。上游实际返回什么形状由归一化器兜底，
// 这里只负责把请求讲清楚。
func BuildPrompt(req *models.AnalysisRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Bạn là chuyên gia phân tích chứng khoán Việt Nam. Hãy phân tích cổ phiếu %s dựa trên dữ liệu sau.\n\n", req.Symbol))

	set := req.Indicators
	sb.WriteString("## Chỉ báo kỹ thuật\n")
	sb.WriteString(fmt.Sprintf("- Giá đóng cửa gần nhất: %.2f\n", set.LatestClose))
	if set.MAShort.Defined() {
		sb.WriteString(fmt.Sprintf("- MA10: %.2f\n", float64(set.MAShort)))
	}
	if set.MALong.Defined() {
		sb.WriteString(fmt.Sprintf("- MA30: %.2f\n", float64(set.MALong)))
	}
	if set.Bands.Middle.Defined() {
		sb.WriteString(fmt.Sprintf("- Bollinger(20,2): trên %.2f / giữa %.2f / dưới %.2f, vị trí %.2f\n",
			float64(set.Bands.Upper), float64(set.Bands.Middle), float64(set.Bands.Lower), float64(set.Bands.Position)))
	}
	sb.WriteString(fmt.Sprintf("- Pivot Woodie: P=%.2f R1=%.2f R2=%.2f S1=%.2f S2=%.2f (vùng tích lũy tham khảo)\n",
		set.Pivots.Pivot, set.Pivots.R1, set.Pivots.R2, set.Pivots.S1, set.Pivots.S2))
	if set.MomentumW1.Defined() {
		sb.WriteString(fmt.Sprintf("- Biến động 5 phiên: %.2f%%\n", float64(set.MomentumW1)))
	}
	if set.MomentumW2.Defined() {
		sb.WriteString(fmt.Sprintf("- Biến động 10 phiên: %.2f%%\n", float64(set.MomentumW2)))
	}
	if set.VolumeRatio.Defined() {
		sb.WriteString(fmt.Sprintf("- Tỷ lệ khối lượng so với trung bình 20 phiên: %.2f\n", float64(set.VolumeRatio)))
	}
	sb.WriteString(fmt.Sprintf("- 52 tuần: đỉnh %.2f / đáy %.2f\n", set.YearRange.High, set.YearRange.Low))
	if set.Crossover != nil {
		sb.WriteString(fmt.Sprintf("- Trạng thái MA: xu hướng %s, giao cắt gần đây: %s. %s\n",
			set.Crossover.Trend, set.Crossover.Recent, set.Crossover.Interpretation))
	}

	if f := req.Fundamentals; f != nil {
		sb.WriteString("\n## Cơ bản\n")
		sb.WriteString(fmt.Sprintf("- P/E %.2f, P/B %.2f, ROE %.2f%%, ROA %.2f%%, EPS %.0f, cổ tức %.2f%%\n",
			f.PE, f.PB, f.ROE, f.ROA, f.EPS, f.DividendYield))
		for i, q := range f.Quarterly {
			if i >= 4 {
				break
			}
			sb.WriteString(fmt.Sprintf("- %s: doanh thu %.0f, lợi nhuận %.0f\n", q.Quarter, q.Revenue, q.Profit))
		}
	}

	if len(req.Recommendations) > 0 {
		sb.WriteString("\n## Khuyến nghị của công ty chứng khoán\n")
		for i, r := range req.Recommendations {
			if i >= 5 {
				break
			}
			sb.WriteString(fmt.Sprintf("- %s: %s, giá mục tiêu %.0f\n", r.Firm, r.Rating, r.TargetPrice))
		}
	}

	sb.WriteString(`
Trả lời CHỈ bằng một đối tượng JSON đúng theo mẫu sau, không thêm văn bản nào khác:
{
  "shortTerm": {"signal": "MUA|BÁN|GIỮ", "confidence": 0-100, "summary": "..."},
  "longTerm": {"signal": "MUA|BÁN|GIỮ", "confidence": 0-100, "summary": "..."},
  "buyPrice": số hoặc null,
  "targetPrice": số hoặc null,
  "stopLoss": số hoặc null,
  "risks": ["...", "...", "..."],
  "opportunities": ["...", "...", "..."],
  "newsAnalysis": {"sentiment": "positive|negative|neutral", "summary": "...", "impactOnPrice": "..."}
}
`)
	return sb.String()
}
