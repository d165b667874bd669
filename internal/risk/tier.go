package risk

import "github.com/S-4-Sidra/heart-disease/internal/domain"

// 风险阈值
const (
	MediumThreshold = 0.30
	HighThreshold   = 0.60
)

// TierOf 将概率映射为风险等级：p < 0.30 为 low，0.30 <= p < 0.60 为 medium，其余为 high
func TierOf(p float64) domain.Tier {
	switch {
	case p < MediumThreshold:
		return domain.TierLow
	case p < HighThreshold:
		return domain.TierMedium
	default:
		return domain.TierHigh
	}
}

// Label 页面显示文本
func Label(t domain.Tier) string {
	switch t {
	case domain.TierLow:
		return "Low Risk"
	case domain.TierHigh:
		return "High Risk"
	default:
		return "Medium Risk"
	}
}

// Color 结果页配色
func Color(t domain.Tier) string {
	switch t {
	case domain.TierLow:
		return "green"
	case domain.TierHigh:
		return "red"
	default:
		return "orange"
	}
}

// Numeric 趋势图数值（Low=1, Medium=2, High=3）
func Numeric(t domain.Tier) int {
	switch t {
	case domain.TierLow:
		return 1
	case domain.TierHigh:
		return 3
	default:
		return 2
	}
}
