package domain

import "time"

// Tier 风险等级
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tiers 按风险从低到高排列
var Tiers = []Tier{TierLow, TierMedium, TierHigh}

// Known reports whether t is one of the three defined tiers.
func (t Tier) Known() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	default:
		return false
	}
}

// InputSummary 结果页展示的部分输入字段
type InputSummary struct {
	Age          int    `json:"age"`
	Sex          string `json:"sex"`
	ChestPain    string `json:"chest_pain"`
	RestingBP    int    `json:"blood_pressure"`
	Cholesterol  int    `json:"cholesterol"`
	MaxHeartRate int    `json:"max_heart_rate"`
}

// SummaryOf 从输入中提取结果页摘要
func SummaryOf(p PatientInput) InputSummary {
	return InputSummary{
		Age:          p.Age,
		Sex:          p.Sex.Label(),
		ChestPain:    p.ChestPain.String(),
		RestingBP:    p.RestingBP,
		Cholesterol:  p.Cholesterol,
		MaxHeartRate: p.MaxHeartRate,
	}
}

// RiskAssessment 单次评估结果；会话只保留最新一次
type RiskAssessment struct {
	ID          string       `json:"assessment_id"`
	Probability float64      `json:"probability"`
	Tier        Tier         `json:"tier"`
	Summary     InputSummary `json:"input_summary"`
	AssessedAt  time.Time    `json:"assessed_at"`
}

// HistoryEntry 会话历史记录（只追加）
type HistoryEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Tier        Tier      `json:"tier"`
	Probability float64   `json:"probability"`
	Age         int       `json:"age"`
	Sex         Sex       `json:"sex"`
}
