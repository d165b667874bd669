package domain

import (
	"fmt"
)

// Sex 性别
type Sex int

const (
	SexFemale Sex = iota
	SexMale
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// Label 表单显示名称（与历史导出一致）
func (s Sex) Label() string {
	if s == SexMale {
		return "Male"
	}
	return "Female"
}

// ChestPainType 胸痛类型
type ChestPainType int

const (
	ChestPainTypicalAngina ChestPainType = iota
	ChestPainAtypicalAngina
	ChestPainNonAnginal
	ChestPainAsymptomatic
)

func (c ChestPainType) String() string {
	switch c {
	case ChestPainTypicalAngina:
		return "typical_angina"
	case ChestPainAtypicalAngina:
		return "atypical_angina"
	case ChestPainNonAnginal:
		return "non_anginal"
	case ChestPainAsymptomatic:
		return "asymptomatic"
	default:
		return "unknown"
	}
}

// RestingECG 静息心电图结果
type RestingECG int

const (
	RestingECGNormal RestingECG = iota
	RestingECGSTTAbnormality
	RestingECGLVHypertrophy
)

func (r RestingECG) String() string {
	switch r {
	case RestingECGNormal:
		return "normal"
	case RestingECGSTTAbnormality:
		return "st_t_abnormality"
	case RestingECGLVHypertrophy:
		return "lv_hypertrophy"
	default:
		return "unknown"
	}
}

// STSlope 运动峰值 ST 段斜率
type STSlope int

const (
	STSlopeUpsloping STSlope = iota
	STSlopeFlat
	STSlopeDownsloping
)

func (s STSlope) String() string {
	switch s {
	case STSlopeUpsloping:
		return "upsloping"
	case STSlopeFlat:
		return "flat"
	case STSlopeDownsloping:
		return "downsloping"
	default:
		return "unknown"
	}
}

// Thalassemia 地中海贫血检查结果
type Thalassemia int

const (
	ThalassemiaNormal Thalassemia = iota + 1
	ThalassemiaFixedDefect
	ThalassemiaReversibleDefect
)

func (t Thalassemia) String() string {
	switch t {
	case ThalassemiaNormal:
		return "normal"
	case ThalassemiaFixedDefect:
		return "fixed_defect"
	case ThalassemiaReversibleDefect:
		return "reversible_defect"
	default:
		return "unknown"
	}
}

// PatientInput 一次评估请求的体征输入（值类型，创建后不再修改）
type PatientInput struct {
	Age            int
	Sex            Sex
	ChestPain      ChestPainType
	RestingBP      int
	Cholesterol    int
	FastingBSHigh  bool
	RestingECG     RestingECG
	MaxHeartRate   int
	ExerciseAngina bool
	STDepression   float64
	STSlope        STSlope
	VesselsColored int
	Thalassemia    Thalassemia
}

// Validate checks the ranges the input form enforces.
func (p PatientInput) Validate() error {
	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"age", float64(p.Age), 18, 100},
		{"resting_bp", float64(p.RestingBP), 90, 200},
		{"cholesterol", float64(p.Cholesterol), 100, 600},
		{"max_heart_rate", float64(p.MaxHeartRate), 60, 220},
		{"st_depression", p.STDepression, 0.0, 6.2},
		{"vessels_colored", float64(p.VesselsColored), 0, 3},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return fmt.Errorf("%w: %s=%v out of range [%v, %v]", ErrInvalidInput, c.name, c.value, c.min, c.max)
		}
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return fmt.Errorf("%w: sex", ErrInvalidInput)
	}
	if p.ChestPain < ChestPainTypicalAngina || p.ChestPain > ChestPainAsymptomatic {
		return fmt.Errorf("%w: chest_pain_type", ErrInvalidInput)
	}
	if p.RestingECG < RestingECGNormal || p.RestingECG > RestingECGLVHypertrophy {
		return fmt.Errorf("%w: resting_ecg", ErrInvalidInput)
	}
	if p.STSlope < STSlopeUpsloping || p.STSlope > STSlopeDownsloping {
		return fmt.Errorf("%w: st_slope", ErrInvalidInput)
	}
	if p.Thalassemia < ThalassemiaNormal || p.Thalassemia > ThalassemiaReversibleDefect {
		return fmt.Errorf("%w: thalassemia", ErrInvalidInput)
	}
	return nil
}

// FeatureCount 特征向量长度
const FeatureCount = 13

// FeatureVector 固定顺序的数值特征：
// [age, sex, chest_pain, resting_bp, cholesterol, fasting_bs, resting_ecg,
//  max_hr, exercise_angina, st_depression, st_slope, vessels_colored, thalassemia]
type FeatureVector [FeatureCount]float64

// FeatureNames 与 FeatureVector 下标一一对应
var FeatureNames = [FeatureCount]string{
	"age",
	"sex",
	"chest_pain",
	"resting_bp",
	"cholesterol",
	"fasting_bs",
	"resting_ecg",
	"max_hr",
	"exercise_angina",
	"st_depression",
	"st_slope",
	"vessels_colored",
	"thalassemia",
}
