package encoder

import (
	"fmt"
	"strings"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
)

// 表单标签解析：同时接受机器编码（typical_angina）和页面显示文本（Typical Angina）

func normalize(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

func ParseSex(label string) (domain.Sex, error) {
	switch normalize(label) {
	case "male", "m":
		return domain.SexMale, nil
	case "female", "f":
		return domain.SexFemale, nil
	}
	return 0, fmt.Errorf("%w: sex %q", domain.ErrEncoding, label)
}

func ParseChestPain(label string) (domain.ChestPainType, error) {
	switch normalize(label) {
	case "typical_angina":
		return domain.ChestPainTypicalAngina, nil
	case "atypical_angina":
		return domain.ChestPainAtypicalAngina, nil
	case "non_anginal", "non_anginal_pain":
		return domain.ChestPainNonAnginal, nil
	case "asymptomatic":
		return domain.ChestPainAsymptomatic, nil
	}
	return 0, fmt.Errorf("%w: chest pain type %q", domain.ErrEncoding, label)
}

func ParseRestingECG(label string) (domain.RestingECG, error) {
	switch normalize(label) {
	case "normal":
		return domain.RestingECGNormal, nil
	case "st_t_abnormality":
		return domain.RestingECGSTTAbnormality, nil
	case "lv_hypertrophy", "left_ventricular_hypertrophy":
		return domain.RestingECGLVHypertrophy, nil
	}
	return 0, fmt.Errorf("%w: resting ecg %q", domain.ErrEncoding, label)
}

func ParseSTSlope(label string) (domain.STSlope, error) {
	switch normalize(label) {
	case "upsloping":
		return domain.STSlopeUpsloping, nil
	case "flat":
		return domain.STSlopeFlat, nil
	case "downsloping":
		return domain.STSlopeDownsloping, nil
	}
	return 0, fmt.Errorf("%w: st slope %q", domain.ErrEncoding, label)
}

func ParseThalassemia(label string) (domain.Thalassemia, error) {
	switch normalize(label) {
	case "normal":
		return domain.ThalassemiaNormal, nil
	case "fixed_defect":
		return domain.ThalassemiaFixedDefect, nil
	case "reversible_defect":
		return domain.ThalassemiaReversibleDefect, nil
	}
	return 0, fmt.Errorf("%w: thalassemia %q", domain.ErrEncoding, label)
}

// ParseYesNo 解析 Yes/No 选择框
func ParseYesNo(label string) (bool, error) {
	switch normalize(label) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: yes/no %q", domain.ErrEncoding, label)
}

// Form 表单原始输入（标签形式）
type Form struct {
	Age            int     `json:"age"`
	Sex            string  `json:"sex"`
	ChestPain      string  `json:"chest_pain_type"`
	RestingBP      int     `json:"resting_bp"`
	Cholesterol    int     `json:"cholesterol"`
	FastingBSHigh  string  `json:"fasting_bs_high"`
	RestingECG     string  `json:"resting_ecg"`
	MaxHeartRate   int     `json:"max_heart_rate"`
	ExerciseAngina string  `json:"exercise_angina"`
	STDepression   float64 `json:"st_depression"`
	STSlope        string  `json:"st_slope"`
	VesselsColored int     `json:"vessels_colored"`
	Thalassemia    string  `json:"thalassemia"`
}

// ParseForm converts form labels into a PatientInput. Ranges are not checked
// here; see domain.PatientInput.Validate.
func ParseForm(f Form) (domain.PatientInput, error) {
	var (
		p   domain.PatientInput
		err error
	)
	p.Age = f.Age
	p.RestingBP = f.RestingBP
	p.Cholesterol = f.Cholesterol
	p.MaxHeartRate = f.MaxHeartRate
	p.STDepression = f.STDepression
	p.VesselsColored = f.VesselsColored

	if p.Sex, err = ParseSex(f.Sex); err != nil {
		return domain.PatientInput{}, err
	}
	if p.ChestPain, err = ParseChestPain(f.ChestPain); err != nil {
		return domain.PatientInput{}, err
	}
	if p.FastingBSHigh, err = ParseYesNo(f.FastingBSHigh); err != nil {
		return domain.PatientInput{}, err
	}
	if p.RestingECG, err = ParseRestingECG(f.RestingECG); err != nil {
		return domain.PatientInput{}, err
	}
	if p.ExerciseAngina, err = ParseYesNo(f.ExerciseAngina); err != nil {
		return domain.PatientInput{}, err
	}
	if p.STSlope, err = ParseSTSlope(f.STSlope); err != nil {
		return domain.PatientInput{}, err
	}
	if p.Thalassemia, err = ParseThalassemia(f.Thalassemia); err != nil {
		return domain.PatientInput{}, err
	}
	return p, nil
}
